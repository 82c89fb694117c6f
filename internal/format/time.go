package format

import "time"

// filetimeEpochDelta is the number of 100ns intervals between 1601-01-01 and 1970-01-01.
const filetimeEpochDelta = 116444736000000000

// FiletimeToTime converts a Windows FILETIME to UTC. Zero stays the zero time.
func FiletimeToTime(v uint64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	ns := (int64(v) - filetimeEpochDelta) * 100
	return time.Unix(0, ns).UTC()
}

// TimeToFiletime converts t to a Windows FILETIME.
func TimeToFiletime(t time.Time) uint64 {
	if t.IsZero() {
		return 0
	}
	return uint64(t.UnixNano()/100 + filetimeEpochDelta)
}
