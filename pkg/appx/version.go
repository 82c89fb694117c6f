package appx

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a packed four part version number as stored in the repository
// (OSMinVersion, OSMaxVersionTested): major<<48 | minor<<32 | build<<16 | revision.
type Version uint64

// NewVersion packs the four parts.
func NewVersion(major, minor, build, revision uint16) Version {
	return Version(uint64(major)<<48 | uint64(minor)<<32 | uint64(build)<<16 | uint64(revision))
}

// ParseVersion parses "a.b.c.d". Missing trailing parts are zero.
func ParseVersion(s string) (Version, error) {
	if s == "" {
		return 0, fmt.Errorf("appx: empty version")
	}
	parts := strings.Split(s, ".")
	if len(parts) > 4 {
		return 0, fmt.Errorf("appx: version %q has %d parts, want at most 4", s, len(parts))
	}
	var nums [4]uint16
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 16)
		if err != nil {
			return 0, fmt.Errorf("appx: version %q: %w", s, err)
		}
		nums[i] = uint16(n)
	}
	return NewVersion(nums[0], nums[1], nums[2], nums[3]), nil
}

func (v Version) Major() uint16    { return uint16(v >> 48) }
func (v Version) Minor() uint16    { return uint16(v >> 32) }
func (v Version) Build() uint16    { return uint16(v >> 16) }
func (v Version) Revision() uint16 { return uint16(v) }

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major(), v.Minor(), v.Build(), v.Revision())
}

func (v Version) MarshalText() ([]byte, error) { return []byte(v.String()), nil }
