package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLittleEndian(t *testing.T) {
	b := make([]byte, 16)
	PutU16(b, 0, 0xBEEF)
	PutU32(b, 2, 0xDEADBEEF)
	PutI32(b, 6, -8)
	PutU64(b, 8, 0x0102030405060708)

	require.Equal(t, []byte{0xEF, 0xBE}, b[0:2])
	require.Equal(t, uint16(0xBEEF), ReadU16(b, 0))
	require.Equal(t, uint32(0xDEADBEEF), ReadU32(b, 2))
	require.Equal(t, int32(-8), ReadI32(b, 6))
	require.Equal(t, uint32(0xFFFFFFF8), ReadU32(b, 6))
	require.Equal(t, uint64(0x0102030405060708), ReadU64(b, 8))
	require.Equal(t, byte(0x08), b[8])
}

func TestHeaderChecksum(t *testing.T) {
	b := make([]byte, REGFChecksumDwords*DWORDSize+DWORDSize)
	require.Equal(t, uint32(1), HeaderChecksum(b), "zero remaps to 1")

	PutU32(b, 0, 0x12345678)
	PutU32(b, 4, 0x0000FFFF)
	require.Equal(t, uint32(0x1234A987), HeaderChecksum(b))

	// The dword after the checksummed range is ignored.
	PutU32(b, REGFChecksumDwords*DWORDSize, 0xAAAAAAAA)
	require.Equal(t, uint32(0x1234A987), HeaderChecksum(b))

	clear(b)
	PutU32(b, 0, 0xFFFFFFFF)
	require.Equal(t, uint32(0xFFFFFFFE), HeaderChecksum(b))
}

func TestFiletime(t *testing.T) {
	want := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, want, FiletimeToTime(132223104000000000))
	require.Equal(t, uint64(132223104000000000), TimeToFiletime(want))

	require.True(t, FiletimeToTime(0).IsZero())
	require.Zero(t, TimeToFiletime(time.Time{}))

	ts := time.Date(2023, 6, 15, 12, 30, 45, 123456700, time.UTC)
	require.Equal(t, ts, FiletimeToTime(TimeToFiletime(ts)))
}
