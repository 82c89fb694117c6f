package hive

import (
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/appxkit/internal/format"
)

func TestDecodeName_Compressed(t *testing.T) {
	got := decodeName([]byte{'C', 'a', 'f', 0xE9, ' ', 0x80}, true)
	require.Equal(t, "Café €", string(utf16.Decode(got)))
}

func TestDecodeName_UTF16(t *testing.T) {
	raw := []byte{'A', 0, 0x3D, 0xD8, 0x00, 0xDE} // "A" + U+1F600
	got := decodeName(raw, false)
	require.Equal(t, []uint16{'A', 0xD83D, 0xDE00}, got)
}

func TestNamesEqual(t *testing.T) {
	u := func(s string) []uint16 { return utf16.Encode([]rune(s)) }
	require.True(t, namesEqual(u("Packages"), u("PACKAGES")))
	require.True(t, namesEqual(nil, u("")))
	require.False(t, namesEqual(u("Families"), u("Familie")))
	require.True(t, namesEqual(u("Café"), u("CAFÉ")))
	require.True(t, namesEqual(u("straße"), u("STRAßE")))
	require.False(t, namesEqual(u("Straße"), u("STRASSE")), "no multi-unit expansion")
	require.False(t, namesEqual([]uint16{0xD83D, 0xDE00}, []uint16{0xD83D, 0xDE01}))
}

func TestResolveRelCellPayload(t *testing.T) {
	buf := make([]byte, format.HiveDataBase+0x40)
	format.PutI32(buf, format.HiveDataBase+0x20, -16)
	copy(buf[format.HiveDataBase+0x24:], "nk")

	pl, err := resolveRelCellPayload(buf, 0x20)
	require.NoError(t, err)
	require.Len(t, pl, 12)
	require.Equal(t, "nk", string(pl[:2]))

	cases := map[string]uint32{
		"zero":    0,
		"invalid": format.InvalidOffset,
		"range":   0x1000,
		"free":    0x30, // size field is zero
	}
	for name, off := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := resolveRelCellPayload(buf, off)
			require.ErrorIs(t, err, ErrCorrupt)
		})
	}

	format.PutI32(buf, format.HiveDataBase+0x20, -0x400)
	_, err = resolveRelCellPayload(buf, 0x20)
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestDetectListKind(t *testing.T) {
	require.Equal(t, ListLH, DetectListKind([]byte("lh\x00\x00")))
	require.Equal(t, ListRI, DetectListKind([]byte("ri")))
	require.Equal(t, ListUnknown, DetectListKind([]byte("l")))
	require.Equal(t, "lf", ListLF.String())
}
