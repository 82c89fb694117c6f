package hive

import (
	"slices"
	"unicode/utf16"

	"golang.org/x/text/cases"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/language"

	"github.com/joshuapare/appxkit/internal/format"
)

// decodeName converts an on-disk name to UTF-16 code units. Compressed names
// are Windows-1252; the rest are UTF-16LE.
func decodeName(raw []byte, compressed bool) []uint16 {
	if compressed {
		out := make([]uint16, 0, len(raw))
		for _, b := range raw {
			out = utf16.AppendRune(out, charmap.Windows1252.DecodeByte(b))
		}
		return out
	}
	out := make([]uint16, len(raw)/2)
	for i := range out {
		out[i] = format.ReadU16(raw, i*2)
	}
	return out
}

// namesEqual compares two names the way the registry does: each code unit
// is upper-cased on its own, so lengths must match and one unit never
// matches two ("ß" is not "SS"). Surrogate halves compare exactly.
func namesEqual(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	if slices.Equal(a, b) {
		return true
	}
	upper := cases.Upper(language.Und)
	for i := range a {
		if a[i] == b[i] {
			continue
		}
		if utf16.IsSurrogate(rune(a[i])) || utf16.IsSurrogate(rune(b[i])) {
			return false
		}
		if upper.String(string(rune(a[i]))) != upper.String(string(rune(b[i]))) {
			return false
		}
	}
	return true
}
