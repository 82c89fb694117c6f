// Package wstring provides WString, a zero-terminated UTF-16 string.
//
// A WString stays wide in memory so it can be handed to native registry calls
// without re-encoding, and it always exposes a terminated view (Units0) even
// when empty. The content is "UTF-16-ish": unpaired surrogates are preserved
// as-is and only replaced when the string is rendered for display.
//
//	name := wstring.New("NcsiUwpApp_8wekyb3d8bbwe")
//	native := name.Units0()  // ...'e', 0
//	fmt.Println(name)        // NcsiUwpApp_8wekyb3d8bbwe
package wstring

import (
	"slices"
	"strconv"
	"unicode/utf16"

	"github.com/joshuapare/appxkit/pkg/wstring/internal/core"
)

// WString is an immutable, zero-terminated sequence of UTF-16 code units.
// The zero value is the empty string.
type WString struct {
	buf core.Buffer
}

// New encodes s as UTF-16 and appends a terminator.
func New(s string) WString {
	return WString{buf: core.New(utf16.Encode([]rune(s)))}
}

// FromUnits copies units and appends a terminator. A trailing terminator
// already present in units is kept as content.
func FromUnits(units []uint16) WString {
	return WString{buf: core.New(slices.Clone(units))}
}

// Units returns the code units without the terminator.
// The returned slice aliases the string and must not be modified.
func (w WString) Units() []uint16 {
	u := w.buf.Units0()
	return u[: len(u)-1 : len(u)-1]
}

// Units0 returns the code units including the terminator.
// The returned slice aliases the string and must not be modified.
func (w WString) Units0() []uint16 { return w.buf.Units0() }

// Len is the length in code units, excluding the terminator.
func (w WString) Len() int { return len(w.Units()) }

// Len0 is the length in code units, including the terminator.
func (w WString) Len0() int { return len(w.Units0()) }

// IsEmpty reports whether the string has no content.
func (w WString) IsEmpty() bool { return w.Len() == 0 }

// Equal reports whether both strings hold the same code units.
func (w WString) Equal(o WString) bool { return slices.Equal(w.Units(), o.Units()) }

// Compare orders strings by code unit, like slices.Compare.
func (w WString) Compare(o WString) int { return slices.Compare(w.Units(), o.Units()) }

// String renders the string for humans. Unpaired surrogates become U+FFFD.
func (w WString) String() string { return string(utf16.Decode(w.Units())) }

// GoString formats the string as a quoted Go literal for %#v.
func (w WString) GoString() string { return "wstring.New(" + strconv.Quote(w.String()) + ")" }

// PlatformString converts to a Go string for use with OS APIs. Every code
// unit is kept, interior zeros included, so the result is the same on every
// platform.
func (w WString) PlatformString() string { return string(utf16.Decode(w.Units())) }
