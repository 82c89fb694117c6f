package appx

import (
	"unicode/utf16"

	"github.com/joshuapare/appxkit/internal/ident"
	"github.com/joshuapare/appxkit/pkg/wstring"
)

// fullNameFields is the number of underscore separated fields in a FullName.
const fullNameFields = 5

// Field indexes of a FullName.
const (
	FieldName = iota
	FieldVersion
	FieldArchitecture
	FieldResourceID
	FieldPublisherID
)

// FullName identifies one installed package, e.g.
// "NcsiUwpApp_1000.19041.423.0_neutral_neutral_8wekyb3d8bbwe".
//
//	Name          NcsiUwpApp              CanonicalGroupLimited.Ubuntu20.04onWindows
//	Version       1000.19041.423.0        2004.2020.812.0
//	Architecture  neutral                 x64
//	ResourceID    neutral                 (empty), split.scale-100
//	PublisherID   8wekyb3d8bbwe           79rhkp1fndgsc
//
// The string is split into at most five fields; extra underscores stay in
// PublisherID. Corresponds to the subkeys of the repository's Packages key.
type FullName struct {
	w wstring.WString
}

// FullFields is the decoded form of a FullName.
type FullFields struct {
	Name         string `json:"name"`
	Version      string `json:"version"`
	Architecture string `json:"architecture"`
	ResourceID   string `json:"resource_id"`
	PublisherID  string `json:"publisher_id"`
}

// NewFullName wraps s as a package full name.
func NewFullName(s string) FullName { return FullName{w: wstring.New(s)} }

// FullNameFromUnits copies units into a package full name.
func FullNameFromUnits(units []uint16) FullName {
	return FullName{w: wstring.FromUnits(units)}
}

// FullNameOf wraps an existing wide string.
func FullNameOf(w wstring.WString) FullName { return FullName{w: w} }

// Field returns field i (FieldName..FieldPublisherID). Indexes outside the
// fields present yield an empty slice.
func (p FullName) Field(i int) []uint16 {
	return ident.Field(p.w.Units(), fullNameFields, i)
}

func (p FullName) Name() []uint16         { return p.Field(FieldName) }
func (p FullName) Version() []uint16      { return p.Field(FieldVersion) }
func (p FullName) Architecture() []uint16 { return p.Field(FieldArchitecture) }

// ResourceID is the opaque fourth field. Observed values are empty,
// "neutral" and "split.scale-100".
func (p FullName) ResourceID() []uint16 { return p.Field(FieldResourceID) }

func (p FullName) PublisherID() []uint16 { return p.Field(FieldPublisherID) }

// Family derives the family name "Name_PublisherID".
func (p FullName) Family() FamilyName {
	name, pub := p.Name(), p.PublisherID()
	units := make([]uint16, 0, len(name)+1+len(pub))
	units = append(units, name...)
	units = append(units, ident.Separator)
	units = append(units, pub...)
	return FamilyNameFromUnits(units)
}

// ParsedVersion parses the Version field.
func (p FullName) ParsedVersion() (Version, error) {
	return ParseVersion(text(p.Version()))
}

// Fields decodes all five fields for display.
func (p FullName) Fields() FullFields {
	return FullFields{
		Name:         text(p.Name()),
		Version:      text(p.Version()),
		Architecture: text(p.Architecture()),
		ResourceID:   text(p.ResourceID()),
		PublisherID:  text(p.PublisherID()),
	}
}

// WString returns the underlying identity string.
func (p FullName) WString() wstring.WString { return p.w }

// Units0 returns the terminated identity for native calls.
func (p FullName) Units0() []uint16 { return p.w.Units0() }

// Equal reports whether both names hold the same code units.
func (p FullName) Equal(o FullName) bool { return p.w.Equal(o.w) }

func (p FullName) String() string { return p.w.String() }

func (p FullName) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func text(units []uint16) string { return string(utf16.Decode(units)) }
