// Package appx models AppX package identities.
//
// Two identity strings appear in the package repository:
//
//	NcsiUwpApp_8wekyb3d8bbwe                                     FamilyName
//	NcsiUwpApp_1000.19041.423.0_neutral_neutral_8wekyb3d8bbwe    FullName
//
// Both keep the identity as a wstring.WString so it can be passed straight
// to the registry, and expose fields as views into that buffer.
package appx

import (
	"github.com/joshuapare/appxkit/internal/ident"
	"github.com/joshuapare/appxkit/pkg/wstring"
)

// FamilyName identifies a set of related packages, e.g.
// "NcsiUwpApp_8wekyb3d8bbwe" or
// "CanonicalGroupLimited.Ubuntu20.04onWindows_79rhkp1fndgsc".
//
// Fields, separated by the first underscore:
//
//	Name          NcsiUwpApp
//	PublisherID   8wekyb3d8bbwe
//
// Corresponds to `Get-AppxPackage | Format-Table -Property PackageFamilyName`
// and to the subkeys of the repository's Families key.
type FamilyName struct {
	w wstring.WString
}

// FamilyFields is the decoded form of a FamilyName.
type FamilyFields struct {
	Name        string `json:"name"`
	PublisherID string `json:"publisher_id"`
}

// NewFamilyName wraps s as a family name.
func NewFamilyName(s string) FamilyName { return FamilyName{w: wstring.New(s)} }

// FamilyNameFromUnits copies units into a family name.
func FamilyNameFromUnits(units []uint16) FamilyName {
	return FamilyName{w: wstring.FromUnits(units)}
}

// FamilyNameOf wraps an existing wide string.
func FamilyNameOf(w wstring.WString) FamilyName { return FamilyName{w: w} }

// Name is everything before the first underscore, or the whole string.
func (f FamilyName) Name() []uint16 {
	name, _ := ident.SplitFirst(f.w.Units())
	return name
}

// PublisherID is everything after the first underscore, or empty.
func (f FamilyName) PublisherID() []uint16 {
	_, pub := ident.SplitFirst(f.w.Units())
	return pub
}

// Fields decodes the fields for display.
func (f FamilyName) Fields() FamilyFields {
	return FamilyFields{
		Name:        text(f.Name()),
		PublisherID: text(f.PublisherID()),
	}
}

// WString returns the underlying identity string.
func (f FamilyName) WString() wstring.WString { return f.w }

// Units0 returns the terminated identity for native calls.
func (f FamilyName) Units0() []uint16 { return f.w.Units0() }

// Equal reports whether both names hold the same code units.
func (f FamilyName) Equal(o FamilyName) bool { return f.w.Equal(o.w) }

func (f FamilyName) String() string { return f.w.String() }

func (f FamilyName) MarshalText() ([]byte, error) { return []byte(f.String()), nil }
