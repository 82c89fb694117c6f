package repository

import (
	"github.com/joshuapare/appxkit/pkg/appx"
)

// The functions below use Default(), the native registry. On platforms
// without one the listings are empty, the checks are false and the
// attribute reads fail with types.ErrUnsupported.

func Families() *Iter[appx.FamilyName] { return Default().Families() }
func Packages() *Iter[appx.FullName]   { return Default().Packages() }

func PackagesForFamily(f appx.FamilyName) *Iter[appx.FullName] {
	return Default().PackagesForFamily(f)
}

func HasFamily(f appx.FamilyName) bool { return Default().HasFamily(f) }
func HasPackage(p appx.FullName) bool  { return Default().HasPackage(p) }

func DisplayName(p appx.FullName) (string, error)             { return Default().DisplayName(p) }
func OSMinVersion(p appx.FullName) (appx.Version, error)       { return Default().OSMinVersion(p) }
func OSMaxVersionTested(p appx.FullName) (appx.Version, error) { return Default().OSMaxVersionTested(p) }
func SupportedUsers(p appx.FullName) (uint32, error)           { return Default().SupportedUsers(p) }
func InstallLocation(p appx.FullName) (string, error)          { return Default().InstallLocation(p) }
func Info(p appx.FullName) (PackageInfo, error)                { return Default().Info(p) }
