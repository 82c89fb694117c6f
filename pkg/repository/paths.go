package repository

import (
	"github.com/joshuapare/appxkit/pkg/wstring"
)

// Key paths below ClassesRoot.
const (
	RepositoryPath = `Local Settings\Software\Microsoft\Windows\CurrentVersion\AppModel\Repository`
	FamiliesPath   = RepositoryPath + `\Families`
	PackagesPath   = RepositoryPath + `\Packages`
)

// Value names under a package key.
const (
	ValueDisplayName        = "DisplayName"
	ValueOSMinVersion       = "OSMinVersion"
	ValueOSMaxVersionTested = "OSMaxVersionTested"
	ValueSupportedUsers     = "SupportedUsers"
	ValuePackageRootFolder  = "PackageRootFolder"
)

var (
	familiesPath0 = wstring.New(FamiliesPath).Units0()
	packagesPath0 = wstring.New(PackagesPath).Units0()

	displayName0        = wstring.New(ValueDisplayName).Units0()
	osMinVersion0       = wstring.New(ValueOSMinVersion).Units0()
	osMaxVersionTested0 = wstring.New(ValueOSMaxVersionTested).Units0()
	supportedUsers0     = wstring.New(ValueSupportedUsers).Units0()
	packageRootFolder0  = wstring.New(ValuePackageRootFolder).Units0()
)
