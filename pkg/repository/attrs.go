package repository

import (
	"errors"
	"sync"

	"github.com/joshuapare/appxkit/pkg/appx"
	"github.com/joshuapare/appxkit/pkg/reg"
	"github.com/joshuapare/appxkit/pkg/types"
)

// ValueBufferLen is the size, in UTF-16 units, of the buffer string
// attributes are read into. Longer values fail with BufferTooSmall.
const ValueBufferLen = types.WindowsMaxStringLen + 1

var valueBufs = sync.Pool{
	New: func() any {
		b := make([]uint16, ValueBufferLen)
		return &b
	},
}

// PackageInfo gathers the attributes recorded for one package.
type PackageInfo struct {
	FullName           appx.FullName `json:"full_name"`
	DisplayName        string        `json:"display_name"`
	OSMinVersion       appx.Version  `json:"os_min_version"`
	OSMaxVersionTested appx.Version  `json:"os_max_version_tested"`
	SupportedUsers     uint32        `json:"supported_users"`
	InstallLocation    string        `json:"install_location"`
}

// DisplayName returns the package's display name as stored. It may be an
// unresolved "@{...}" or "ms-resource:" reference.
func (r *Repository) DisplayName(p appx.FullName) (string, error) {
	return withPackages(r, func(k *reg.Key) (string, error) {
		return getString(k, p, displayName0)
	})
}

// OSMinVersion returns the lowest OS version the package supports.
func (r *Repository) OSMinVersion(p appx.FullName) (appx.Version, error) {
	return withPackages(r, func(k *reg.Key) (appx.Version, error) {
		v, err := k.GetQWORD(p.Units0(), osMinVersion0)
		return appx.Version(v), err
	})
}

// OSMaxVersionTested returns the highest OS version the package was tested on.
func (r *Repository) OSMaxVersionTested(p appx.FullName) (appx.Version, error) {
	return withPackages(r, func(k *reg.Key) (appx.Version, error) {
		v, err := k.GetQWORD(p.Units0(), osMaxVersionTested0)
		return appx.Version(v), err
	})
}

// SupportedUsers returns the package's supported-users count.
func (r *Repository) SupportedUsers(p appx.FullName) (uint32, error) {
	return withPackages(r, func(k *reg.Key) (uint32, error) {
		return k.GetDWORD(p.Units0(), supportedUsers0)
	})
}

// InstallLocation returns the package's root folder.
func (r *Repository) InstallLocation(p appx.FullName) (string, error) {
	return withPackages(r, func(k *reg.Key) (string, error) {
		return getPath(k, p, packageRootFolder0)
	})
}

// Info reads every attribute of p. Attributes the package does not record
// are left zero; any other failure is returned.
func (r *Repository) Info(p appx.FullName) (PackageInfo, error) {
	return withPackages(r, func(k *reg.Key) (PackageInfo, error) {
		info := PackageInfo{FullName: p}
		var err error
		var q uint64

		if info.DisplayName, err = getString(k, p, displayName0); missing(err) != nil {
			return info, err
		}
		if q, err = k.GetQWORD(p.Units0(), osMinVersion0); missing(err) != nil {
			return info, err
		}
		info.OSMinVersion = appx.Version(q)
		if q, err = k.GetQWORD(p.Units0(), osMaxVersionTested0); missing(err) != nil {
			return info, err
		}
		info.OSMaxVersionTested = appx.Version(q)
		if info.SupportedUsers, err = k.GetDWORD(p.Units0(), supportedUsers0); missing(err) != nil {
			return info, err
		}
		if info.InstallLocation, err = getPath(k, p, packageRootFolder0); missing(err) != nil {
			return info, err
		}
		return info, nil
	})
}

// missing swallows NotFound.
func missing(err error) error {
	if errors.Is(err, types.ErrNotFound) {
		return nil
	}
	return err
}

// withPackages opens the packages key for one read. Nothing is cached, so
// every call sees the current store.
func withPackages[T any](r *Repository, read func(*reg.Key) (T, error)) (T, error) {
	k, err := r.open(packagesPath0, reg.AccessQueryValue)
	if err != nil {
		var zero T
		return zero, err
	}
	defer k.Close()
	return read(k)
}

func getString(k *reg.Key, p appx.FullName, value []uint16) (string, error) {
	bp := valueBufs.Get().(*[]uint16)
	defer valueBufs.Put(bp)
	return k.GetString(p.Units0(), value, *bp)
}

func getPath(k *reg.Key, p appx.FullName, value []uint16) (string, error) {
	bp := valueBufs.Get().(*[]uint16)
	defer valueBufs.Put(bp)
	return k.GetPath(p.Units0(), value, *bp)
}
