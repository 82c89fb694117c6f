// Package repository reads the AppX package repository kept in the
// registry: which package families and packages are installed, and the
// attributes recorded for each package.
package repository

import (
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/joshuapare/appxkit/pkg/appx"
	"github.com/joshuapare/appxkit/pkg/reg"
	"github.com/joshuapare/appxkit/pkg/types"
)

// Repository reads package metadata from a reg.Store. It holds no open
// keys between calls, so it is safe for concurrent use when its store is.
type Repository struct {
	store reg.Store
	root  reg.Root
	log   *slog.Logger
}

// Option configures a Repository.
type Option func(*Repository)

// WithLogger sets the logger used for debug output. Defaults to discarding.
func WithLogger(l *slog.Logger) Option {
	return func(r *Repository) {
		if l != nil {
			r.log = l
		}
	}
}

// WithRoot reads the repository below root instead of ClassesRoot.
func WithRoot(root reg.Root) Option {
	return func(r *Repository) { r.root = root }
}

// New returns a Repository reading from store.
func New(store reg.Store, opts ...Option) *Repository {
	r := &Repository{
		store: store,
		root:  reg.ClassesRoot,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRepo = sync.OnceValue(func() *Repository { return New(reg.Native()) })

// Default returns the Repository over the native registry.
func Default() *Repository { return defaultRepo() }

// Families lists installed package families in store order. Where the
// repository does not exist, or there is no registry, the sequence is empty.
func (r *Repository) Families() *Iter[appx.FamilyName] {
	key, err := r.open(familiesPath0, reg.AccessEnumerateSubKeys)
	if err != nil {
		return emptyOr[appx.FamilyName](r.log, err, "families")
	}
	return newIter(key, appx.FamilyNameFromUnits, r.log, "families")
}

// Packages lists installed packages in store order.
func (r *Repository) Packages() *Iter[appx.FullName] {
	key, err := r.open(packagesPath0, reg.AccessEnumerateSubKeys)
	if err != nil {
		return emptyOr[appx.FullName](r.log, err, "packages")
	}
	return newIter(key, appx.FullNameFromUnits, r.log, "packages")
}

// PackagesForFamily lists the packages registered under family f.
func (r *Repository) PackagesForFamily(f appx.FamilyName) *Iter[appx.FullName] {
	if f.WString().IsEmpty() {
		return failedIter[appx.FullName](types.Errorf(types.ErrKindInvalidArgument, "PackagesForFamily", nil, "empty family name"))
	}
	families, err := r.open(familiesPath0, reg.AccessEnumerateSubKeys)
	if err != nil {
		return emptyOr[appx.FullName](r.log, err, "family packages")
	}
	defer families.Close()

	key, err := families.Subkey(f.Units0(), reg.OptionNone, reg.AccessEnumerateSubKeys)
	if err != nil {
		return emptyOr[appx.FullName](r.log, err, "family packages")
	}
	return newIter(key, appx.FullNameFromUnits, r.log, "family packages")
}

// HasFamily reports whether family f is registered. Any failure, including
// the lack of a registry, reads as false.
func (r *Repository) HasFamily(f appx.FamilyName) bool {
	return r.has(familiesPath0, f.Units0(), f.WString().IsEmpty())
}

// HasPackage reports whether package p is registered.
func (r *Repository) HasPackage(p appx.FullName) bool {
	return r.has(packagesPath0, p.Units0(), p.WString().IsEmpty())
}

func (r *Repository) has(rootPath, name []uint16, empty bool) bool {
	if empty {
		return false
	}
	parent, err := r.open(rootPath, reg.AccessQueryValue)
	if err != nil {
		return false
	}
	defer parent.Close()

	k, err := parent.Subkey(name, reg.OptionNone, reg.AccessQueryValue)
	if err != nil {
		return false
	}
	k.Close()
	return true
}

func (r *Repository) open(path []uint16, access reg.Access) (*reg.Key, error) {
	k, err := reg.OpenRoot(r.store, r.root, path, reg.OptionNone, access)
	if err != nil {
		r.log.Debug("open failed", "root", r.root, "error", err)
	}
	return k, err
}

// emptyOr turns a missing repository or registry into an empty sequence
// and anything else into a failed one.
func emptyOr[T any](log *slog.Logger, err error, what string) *Iter[T] {
	if errors.Is(err, types.ErrUnsupported) || errors.Is(err, types.ErrNotFound) {
		return &Iter[T]{}
	}
	log.Debug("enumeration failed", "what", what, "error", err)
	return failedIter[T](err)
}
