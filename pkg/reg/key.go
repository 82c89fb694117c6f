package reg

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/joshuapare/appxkit/pkg/types"
	"github.com/joshuapare/appxkit/pkg/wstring"
)

// noCopy makes go vet's copylocks check flag copies of Key.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Key owns one open Handle. Use it through a pointer; passing the pointer
// transfers ownership. A Key is not safe for concurrent use.
type Key struct {
	_       noCopy
	h       Handle
	cleanup runtime.Cleanup
}

func newKey(h Handle) *Key {
	k := &Key{h: h}
	// Leaked keys still release their handle; Close cancels this.
	k.cleanup = runtime.AddCleanup(k, func(h Handle) { _ = h.Close() }, h)
	return k
}

// OpenRoot opens root, or the key at path below it when path is non-nil.
// path must end with a zero unit.
func OpenRoot(store Store, root Root, path []uint16, opts Options, access Access) (*Key, error) {
	if store == nil {
		return nil, types.Errorf(types.ErrKindInvalidArgument, "OpenRoot", nil, "nil store")
	}
	if err := checkTerminated("OpenRoot", "path", path, true); err != nil {
		return nil, err
	}
	h, err := store.OpenRoot(root, path, opts, access)
	if err != nil {
		return nil, err
	}
	return newKey(h), nil
}

// Subkey opens the key at the zero-terminated relative path.
func (k *Key) Subkey(path []uint16, opts Options, access Access) (*Key, error) {
	if err := k.check("Subkey"); err != nil {
		return nil, err
	}
	if err := checkTerminated("Subkey", "path", path, false); err != nil {
		return nil, err
	}
	h, err := k.h.OpenSubkey(path, opts, access)
	if err != nil {
		return nil, err
	}
	return newKey(h), nil
}

// EnumKey returns the name of child index, aliasing buf. ok is false with a
// nil error once index is past the last child.
func (k *Key) EnumKey(index uint32, buf *NameBuffer) (name []uint16, ok bool, err error) {
	if err := k.check("EnumKey"); err != nil {
		return nil, false, err
	}
	if buf == nil {
		return nil, false, types.Errorf(types.ErrKindInvalidArgument, "EnumKey", nil, "nil name buffer")
	}
	n, err := k.h.EnumKey(index, buf)
	if errors.Is(err, ErrNoMoreItems) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return buf[:n:n], true, nil
}

// GetWString reads a string value into buf and returns an owned copy.
// subkey and value may be nil for the key itself and its default value.
// The buffer is not grown: data longer than buf fails with BufferTooSmall.
func (k *Key) GetWString(subkey, value []uint16, buf []uint16) (wstring.WString, error) {
	if err := k.checkQuery("GetString", subkey, value); err != nil {
		return wstring.WString{}, err
	}
	if len(buf) == 0 {
		return wstring.WString{}, types.Errorf(types.ErrKindBufferTooSmall, "GetString", nil, "empty buffer")
	}
	n, err := k.h.QueryString(subkey, value, buf)
	if err != nil {
		return wstring.WString{}, err
	}
	out := buf[:n]
	if n > 0 && out[n-1] == 0 {
		out = out[:n-1]
	}
	return wstring.FromUnits(out), nil
}

// GetString is GetWString converted to a Go string.
func (k *Key) GetString(subkey, value []uint16, buf []uint16) (string, error) {
	w, err := k.GetWString(subkey, value, buf)
	if err != nil {
		return "", err
	}
	return w.PlatformString(), nil
}

// GetPath reads a string value holding a filesystem path.
func (k *Key) GetPath(subkey, value []uint16, buf []uint16) (string, error) {
	s, err := k.GetString(subkey, value, buf)
	if err != nil || s == "" {
		return s, err
	}
	return filepath.Clean(s), nil
}

func (k *Key) GetDWORD(subkey, value []uint16) (uint32, error) {
	if err := k.checkQuery("GetDWORD", subkey, value); err != nil {
		return 0, err
	}
	return k.h.QueryDWORD(subkey, value)
}

func (k *Key) GetQWORD(subkey, value []uint16) (uint64, error) {
	if err := k.checkQuery("GetQWORD", subkey, value); err != nil {
		return 0, err
	}
	return k.h.QueryQWORD(subkey, value)
}

// Close releases the handle. Later calls do nothing. A failed release
// means the handle was already gone, which is a bug, so it panics.
func (k *Key) Close() {
	if k == nil || k.h == nil {
		return
	}
	h := k.h
	k.h = nil
	k.cleanup.Stop()
	if err := h.Close(); err != nil {
		panic(fmt.Sprintf("reg: releasing key handle: %v", err))
	}
}

func (k *Key) check(op string) error {
	if k == nil || k.h == nil {
		return types.Errorf(types.ErrKindInvalidArgument, op, nil, "key is closed")
	}
	return nil
}

func (k *Key) checkQuery(op string, subkey, value []uint16) error {
	if err := k.check(op); err != nil {
		return err
	}
	if err := checkTerminated(op, "subkey", subkey, true); err != nil {
		return err
	}
	if err := checkTerminated(op, "value name", value, true); err != nil {
		return err
	}
	if len(value) > MaxValueNameLen+1 {
		return types.Errorf(types.ErrKindInvalidArgument, op, nil, "value name longer than %d units", MaxValueNameLen)
	}
	return nil
}

func checkTerminated(op, what string, s []uint16, nilOK bool) error {
	if s == nil && nilOK {
		return nil
	}
	if len(s) == 0 || s[len(s)-1] != 0 {
		return types.Errorf(types.ErrKindInvalidArgument, op, nil, "%s is not zero-terminated", what)
	}
	return nil
}
