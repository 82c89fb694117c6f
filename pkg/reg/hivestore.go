package reg

import (
	"errors"
	"io/fs"
	"sync/atomic"

	"github.com/joshuapare/appxkit/hive"
	"github.com/joshuapare/appxkit/internal/format"
	"github.com/joshuapare/appxkit/pkg/types"
)

// readOnlyAccess is every access bit an offline hive can grant.
const readOnlyAccess = AccessQueryValue | AccessEnumerateSubKeys | AccessNotify | AccessReadControl |
	0x0100 | 0x0200 // KEY_WOW64_64KEY, KEY_WOW64_32KEY

// HiveStore serves a registry hive file, mounted under one Root, as a
// read-only Store. Concurrent reads are safe; Close must not race them.
type HiveStore struct {
	h     *hive.Hive
	mount Root
}

// OpenHive opens the hive file at path and mounts its root key at mount.
func OpenHive(path string, mount Root) (*HiveStore, error) {
	h, err := hive.Open(path)
	if err != nil {
		return nil, classifyHive("OpenHive", err)
	}
	return &HiveStore{h: h, mount: mount}, nil
}

// Mount returns the root the hive is mounted under.
func (s *HiveStore) Mount() Root { return s.mount }

// Close unmaps the file. Keys opened from the store must be closed first.
func (s *HiveStore) Close() error {
	if s == nil || s.h == nil {
		return nil
	}
	h := s.h
	s.h = nil
	return h.Close()
}

func (s *HiveStore) OpenRoot(root Root, path []uint16, _ Options, access Access) (Handle, error) {
	const op = "OpenRoot"
	if s.h == nil {
		return nil, types.Errorf(types.ErrKindInvalidArgument, op, nil, "hive store is closed")
	}
	if err := checkAccess(op, access); err != nil {
		return nil, err
	}
	if root != s.mount {
		return nil, types.Errorf(types.ErrKindNotFound, op, nil, "%s is not mounted (hive is at %s)", root, s.mount)
	}
	rk, err := s.h.Root()
	if err != nil {
		return nil, classifyHive(op, err)
	}
	k, err := rk.Lookup(trim0(path))
	if err != nil {
		return nil, classifyHive(op, err)
	}
	return &hiveHandle{hv: s.h, key: k}, nil
}

type hiveHandle struct {
	hv     *hive.Hive
	key    hive.Key
	subs   []uint32 // child offsets, filled on first EnumKey
	closed atomic.Bool
}

func (h *hiveHandle) OpenSubkey(path []uint16, _ Options, access Access) (Handle, error) {
	const op = "OpenSubkey"
	if err := checkAccess(op, access); err != nil {
		return nil, err
	}
	k, err := h.key.Lookup(trim0(path))
	if err != nil {
		return nil, classifyHive(op, err)
	}
	return &hiveHandle{hv: h.hv, key: k}, nil
}

func (h *hiveHandle) EnumKey(index uint32, buf *NameBuffer) (int, error) {
	const op = "EnumKey"
	if h.subs == nil {
		subs, err := h.key.SubkeyOffsets()
		if err != nil {
			return 0, classifyHive(op, err)
		}
		h.subs = append(make([]uint32, 0, len(subs)), subs...)
	}
	if uint64(index) >= uint64(len(h.subs)) {
		return 0, ErrNoMoreItems
	}
	child, err := h.hv.KeyAt(h.subs[index])
	if err != nil {
		return 0, classifyHive(op, err)
	}
	name := child.Name()
	if len(name) > MaxKeyNameLen {
		return 0, types.Errorf(types.ErrKindBufferTooSmall, op, nil, "key name of %d units", len(name))
	}
	n := copy(buf[:], name)
	buf[n] = 0
	return n, nil
}

func (h *hiveHandle) QueryString(subkey, value []uint16, buf []uint16) (int, error) {
	const op = "QueryString"
	v, err := h.value(op, subkey, value)
	if err != nil {
		return 0, err
	}
	if t := types.RegType(v.Type()); !t.IsString() {
		return 0, types.Errorf(types.ErrKindTypeMismatch, op, nil, "value is %s", t)
	}
	data, err := v.Data()
	if err != nil {
		return 0, classifyHive(op, err)
	}
	units := len(data) / 2
	need := units
	if units == 0 || format.ReadU16(data, (units-1)*2) != 0 {
		need++
	}
	if need > len(buf) {
		return 0, types.Errorf(types.ErrKindBufferTooSmall, op, nil, "need %d units, have %d", need, len(buf))
	}
	for i := range units {
		buf[i] = format.ReadU16(data, i*2)
	}
	buf[need-1] = 0
	return need, nil
}

func (h *hiveHandle) QueryDWORD(subkey, value []uint16) (uint32, error) {
	data, err := h.fixed("QueryDWORD", subkey, value, types.REG_DWORD, format.DWORDSize)
	if err != nil {
		return 0, err
	}
	return format.ReadU32(data, 0), nil
}

func (h *hiveHandle) QueryQWORD(subkey, value []uint16) (uint64, error) {
	data, err := h.fixed("QueryQWORD", subkey, value, types.REG_QWORD, format.QWORDSize)
	if err != nil {
		return 0, err
	}
	return format.ReadU64(data, 0), nil
}

// Close fails on a second call, which Key turns into a panic.
func (h *hiveHandle) Close() error {
	if h.closed.Swap(true) {
		return types.Errorf(types.ErrKindInvalidArgument, "Close", nil, "hive key closed twice")
	}
	return nil
}

func (h *hiveHandle) fixed(op string, subkey, value []uint16, want types.RegType, size int) ([]byte, error) {
	v, err := h.value(op, subkey, value)
	if err != nil {
		return nil, err
	}
	if t := types.RegType(v.Type()); t != want || v.Size() != size {
		return nil, types.Errorf(types.ErrKindTypeMismatch, op, nil, "value is %s of %d bytes", t, v.Size())
	}
	data, err := v.Data()
	if err != nil {
		return nil, classifyHive(op, err)
	}
	return data, nil
}

func (h *hiveHandle) value(op string, subkey, value []uint16) (hive.Value, error) {
	k := h.key
	if subkey != nil {
		var err error
		if k, err = k.Lookup(trim0(subkey)); err != nil {
			return hive.Value{}, classifyHive(op, err)
		}
	}
	v, err := k.Value(trim0(value))
	if err != nil {
		return hive.Value{}, classifyHive(op, err)
	}
	return v, nil
}

func checkAccess(op string, access Access) error {
	if extra := access &^ readOnlyAccess; extra != 0 {
		return types.Errorf(types.ErrKindAccessDenied, op, nil, "hive is read-only (access %#x)", uint32(extra))
	}
	return nil
}

func classifyHive(op string, err error) error {
	kind := types.ErrKindUnknown
	switch {
	case errors.Is(err, hive.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		kind = types.ErrKindNotFound
	case errors.Is(err, hive.ErrCorrupt):
		kind = types.ErrKindCorrupt
	case errors.Is(err, fs.ErrPermission):
		kind = types.ErrKindAccessDenied
	case errors.Is(err, hive.ErrClosed):
		kind = types.ErrKindInvalidArgument
	}
	return &types.Error{Kind: kind, Op: op, Err: err}
}

// trim0 drops the terminator Key guarantees on paths and names.
func trim0(s []uint16) []uint16 {
	if n := len(s); n > 0 && s[n-1] == 0 {
		return s[:n-1]
	}
	return s
}
