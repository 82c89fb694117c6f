package hive

import (
	"time"

	"github.com/joshuapare/appxkit/internal/format"
)

// PathSeparator splits key paths.
const PathSeparator = '\\'

// Key is a read-only view of one key node. It stays valid until the Hive
// is closed; after that only methods returning an error may be called.
type Key struct {
	h   *Hive
	off uint32
	nk  NK
}

func (h *Hive) keyAt(off uint32) (Key, error) {
	payload, err := resolveRelCellPayload(h.data, off)
	if err != nil {
		return Key{}, err
	}
	nk, err := ParseNK(payload)
	if err != nil {
		return Key{}, err
	}
	return Key{h: h, off: off, nk: nk}, nil
}

// KeyAt returns the key whose NK cell is at the given relative offset.
func (h *Hive) KeyAt(off uint32) (Key, error) {
	if h.data == nil {
		return Key{}, ErrClosed
	}
	return h.keyAt(off)
}

// Offset returns the relative offset of the key's NK cell.
func (k Key) Offset() uint32 { return k.off }

// Name returns the key name as UTF-16 code units.
func (k Key) Name() []uint16 { return decodeName(k.nk.Name(), k.nk.IsCompressedName()) }

func (k Key) LastWrite() time.Time { return format.FiletimeToTime(k.nk.LastWriteRaw()) }

func (k Key) SubkeyCount() int { return int(k.nk.SubkeyCount()) }

func (k Key) ValueCount() int { return int(k.nk.ValueCount()) }

// SubkeyOffsets returns the NK offsets of the key's children in on-disk
// order, which for lf/lh leaves is sorted by upper-cased name.
func (k Key) SubkeyOffsets() ([]uint32, error) {
	if k.h.data == nil {
		return nil, ErrClosed
	}
	n := k.SubkeyCount()
	if n == 0 {
		return nil, nil
	}
	return subkeyOffsets(k.h.data, k.nk.SubkeyListOffsetRel(), n)
}

// Subkeys returns the key's children.
func (k Key) Subkeys() ([]Key, error) {
	offs, err := k.SubkeyOffsets()
	if err != nil {
		return nil, err
	}
	out := make([]Key, 0, len(offs))
	for _, off := range offs {
		child, err := k.h.keyAt(off)
		if err != nil {
			return nil, err
		}
		out = append(out, child)
	}
	return out, nil
}

// Subkey finds a direct child by name, case-insensitively.
func (k Key) Subkey(name []uint16) (Key, error) {
	subs, err := k.Subkeys()
	if err != nil {
		return Key{}, err
	}
	for _, sub := range subs {
		if namesEqual(sub.Name(), name) {
			return sub, nil
		}
	}
	return Key{}, ErrNotFound
}

// Lookup walks a backslash-separated path below k. Empty components are
// skipped, so an empty path returns k itself.
func (k Key) Lookup(path []uint16) (Key, error) {
	cur := k
	for len(path) > 0 {
		i := 0
		for i < len(path) && path[i] != PathSeparator {
			i++
		}
		comp := path[:i]
		if i < len(path) {
			path = path[i+1:]
		} else {
			path = nil
		}
		if len(comp) == 0 {
			continue
		}
		next, err := cur.Subkey(comp)
		if err != nil {
			return Key{}, err
		}
		cur = next
	}
	return cur, nil
}

// Values returns the key's values in list order.
func (k Key) Values() ([]Value, error) {
	if k.h.data == nil {
		return nil, ErrClosed
	}
	offs, err := valueOffsets(k.h.data, k.nk.ValueListOffsetRel(), k.ValueCount())
	if err != nil {
		return nil, err
	}
	out := make([]Value, 0, len(offs))
	for _, off := range offs {
		payload, err := resolveRelCellPayload(k.h.data, off)
		if err != nil {
			return nil, err
		}
		vk, err := ParseVK(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, Value{h: k.h, vk: vk})
	}
	return out, nil
}

// Value finds a value by name, case-insensitively. An empty name selects
// the default value.
func (k Key) Value(name []uint16) (Value, error) {
	vals, err := k.Values()
	if err != nil {
		return Value{}, err
	}
	for _, v := range vals {
		if namesEqual(v.Name(), name) {
			return v, nil
		}
	}
	return Value{}, ErrNotFound
}

// Value is a read-only view of one value record.
type Value struct {
	h  *Hive
	vk VK
}

func (v Value) Name() []uint16 { return decodeName(v.vk.Name(), v.vk.NameCompressed()) }

// Type returns the raw registry type (REG_SZ is 1, REG_DWORD is 4, ...).
func (v Value) Type() uint32 { return v.vk.Type() }

// Size returns the declared data length in bytes.
func (v Value) Size() int { return v.vk.DataLen() }

// Data returns the value bytes. The slice must not be modified.
func (v Value) Data() ([]byte, error) {
	if v.h.data == nil {
		return nil, ErrClosed
	}
	return v.vk.Data(v.h.data)
}
