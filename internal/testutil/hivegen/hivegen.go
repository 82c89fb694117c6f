// Package hivegen synthesizes small REGF hive images for tests. It lays out
// a single HBIN with cells allocated front to back, which is enough for the
// read-only parser and keeps fixtures out of the repository.
package hivegen

import (
	"slices"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/joshuapare/appxkit/internal/format"
)

// Registry value types used by fixtures.
const (
	TypeSZ       uint32 = 1
	TypeExpandSZ uint32 = 2
	TypeBinary   uint32 = 3
	TypeDWORD    uint32 = 4
	TypeMultiSZ  uint32 = 7
	TypeQWORD    uint32 = 11
)

// ListKind selects the subkey list record written for keys with children.
type ListKind int

const (
	ListLH ListKind = iota
	ListLF
	ListLI
	// ListRI writes an ri index over lh leaves of RILeafSize entries.
	ListRI
)

func (k ListKind) String() string {
	switch k {
	case ListLF:
		return "lf"
	case ListLI:
		return "li"
	case ListRI:
		return "ri"
	default:
		return "lh"
	}
}

// Key describes one key of the tree to generate.
type Key struct {
	Name    string
	Values  []Value
	Subkeys []*Key
	// WideName forces a UTF-16LE name even when the name is ASCII.
	WideName bool
}

// Value describes one value. Data is written as-is.
type Value struct {
	Name string
	Type uint32
	Data []byte
}

// Options control the layout of the generated image.
type Options struct {
	List       ListKind
	RILeafSize int
	LastWrite  time.Time
}

// Option mutates Options.
type Option func(*Options)

// WithList selects the subkey list kind.
func WithList(kind ListKind) Option { return func(o *Options) { o.List = kind } }

// WithRILeafSize sets how many entries each ri leaf holds.
func WithRILeafSize(n int) Option { return func(o *Options) { o.RILeafSize = n } }

// String builds a REG_SZ value with a NUL terminator.
func String(name, s string) Value { return Value{Name: name, Type: TypeSZ, Data: utf16le(s, true)} }

// ExpandString builds a REG_EXPAND_SZ value.
func ExpandString(name, s string) Value {
	return Value{Name: name, Type: TypeExpandSZ, Data: utf16le(s, true)}
}

// DWORD builds a REG_DWORD value.
func DWORD(name string, v uint32) Value {
	b := make([]byte, format.DWORDSize)
	format.PutU32(b, 0, v)
	return Value{Name: name, Type: TypeDWORD, Data: b}
}

// QWORD builds a REG_QWORD value.
func QWORD(name string, v uint64) Value {
	b := make([]byte, format.QWORDSize)
	format.PutU64(b, 0, v)
	return Value{Name: name, Type: TypeQWORD, Data: b}
}

// Binary builds a REG_BINARY value.
func Binary(name string, data []byte) Value {
	return Value{Name: name, Type: TypeBinary, Data: slices.Clone(data)}
}

// Path returns a chain of keys for a backslash-separated path whose last
// element is leaf, e.g. Path(`A\B`, leaf) yields A -> B -> leaf.Subkeys.
// The leaf's own Name is replaced with the final path element.
func Path(path string, leaf *Key) *Key {
	parts := strings.Split(path, `\`)
	leaf.Name = parts[len(parts)-1]
	cur := leaf
	for i := len(parts) - 2; i >= 0; i-- {
		cur = &Key{Name: parts[i], Subkeys: []*Key{cur}}
	}
	return cur
}

// Image is a generated hive.
type Image struct {
	Bytes   []byte
	offsets map[string]uint32
}

// KeyOffset returns the relative NK offset of the key at path (names joined
// with backslashes, root excluded; "" is the root).
func (im *Image) KeyOffset(path string) (uint32, bool) {
	off, ok := im.offsets[strings.ToUpper(path)]
	return off, ok
}

// CellAbs converts a relative cell offset to a file offset of the payload.
func CellAbs(rel uint32) int {
	return format.HiveDataBase + int(rel) + format.CellHeaderSize
}

// Build lays out root and everything below it.
func Build(root *Key, opts ...Option) *Image {
	o := Options{List: ListLH, RILeafSize: 2, LastWrite: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}
	for _, opt := range opts {
		opt(&o)
	}
	if o.RILeafSize < 1 {
		o.RILeafSize = 1
	}

	b := &builder{
		opts:    o,
		bin:     make([]byte, format.HBINHeaderSize, format.HBINAlignment),
		offsets: make(map[string]uint32),
	}
	rootOff := b.key(root, "", true)
	data := b.finish(rootOff)
	return &Image{Bytes: data, offsets: b.offsets}
}

type builder struct {
	opts    Options
	bin     []byte
	offsets map[string]uint32
}

// alloc appends an allocated cell and returns its offset relative to the
// first HBIN.
func (b *builder) alloc(payload []byte) uint32 {
	off := uint32(len(b.bin))
	size := align8(format.CellHeaderSize + len(payload))
	cell := make([]byte, size)
	format.PutI32(cell, 0, -int32(size))
	copy(cell[format.CellHeaderSize:], payload)
	b.bin = append(b.bin, cell...)
	return off
}

func (b *builder) key(k *Key, path string, root bool) uint32 {
	children := slices.Clone(k.Subkeys)
	slices.SortStableFunc(children, func(x, y *Key) int {
		return strings.Compare(strings.ToUpper(x.Name), strings.ToUpper(y.Name))
	})

	childOffs := make([]uint32, len(children))
	for i, c := range children {
		childPath := c.Name
		if path != "" {
			childPath = path + `\` + c.Name
		}
		childOffs[i] = b.key(c, childPath, false)
	}

	subList := uint32(format.InvalidOffset)
	if len(children) > 0 {
		subList = b.subkeyList(children, childOffs)
	}

	valList := uint32(format.InvalidOffset)
	if len(k.Values) > 0 {
		list := make([]byte, len(k.Values)*format.DWORDSize)
		for i, v := range k.Values {
			format.PutU32(list, i*format.DWORDSize, b.value(v))
		}
		valList = b.alloc(list)
	}

	name, compressed := encodeName(k.Name, k.WideName)
	nk := make([]byte, format.NKFixedHeaderSize+len(name))
	copy(nk, format.NKSignature)
	var flags uint16
	if compressed {
		flags |= format.NKFlagCompressedName
	}
	if root {
		flags |= format.NKFlagHiveEntry
	}
	format.PutU16(nk, format.NKFlagsOffset, flags)
	format.PutU64(nk, format.NKLastWriteOffset, format.TimeToFiletime(b.opts.LastWrite))
	format.PutU32(nk, format.NKParentOffset, format.InvalidOffset)
	format.PutU32(nk, format.NKSubkeyCountOffset, uint32(len(children)))
	format.PutU32(nk, format.NKSubkeyListOffset, subList)
	format.PutU32(nk, format.NKVolSubkeyListOffset, format.InvalidOffset)
	format.PutU32(nk, format.NKValueCountOffset, uint32(len(k.Values)))
	format.PutU32(nk, format.NKValueListOffset, valList)
	format.PutU32(nk, format.NKSecurityOffset, format.InvalidOffset)
	format.PutU32(nk, format.NKClassNameOffset, format.InvalidOffset)
	format.PutU16(nk, format.NKNameLenOffset, uint16(len(name)))
	copy(nk[format.NKNameOffset:], name)

	off := b.alloc(nk)
	b.offsets[strings.ToUpper(path)] = off
	return off
}

func (b *builder) subkeyList(children []*Key, offs []uint32) uint32 {
	switch b.opts.List {
	case ListLI:
		return b.alloc(indexList(format.LISignature, offs, nil))
	case ListLF:
		return b.alloc(indexList(format.LFSignature, offs, hints(children, lfHint)))
	case ListRI:
		var leaves []uint32
		for start := 0; start < len(offs); start += b.opts.RILeafSize {
			end := min(start+b.opts.RILeafSize, len(offs))
			leaf := indexList(format.LHSignature, offs[start:end], hints(children[start:end], lhHash))
			leaves = append(leaves, b.alloc(leaf))
		}
		return b.alloc(indexList(format.RISignature, leaves, nil))
	default:
		return b.alloc(indexList(format.LHSignature, offs, hints(children, lhHash)))
	}
}

func (b *builder) value(v Value) uint32 {
	name, compressed := encodeName(v.Name, false)
	vk := make([]byte, format.VKFixedHeaderSize+len(name))
	copy(vk, format.VKSignature)
	format.PutU16(vk, format.VKNameLenOffset, uint16(len(name)))
	format.PutU32(vk, format.VKTypeOffset, v.Type)
	if compressed {
		format.PutU16(vk, format.VKFlagsOffset, format.VKFlagNameCompressed)
	}
	copy(vk[format.VKNameOffset:], name)

	n := len(v.Data)
	switch {
	case n == 0:
		format.PutU32(vk, format.VKDataOffOffset, format.InvalidOffset)
	case n <= format.DWORDSize:
		format.PutU32(vk, format.VKDataLenOffset, uint32(n)|format.VKSmallDataMask)
		copy(vk[format.VKDataOffOffset:], v.Data)
	case n > format.DBChunkSize:
		format.PutU32(vk, format.VKDataLenOffset, uint32(n))
		format.PutU32(vk, format.VKDataOffOffset, b.bigData(v.Data))
	default:
		format.PutU32(vk, format.VKDataLenOffset, uint32(n))
		format.PutU32(vk, format.VKDataOffOffset, b.alloc(v.Data))
	}
	return b.alloc(vk)
}

func (b *builder) bigData(data []byte) uint32 {
	var blocks []uint32
	for chunk := range slices.Chunk(data, format.DBChunkSize) {
		blocks = append(blocks, b.alloc(chunk))
	}
	list := make([]byte, len(blocks)*format.DWORDSize)
	for i, off := range blocks {
		format.PutU32(list, i*format.DWORDSize, off)
	}
	listOff := b.alloc(list)

	db := make([]byte, format.DBHeaderSize)
	copy(db, format.DBSignature)
	format.PutU16(db, format.DBCountOffset, uint16(len(blocks)))
	format.PutU32(db, format.DBListOffset, listOff)
	return b.alloc(db)
}

func (b *builder) finish(rootOff uint32) []byte {
	used := len(b.bin)
	binSize := (used + format.HBINAlignment - 1) / format.HBINAlignment * format.HBINAlignment
	if binSize == used {
		binSize += format.HBINAlignment
	}
	bin := make([]byte, binSize)
	copy(bin, b.bin)
	copy(bin, format.HBINSignature)
	format.PutU32(bin, format.HBINFileOffsetField, 0)
	format.PutU32(bin, format.HBINSizeOffset, uint32(binSize))
	// The tail of the bin is one free cell.
	format.PutI32(bin, used, int32(binSize-used))

	hdr := make([]byte, format.HeaderSize)
	copy(hdr, format.REGFSignature)
	format.PutU32(hdr, format.REGFPrimarySeqOffset, 1)
	format.PutU32(hdr, format.REGFSecondarySeqOffset, 1)
	format.PutU64(hdr, format.REGFTimeStampOffset, format.TimeToFiletime(b.opts.LastWrite))
	format.PutU32(hdr, format.REGFMajorVersionOffset, 1)
	format.PutU32(hdr, format.REGFMinorVersionOffset, 5)
	format.PutU32(hdr, format.REGFFormatOffset, 1)
	format.PutU32(hdr, format.REGFRootCellOffset, rootOff)
	format.PutU32(hdr, format.REGFDataSizeOffset, uint32(binSize))
	format.PutU32(hdr, format.REGFClusterOffset, 1)
	format.PutU32(hdr, format.REGFCheckSumOffset, format.HeaderChecksum(hdr))

	return append(hdr, bin...)
}

func indexList(sig []byte, offs []uint32, extra []uint32) []byte {
	stride := format.LIEntrySize
	if extra != nil {
		stride = format.LFFHEntrySize
	}
	out := make([]byte, format.IdxListOffset+len(offs)*stride)
	copy(out, sig)
	format.PutU16(out, format.IdxCountOffset, uint16(len(offs)))
	for i, off := range offs {
		pos := format.IdxListOffset + i*stride
		format.PutU32(out, pos, off)
		if extra != nil {
			format.PutU32(out, pos+format.DWORDSize, extra[i])
		}
	}
	return out
}

func hints(keys []*Key, f func(string) uint32) []uint32 {
	out := make([]uint32, len(keys))
	for i, k := range keys {
		out[i] = f(k.Name)
	}
	return out
}

// lhHash is the hash stored in lh leaves: h = h*37 + upper(c).
func lhHash(name string) uint32 {
	var h uint32
	for _, r := range strings.ToUpper(name) {
		h = h*37 + uint32(r)
	}
	return h
}

// lfHint packs the first four name bytes.
func lfHint(name string) uint32 {
	var hint [4]byte
	copy(hint[:], name)
	return format.ReadU32(hint[:], 0)
}

func encodeName(name string, wide bool) ([]byte, bool) {
	ascii := true
	for i := range len(name) {
		if name[i] >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii && !wide {
		return []byte(name), true
	}
	return utf16le(name, false), false
}

func utf16le(s string, nul bool) []byte {
	units := utf16.Encode([]rune(s))
	if nul {
		units = append(units, 0)
	}
	out := make([]byte, len(units)*2)
	for i, u := range units {
		format.PutU16(out, i*2, u)
	}
	return out
}

func align8(n int) int { return (n + format.CellAlignment - 1) &^ (format.CellAlignment - 1) }
