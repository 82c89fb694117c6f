// Package format holds the on-disk layout of Windows Registry hive files
// (REGF): signatures, field offsets and little-endian readers. Only the
// structures needed to read keys and values are described here.
package format

var (
	// REGFSignature is the four-byte signature at the start of every hive file.
	REGFSignature = []byte{'r', 'e', 'g', 'f'}

	// HBINSignature starts each hive bin.
	HBINSignature = []byte{'h', 'b', 'i', 'n'}

	NKSignature = []byte{'n', 'k'}
	VKSignature = []byte{'v', 'k'}

	// LF/LH leaves carry a name hint or hash per entry; LI is a plain list;
	// RI is an index of leaves used by keys with many subkeys.
	LFSignature = []byte{'l', 'f'}
	LHSignature = []byte{'l', 'h'}
	LISignature = []byte{'l', 'i'}
	RISignature = []byte{'r', 'i'}

	// DBSignature identifies a big-data record for values over DBChunkSize.
	DBSignature = []byte{'d', 'b'}
)

const (
	// HeaderSize is the size of the REGF base block.
	HeaderSize = 4096

	// HBINHeaderSize is the size of the header preceding the cells of a bin.
	HBINHeaderSize = 0x20

	// CellHeaderSize is the int32 size field preceding every cell.
	CellHeaderSize = 4

	// HiveDataBase is the file offset that relative cell offsets are based on.
	HiveDataBase = 0x1000

	HBINAlignment = 0x1000
	CellAlignment = 8

	// InvalidOffset marks an unused offset field.
	InvalidOffset = 0xFFFFFFFF

	DWORDSize = 4
	QWORDSize = 8
)

// REGF base block fields.
const (
	REGFSignatureOffset    = 0x000
	REGFSignatureSize      = 4
	REGFPrimarySeqOffset   = 0x004
	REGFSecondarySeqOffset = 0x008
	REGFTimeStampOffset    = 0x00C // FILETIME
	REGFMajorVersionOffset = 0x014
	REGFMinorVersionOffset = 0x018
	REGFTypeOffset         = 0x01C
	REGFFormatOffset       = 0x020
	REGFRootCellOffset     = 0x024 // relative to HiveDataBase
	REGFDataSizeOffset     = 0x028 // sum of HBIN sizes
	REGFClusterOffset      = 0x02C
	REGFCheckSumOffset     = 0x1FC // XOR of the first 127 dwords

	REGFChecksumDwords = 127
)

// HBIN header fields.
const (
	HBINFileOffsetField = 0x04
	HBINSizeOffset      = 0x08
)

// NK (key node) fields, relative to the payload start ("nk").
const (
	NKFlagsOffset          = 0x02
	NKLastWriteOffset      = 0x04
	NKParentOffset         = 0x10
	NKSubkeyCountOffset    = 0x14
	NKVolSubkeyCountOffset = 0x18
	NKSubkeyListOffset     = 0x1C
	NKVolSubkeyListOffset  = 0x20
	NKValueCountOffset     = 0x24
	NKValueListOffset      = 0x28
	NKSecurityOffset       = 0x2C
	NKClassNameOffset      = 0x30
	NKNameLenOffset        = 0x48 // bytes
	NKClassLenOffset       = 0x4A
	NKNameOffset           = 0x4C

	NKFixedHeaderSize = NKNameOffset

	NKFlagHiveEntry      = 0x04 // root key
	NKFlagCompressedName = 0x20 // name stored as Windows-1252
)

// Subkey list (_CM_KEY_INDEX) fields.
const (
	IdxCountOffset = 0x02
	IdxListOffset  = 0x04

	// LIEntrySize is one uint32 cell index (li, ri).
	LIEntrySize = 4
	// LFFHEntrySize is a cell index plus a 4 byte hint or hash (lf, lh).
	LFFHEntrySize = 8
)

// VK (value key) fields.
const (
	VKNameLenOffset   = 0x02
	VKDataLenOffset   = 0x04
	VKDataOffOffset   = 0x08
	VKTypeOffset      = 0x0C
	VKFlagsOffset     = 0x10
	VKNameOffset      = 0x14
	VKFixedHeaderSize = VKNameOffset

	VKFlagNameCompressed = 0x0001

	// VKSmallDataMask marks data stored inline in the offset field (<= 4 bytes).
	VKSmallDataMask = 0x8000_0000
)

// DB (big data) fields.
const (
	DBCountOffset = 0x02
	DBListOffset  = 0x04
	DBHeaderSize  = 0x0C

	// DBChunkSize is the payload carried by each big-data block.
	DBChunkSize = 16344

	DBMinBlockCount = 2
)
