package hive

import (
	"github.com/joshuapare/appxkit/internal/format"
)

// NK is a zero-cost view over an "nk" (key node) cell payload.
// It does NOT own memory; it only points into the hive buffer.
type NK struct {
	buf []byte // payload only (starts with "nk")
}

// ParseNK wraps a cell payload as NK and validates the signature.
func ParseNK(payload []byte) (NK, error) {
	if len(payload) < format.NKFixedHeaderSize {
		return NK{}, corruptf("nk: too small: %d", len(payload))
	}
	if !hasPrefix(payload, format.NKSignature) {
		return NK{}, corruptf("nk: bad signature %q", payload[:2])
	}
	n := NK{buf: payload}
	if format.NKNameOffset+int(n.NameLength()) > len(payload) {
		return NK{}, corruptf("nk: name length %d overruns cell (%d)", n.NameLength(), len(payload))
	}
	return n, nil
}

func (n NK) Flags() uint16 { return format.ReadU16(n.buf, format.NKFlagsOffset) }

// LastWriteRaw returns the key's FILETIME.
func (n NK) LastWriteRaw() uint64 { return format.ReadU64(n.buf, format.NKLastWriteOffset) }

// SubkeyCount returns the stable subkey count. Volatile subkeys never reach disk.
func (n NK) SubkeyCount() uint32 { return format.ReadU32(n.buf, format.NKSubkeyCountOffset) }

func (n NK) SubkeyListOffsetRel() uint32 { return format.ReadU32(n.buf, format.NKSubkeyListOffset) }

func (n NK) ValueCount() uint32 { return format.ReadU32(n.buf, format.NKValueCountOffset) }

func (n NK) ValueListOffsetRel() uint32 { return format.ReadU32(n.buf, format.NKValueListOffset) }

// NameLength returns the key name length in bytes.
func (n NK) NameLength() uint16 { return format.ReadU16(n.buf, format.NKNameLenOffset) }

// IsCompressedName reports a Windows-1252 name rather than UTF-16LE.
func (n NK) IsCompressedName() bool { return n.Flags()&format.NKFlagCompressedName != 0 }

// IsRoot reports the hive-entry flag.
func (n NK) IsRoot() bool { return n.Flags()&format.NKFlagHiveEntry != 0 }

// Name returns the raw key name bytes.
func (n NK) Name() []byte {
	start := format.NKNameOffset
	return n.buf[start : start+int(n.NameLength())]
}
