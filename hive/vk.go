package hive

import (
	"github.com/joshuapare/appxkit/internal/buf"
	"github.com/joshuapare/appxkit/internal/format"
)

// VK is a zero-cost view over a "vk" (value key) cell payload.
type VK struct {
	buf []byte // payload starting at 'vk'
}

func ParseVK(payload []byte) (VK, error) {
	if len(payload) < format.VKFixedHeaderSize {
		return VK{}, corruptf("vk: truncated header: %d", len(payload))
	}
	if !hasPrefix(payload, format.VKSignature) {
		return VK{}, corruptf("vk: bad signature %q", payload[:2])
	}
	v := VK{buf: payload}
	if format.VKNameOffset+int(v.NameLen()) > len(payload) {
		return VK{}, corruptf("vk: name length %d overruns cell (%d)", v.NameLen(), len(payload))
	}
	return v, nil
}

func (v VK) Flags() uint16 { return format.ReadU16(v.buf, format.VKFlagsOffset) }
func (v VK) Type() uint32  { return format.ReadU32(v.buf, format.VKTypeOffset) }

func (v VK) NameLen() uint16 { return format.ReadU16(v.buf, format.VKNameLenOffset) }

func (v VK) NameCompressed() bool { return v.Flags()&format.VKFlagNameCompressed != 0 }

// Name returns raw name bytes. An empty name is the key's default value.
func (v VK) Name() []byte {
	start := format.VKNameOffset
	return v.buf[start : start+int(v.NameLen())]
}

func (v VK) RawDataLen() uint32 { return format.ReadU32(v.buf, format.VKDataLenOffset) }

func (v VK) IsSmallData() bool { return v.RawDataLen()&format.VKSmallDataMask != 0 }

func (v VK) DataLen() int { return int(v.RawDataLen() &^ format.VKSmallDataMask) }

func (v VK) DataOffsetRel() uint32 { return format.ReadU32(v.buf, format.VKDataOffOffset) }

// Data returns the value bytes, handling inline, external and big-data storage.
// The returned slice aliases the hive buffer except for big data, which is
// assembled into a new slice.
func (v VK) Data(hiveBuf []byte) ([]byte, error) {
	n := v.DataLen()
	if n == 0 {
		return nil, nil
	}

	if v.IsSmallData() {
		if n > format.DWORDSize {
			return nil, corruptf("vk data: inline length %d > %d", n, format.DWORDSize)
		}
		raw := v.buf[format.VKDataOffOffset : format.VKDataOffOffset+format.DWORDSize]
		return raw[:n:n], nil
	}

	pl, err := resolveRelCellPayload(hiveBuf, v.DataOffsetRel())
	if err != nil {
		return nil, err
	}
	if n > format.DBChunkSize && hasPrefix(pl, format.DBSignature) {
		db, err := ParseDB(pl)
		if err != nil {
			return nil, err
		}
		return db.Assemble(hiveBuf, n)
	}
	data, ok := buf.Slice(pl, 0, n)
	if !ok {
		return nil, corruptf("vk data: truncated external cell: have=%d need=%d", len(pl), n)
	}
	return data, nil
}
