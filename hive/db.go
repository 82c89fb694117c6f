package hive

import (
	"github.com/joshuapare/appxkit/internal/buf"
	"github.com/joshuapare/appxkit/internal/format"
)

// DB is a zero-cost view over a "db" (big-data) header payload.
// Layout (offsets relative to start of payload):
//
//	0x00: "db"
//	0x02: Count (uint16)
//	0x04: BlocklistOffset (uint32)  // HCELL_INDEX to separate cell
//	0x08: Unknown (uint32)
type DB struct {
	buf []byte
}

// ParseDB validates the "db" header. It does NOT touch the external block list.
func ParseDB(payload []byte) (DB, error) {
	if len(payload) < format.DBHeaderSize {
		return DB{}, corruptf("db: header too small: %d", len(payload))
	}
	if !hasPrefix(payload, format.DBSignature) {
		return DB{}, corruptf("db: bad signature %q", payload[:2])
	}
	if cnt := format.ReadU16(payload, format.DBCountOffset); cnt < format.DBMinBlockCount {
		return DB{}, corruptf("db: block count %d invalid (min %d)", cnt, format.DBMinBlockCount)
	}
	return DB{buf: payload}, nil
}

func (d DB) Count() int { return int(format.ReadU16(d.buf, format.DBCountOffset)) }

func (d DB) BlocklistOffset() uint32 { return format.ReadU32(d.buf, format.DBListOffset) }

// Assemble concatenates the data blocks into a fresh slice of length n.
func (d DB) Assemble(hiveBuf []byte, n int) ([]byte, error) {
	list, err := resolveRelCellPayload(hiveBuf, d.BlocklistOffset())
	if err != nil {
		return nil, err
	}
	count := d.Count()
	if _, err := buf.CheckListBounds(len(list), 0, count, format.DWORDSize); err != nil {
		return nil, corruptf("db: block list: %v", err)
	}
	if n > count*format.DBChunkSize || n > len(hiveBuf) {
		return nil, corruptf("db: value needs %d bytes, %d blocks hold at most %d", n, count, count*format.DBChunkSize)
	}

	out := make([]byte, 0, n)
	for i := range count {
		if len(out) == n {
			break
		}
		block, err := resolveRelCellPayload(hiveBuf, format.ReadU32(list, i*format.DWORDSize))
		if err != nil {
			return nil, err
		}
		take := min(n-len(out), format.DBChunkSize, len(block))
		out = append(out, block[:take]...)
	}
	if len(out) != n {
		return nil, corruptf("db: blocks hold %d bytes, value needs %d", len(out), n)
	}
	return out, nil
}
