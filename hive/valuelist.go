package hive

import (
	"github.com/joshuapare/appxkit/internal/buf"
	"github.com/joshuapare/appxkit/internal/format"
)

// valueOffsets returns the VK cell offsets of a key's value list. The list
// cell is a bare array of uint32 with no signature; trailing slack is ignored.
func valueOffsets(hiveBuf []byte, relOff uint32, count int) ([]uint32, error) {
	if count == 0 {
		return nil, nil
	}
	payload, err := resolveRelCellPayload(hiveBuf, relOff)
	if err != nil {
		return nil, err
	}
	if _, err := buf.CheckListBounds(len(payload), 0, count, format.DWORDSize); err != nil {
		return nil, corruptf("value list: %v", err)
	}
	out := make([]uint32, count)
	for i := range out {
		out[i] = format.ReadU32(payload, i*format.DWORDSize)
	}
	return out, nil
}
