package hive

import (
	"github.com/joshuapare/appxkit/internal/format"
)

// resolveRelCellPayload resolves a relative HCELL offset and returns just
// the payload bytes (skipping the 4-byte size header), bounds-checked.
//
// Cell header layout:
//
//	int32 Size  (negative => allocated; positive => free; absolute value includes header)
//	...payload...
func resolveRelCellPayload(hiveBuf []byte, relOff uint32) ([]byte, error) {
	if relOff == 0 || relOff == format.InvalidOffset {
		return nil, corruptf("cell: invalid offset %#x", relOff)
	}
	abs := format.HiveDataBase + int(relOff)
	if abs < format.HiveDataBase || abs+format.CellHeaderSize > len(hiveBuf) {
		return nil, corruptf("cell: offset %#x out of range (len=%d)", relOff, len(hiveBuf))
	}
	cell := hiveBuf[abs:]

	size := format.ReadI32(cell, 0)
	if size >= 0 {
		return nil, corruptf("cell: %#x is not allocated (size=%d)", relOff, size)
	}
	total := -int(size)
	if total < format.CellHeaderSize {
		return nil, corruptf("cell: %#x size too small: %d", relOff, total)
	}
	if total > len(cell) {
		return nil, corruptf("cell: %#x declared size %d > available %d", relOff, total, len(cell))
	}
	return cell[format.CellHeaderSize:total:total], nil
}
