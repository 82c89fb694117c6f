// Package buf holds overflow-safe bounds checks for decoding hive cells.
package buf

import (
	"fmt"
	"math"
)

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow int.
func AddOverflowSafe(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// MulOverflowSafe multiplies two non-negative ints, returning ok = false on
// overflow or a negative operand.
func MulOverflowSafe(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a != 0 && b > math.MaxInt/a {
		return 0, false
	}
	return a * b, true
}

// CheckListBounds validates that count elements of elementSize bytes fit in
// a buffer of bufLen bytes starting at offset, and returns the end offset.
//
//	end, err := buf.CheckListBounds(len(payload), listOff, count, 4)
//	if err != nil {
//	    return corruptf("value list: %v", err)
//	}
func CheckListBounds(bufLen, offset, count, elementSize int) (int, error) {
	if offset < 0 || count < 0 || elementSize < 0 {
		return 0, fmt.Errorf("negative operand: offset=%d count=%d size=%d", offset, count, elementSize)
	}
	total, ok := MulOverflowSafe(count, elementSize)
	if !ok {
		return 0, fmt.Errorf("overflow: count=%d * size=%d", count, elementSize)
	}
	end, ok := AddOverflowSafe(offset, total)
	if !ok {
		return 0, fmt.Errorf("overflow: offset=%d + size=%d", offset, total)
	}
	if end > bufLen {
		return 0, fmt.Errorf("truncated: need=%d have=%d", end, bufLen)
	}
	return end, nil
}

// Slice returns the sub-slice [off:off+n] if it fits within len(b).
func Slice(b []byte, off, n int) ([]byte, bool) {
	if off < 0 || n < 0 || off > len(b) {
		return nil, false
	}
	end, ok := AddOverflowSafe(off, n)
	if !ok || end > len(b) {
		return nil, false
	}
	return b[off:end:end], true
}
