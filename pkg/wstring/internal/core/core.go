// Package core holds the backing storage of a wstring.WString.
//
// The storage obeys one invariant that native callers depend on: it is either
// empty or terminated by a zero code unit. Only two operations touch the
// slice directly, New and Units0. Keep it that way.
package core

// nul backs the terminator-only view of an empty buffer.
var nul = [1]uint16{0}

// Buffer is the terminated storage. The zero value is the empty string.
type Buffer struct {
	// emptyOrZeroTerminated is either empty or ends with a 0 code unit.
	// Read it through Units0 only.
	emptyOrZeroTerminated []uint16
}

// New takes ownership of units and appends a terminator if units is non-empty.
// The caller must not retain units.
func New(units []uint16) Buffer {
	if len(units) != 0 {
		units = append(units, 0)
	}
	return Buffer{emptyOrZeroTerminated: units}
}

// Units0 returns the code units including the terminator. An empty buffer
// yields a single shared zero unit, which must not be written to.
func (b Buffer) Units0() []uint16 {
	buf := b.emptyOrZeroTerminated
	if len(buf) == 0 {
		return nul[:1:1]
	}
	if buf[len(buf)-1] != 0 {
		panic("wstring: soundness bug: non-empty buffer is not zero-terminated")
	}
	return buf[:len(buf):len(buf)]
}
