package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuffer_ZeroValue(t *testing.T) {
	var b Buffer
	require.Equal(t, []uint16{0}, b.Units0())
}

func TestBuffer_NewTerminates(t *testing.T) {
	b := New([]uint16{'h', 'i'})
	require.Equal(t, []uint16{'h', 'i', 0}, b.Units0())
}

func TestBuffer_NewEmpty(t *testing.T) {
	require.Equal(t, []uint16{0}, New(nil).Units0())
	require.Equal(t, []uint16{0}, New([]uint16{}).Units0())
}

func TestBuffer_Units0CapacityIsClipped(t *testing.T) {
	u := New([]uint16{'a'}).Units0()
	require.Equal(t, len(u), cap(u))
}

func TestBuffer_BrokenInvariantPanics(t *testing.T) {
	b := Buffer{emptyOrZeroTerminated: []uint16{'a'}}
	require.Panics(t, func() { b.Units0() })
}
