package hive

import (
	"fmt"

	"github.com/joshuapare/appxkit/internal/format"
)

// Hive is an opened, read-only hive image, backed by a read-only mmap
// (linux/darwin) or a byte slice (others, and OpenBytes).
type Hive struct {
	data    []byte
	base    *BaseBlock
	release func() error
}

// OpenBytes wraps an in-memory hive image. data must not be modified while
// the Hive is in use.
func OpenBytes(data []byte) (*Hive, error) {
	return newHive(data, nil)
}

func newHive(data []byte, release func() error) (*Hive, error) {
	bb, err := ParseBaseBlock(data)
	if err != nil {
		return nil, err
	}
	if err := bb.ValidateSanity(len(data)); err != nil {
		return nil, err
	}
	// HBINs end at the size recorded in the header; anything after is slack.
	end := bb.HiveLength()
	return &Hive{data: data[:end:end], base: bb, release: release}, nil
}

// Close releases the backing mapping. A closed Hive must not be used.
func (h *Hive) Close() error {
	if h == nil {
		return nil
	}
	h.data = nil
	h.base = nil
	release := h.release
	h.release = nil
	if release != nil {
		return release()
	}
	return nil
}

// Bytes returns the hive image, header included.
func (h *Hive) Bytes() []byte { return h.data }

// Base returns the parsed REGF header.
func (h *Hive) Base() *BaseBlock { return h.base }

// RootCellOffset returns the root NK offset relative to the first HBIN.
func (h *Hive) RootCellOffset() uint32 {
	if h.base == nil {
		return 0
	}
	return h.base.RootCellOffset()
}

// Root returns the root key.
func (h *Hive) Root() (Key, error) {
	if h.data == nil {
		return Key{}, ErrClosed
	}
	k, err := h.keyAt(h.RootCellOffset())
	if err != nil {
		return Key{}, fmt.Errorf("hive: root key: %w", err)
	}
	if !k.nk.IsRoot() {
		return Key{}, corruptf("hive: root key %#x lacks the hive-entry flag", k.off)
	}
	return k, nil
}

func hasPrefix(b []byte, sig []byte) bool {
	return len(b) >= len(sig) && b[0] == sig[0] && b[1] == sig[1]
}

// checkHeaderSize is used before reading fixed-size record headers.
func checkHeaderSize(what string, b []byte, need int) error {
	if len(b) < need {
		return fmt.Errorf("hive: %s too small: have=%d need=%d: %w: %w", what, len(b), need, format.ErrTruncated, ErrCorrupt)
	}
	return nil
}
