package hive

import (
	"errors"
	"fmt"
)

var (
	// ErrCorrupt is wrapped by every error caused by malformed hive data.
	ErrCorrupt = errors.New("hive: corrupt")
	// ErrNotFound reports a missing subkey or value.
	ErrNotFound = errors.New("hive: not found")
	// ErrClosed is returned by a Hive after Close.
	ErrClosed = errors.New("hive: closed")
)

func corruptf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrCorrupt)
}
