//go:build linux || darwin

package hive

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Open maps the hive file read-only.
func Open(path string) (*Hive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	// The mapping outlives the descriptor.
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	sz := st.Size()
	if sz == 0 {
		return nil, fmt.Errorf("empty hive file: %s", path)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(sz), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap failed: %w", err)
	}

	h, err := newHive(data, func() error { return unix.Munmap(data) })
	if err != nil {
		_ = unix.Munmap(data)
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return h, nil
}
