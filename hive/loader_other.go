//go:build !linux && !darwin

package hive

import (
	"fmt"
	"os"
)

// Open loads the hive into memory on platforms where it is not mapped.
func Open(path string) (*Hive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty hive file: %s", path)
	}
	h, err := newHive(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return h, nil
}
