package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joshuapare/appxkit/hive"
	"github.com/joshuapare/appxkit/internal/testutil/hivegen"
)

// WriteHive generates a hive for root and writes it to a temporary file.
// Returns the file path; the file is removed with the test's TempDir.
//
// Example:
//
//	path := testutil.WriteHive(t, &hivegen.Key{Subkeys: ...})
func WriteHive(t testing.TB, root *hivegen.Key, opts ...hivegen.Option) string {
	t.Helper()
	return WriteImage(t, hivegen.Build(root, opts...).Bytes)
}

// WriteImage writes raw hive bytes to a temporary file and returns its path.
func WriteImage(t testing.TB, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test-hive")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("Failed to write temp hive: %v", err)
	}
	return path
}

// SetupHive generates a hive for root, writes it to a temporary directory
// and opens it. The hive is closed when the test finishes.
func SetupHive(t testing.TB, root *hivegen.Key, opts ...hivegen.Option) *hive.Hive {
	t.Helper()

	h, err := hive.Open(WriteHive(t, root, opts...))
	if err != nil {
		t.Fatalf("Failed to open hive: %v", err)
	}
	t.Cleanup(func() { _ = h.Close() })
	return h
}
