package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteEntries creates one small file per name inside a fresh temp directory
// and returns the directory.
func WriteEntries(t testing.TB, names ...string) string {
	t.Helper()

	dir := t.TempDir()
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(name), 0o644); err != nil {
			t.Fatalf("create %s: %v", path, err)
		}
	}
	return dir
}

// WriteDirEntries creates one empty subdirectory per name inside a fresh temp
// directory and returns the directory.
func WriteDirEntries(t testing.TB, names ...string) string {
	t.Helper()

	dir := t.TempDir()
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(path, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", path, err)
		}
	}
	return dir
}

// Exists reports whether path can be stat'ed.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
