package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"comicrenamer/internal/services"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestListEntriesSortedAndShallow(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.cbz"), "b")
	writeFile(t, filepath.Join(dir, "a.cbz"), "a")
	if err := os.MkdirAll(filepath.Join(dir, "c", "nested"), 0o755); err != nil {
		t.Fatal(err)
	}

	entries, err := ListEntries(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	names := []string{entries[0].Name, entries[1].Name, entries[2].Name}
	if names[0] != "a.cbz" || names[1] != "b.cbz" || names[2] != "c" {
		t.Fatalf("unexpected order: %v", names)
	}
	if !entries[2].IsDir {
		t.Fatal("expected c to be reported as directory")
	}
	if entries[0].Path != filepath.Join(dir, "a.cbz") {
		t.Fatalf("unexpected path %q", entries[0].Path)
	}
}

func TestListEntriesMissingDir(t *testing.T) {
	_, err := ListEntries(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, services.ErrFilesystem) {
		t.Fatalf("expected filesystem error, got %v", err)
	}
}

func TestEnsureDir(t *testing.T) {
	dir := t.TempDir()
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir(dir) = %v", err)
	}
	file := filepath.Join(dir, "f")
	writeFile(t, file, "x")
	if err := EnsureDir(file); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for file, got %v", err)
	}
	if err := EnsureDir(filepath.Join(dir, "missing")); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for missing path, got %v", err)
	}
}

func TestMoveEntryCreatesParents(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Foo")
	writeFile(t, src, "payload")
	dst := filepath.Join(dir, "Series", "Bar Baz")

	if err := MoveEntry(src, dst); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(src); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected source to be gone, stat err = %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "payload" {
		t.Fatalf("content mismatch: got %q", got)
	}
}

func TestMoveEntryDirectory(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "volume")
	if err := os.Mkdir(src, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(src, "001.jpg"), "img")

	dst := filepath.Join(dir, "renamed")
	if err := MoveEntry(src, dst); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dst, "001.jpg")); err != nil {
		t.Fatalf("expected child to move with directory: %v", err)
	}
}

func TestMoveEntryRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a")
	dst := filepath.Join(dir, "b")
	writeFile(t, src, "source")
	writeFile(t, dst, "existing")

	err := MoveEntry(src, dst)
	if !errors.Is(err, services.ErrFilesystem) {
		t.Fatalf("expected filesystem error, got %v", err)
	}
	got, _ := os.ReadFile(dst)
	if string(got) != "existing" {
		t.Fatalf("target was overwritten: %q", got)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("source should remain: %v", err)
	}
}

func TestMoveEntrySamePathNoop(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "same")
	writeFile(t, src, "x")
	if err := MoveEntry(src, filepath.Join(dir, ".", "same")); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatal(err)
	}
}

func TestCopyFileModeRefusesExisting(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	writeFile(t, src, "hello world")

	if err := CopyFileMode(src, dst, 0o600); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("mode = %v, want 0600", info.Mode().Perm())
	}
	if err := CopyFileMode(src, dst, 0o600); err == nil {
		t.Fatal("expected error copying onto existing file")
	}
}
