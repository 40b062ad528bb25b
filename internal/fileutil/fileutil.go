package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"comicrenamer/internal/services"
)

// Entry is one immediate child of a scanned directory.
type Entry struct {
	Name  string
	Path  string
	IsDir bool
}

// ListEntries returns the immediate children of dir sorted by name.
// Subdirectories are reported but not descended into.
func ListEntries(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "fileutil", "list entries", fmt.Sprintf("read %s", dir), err)
	}
	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		entries = append(entries, Entry{
			Name:  de.Name(),
			Path:  filepath.Join(dir, de.Name()),
			IsDir: de.IsDir(),
		})
	}
	return entries, nil
}

// EnsureDir verifies that path exists and is a directory.
func EnsureDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return services.Wrap(services.ErrValidation, "fileutil", "stat directory", path, err)
	}
	if !info.IsDir() {
		return services.Wrap(services.ErrValidation, "fileutil", "stat directory", fmt.Sprintf("%s is not a directory", path), nil)
	}
	return nil
}

// MoveEntry renames src to dst, creating missing parent directories of dst.
// An existing dst is never overwritten unless it is src itself, in which case
// the call is a no-op. Regular files fall back to copy+remove when the rename
// crosses filesystems.
func MoveEntry(src, dst string) error {
	if filepath.Clean(src) == filepath.Clean(dst) {
		return nil
	}
	srcInfo, err := os.Lstat(src)
	if err != nil {
		return services.Wrap(services.ErrFilesystem, "fileutil", "move entry", fmt.Sprintf("stat %s", src), err)
	}
	if dstInfo, err := os.Lstat(dst); err == nil {
		if os.SameFile(srcInfo, dstInfo) {
			// Case-only renames on case-insensitive volumes resolve to the same inode.
			return rename(src, dst, srcInfo)
		}
		return services.Wrap(services.ErrFilesystem, "fileutil", "move entry", fmt.Sprintf("target %s already exists", dst), os.ErrExist)
	} else if !errors.Is(err, os.ErrNotExist) {
		return services.Wrap(services.ErrFilesystem, "fileutil", "move entry", fmt.Sprintf("stat %s", dst), err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return services.Wrap(services.ErrFilesystem, "fileutil", "move entry", "create parent directories", err)
	}
	return rename(src, dst, srcInfo)
}

func rename(src, dst string, srcInfo os.FileInfo) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV) && srcInfo.Mode().IsRegular() {
		if copyErr := CopyFileMode(src, dst, srcInfo.Mode().Perm()); copyErr != nil {
			_ = os.Remove(dst)
			return services.Wrap(services.ErrFilesystem, "fileutil", "move entry", "copy across filesystems", copyErr)
		}
		if rmErr := os.Remove(src); rmErr != nil {
			return services.Wrap(services.ErrFilesystem, "fileutil", "move entry", "remove source after copy", rmErr)
		}
		return nil
	}
	return services.Wrap(services.ErrFilesystem, "fileutil", "move entry", fmt.Sprintf("rename %s", filepath.Base(src)), err)
}

// CopyFileMode streams src to dst, setting the given file mode on dst.
// dst must not already exist.
func CopyFileMode(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
