package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"comicrenamer/internal/textutil"
)

// dirLockPath names the lock file guarding renames of dir.
func dirLockPath(stateDir, dir string) string {
	sum := sha256.Sum256([]byte(dir))
	name := fmt.Sprintf("%s-%s.lock", textutil.SanitizeToken(filepath.Base(dir)), hex.EncodeToString(sum[:])[:12])
	return filepath.Join(stateDir, "locks", name)
}

// acquireDirLock takes an exclusive, non-blocking lock for dir. The caller must
// Unlock the returned lock.
func acquireDirLock(stateDir, dir string) (*flock.Flock, error) {
	path := dirLockPath(stateDir, dir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another rename is already running for %s", dir)
	}
	return lock, nil
}
