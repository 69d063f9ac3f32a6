// Package filelock writes generated files under an advisory lock so that two
// lintcat runs regenerating the same README, CHANGELOG or lints.json never
// interleave, and readers never observe a partially written file.
package filelock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// retryDelay is how often a blocked lock attempt is retried
const retryDelay = 50 * time.Millisecond

// FileLock wraps a flock file lock guarding one generated file.
type FileLock struct {
	flock *flock.Flock
	path  string
}

// NewFileLock creates a lock for the file at path. The lock itself lives at
// path + ".lock".
func NewFileLock(path string) *FileLock {
	lockPath := path + ".lock"
	return &FileLock{
		flock: flock.New(lockPath),
		path:  lockPath,
	}
}

// Path returns the lock file path
func (fl *FileLock) Path() string {
	return fl.path
}

// Lock acquires the lock, retrying until ctx is done.
func (fl *FileLock) Lock(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(fl.path), 0755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}
	locked, err := fl.flock.TryLockContext(ctx, retryDelay)
	if err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", fl.path, err)
	}
	if !locked {
		return fmt.Errorf("failed to acquire lock on %s", fl.path)
	}
	return nil
}

// TryLock attempts to acquire the lock without blocking.
func (fl *FileLock) TryLock() (bool, error) {
	acquired, err := fl.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to try lock on %s: %w", fl.path, err)
	}
	return acquired, nil
}

// Unlock releases the lock. The lock file is left in place; waiters may
// already hold a descriptor on it.
func (fl *FileLock) Unlock() error {
	if err := fl.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", fl.path, err)
	}
	return nil
}

// AtomicWrite writes data to path through a temp file in the same directory
// followed by a rename. On failure the previous content is left in place.
func AtomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	tempFile = nil
	return nil
}

// WriteFile locks path, replaces its content atomically and unlocks it.
func WriteFile(ctx context.Context, path string, data []byte) error {
	lock := NewFileLock(path)
	if err := lock.Lock(ctx); err != nil {
		return err
	}
	defer lock.Unlock()

	return AtomicWrite(path, data)
}

// Update locks path and rewrites it with fn applied to its current content.
// fn reports whether the content changed; unchanged files are not rewritten.
// A missing file is passed to fn as empty content.
func Update(ctx context.Context, path string, fn func([]byte) ([]byte, bool, error)) (bool, error) {
	lock := NewFileLock(path)
	if err := lock.Lock(ctx); err != nil {
		return false, err
	}
	defer lock.Unlock()

	current, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	updated, changed, err := fn(current)
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}
	if err := AtomicWrite(path, updated); err != nil {
		return false, err
	}
	return true, nil
}
