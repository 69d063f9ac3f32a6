package filelock

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockUnlock(t *testing.T) {
	target := filepath.Join(t.TempDir(), "README.md")
	lock := NewFileLock(target)
	assert.Equal(t, target+".lock", lock.Path())

	require.NoError(t, lock.Lock(context.Background()))

	other := NewFileLock(target)
	acquired, err := other.TryLock()
	require.NoError(t, err)
	assert.False(t, acquired, "second lock must not be acquired while the first is held")

	require.NoError(t, lock.Unlock())

	acquired, err = other.TryLock()
	require.NoError(t, err)
	assert.True(t, acquired, "lock must be available after unlock")
	require.NoError(t, other.Unlock())
}

func TestLockRespectsContext(t *testing.T) {
	target := filepath.Join(t.TempDir(), "lints.json")
	holder := NewFileLock(target)
	require.NoError(t, holder.Lock(context.Background()))
	defer holder.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()

	err := NewFileLock(target).Lock(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestAtomicWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "gh-pages", "lints.json")

	require.NoError(t, AtomicWrite(path, []byte("[]\n")))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))

	require.NoError(t, AtomicWrite(path, []byte("[{}]\n")))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[{}]\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestWriteFileConcurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "CHANGELOG.md")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, WriteFile(context.Background(), path, []byte("run "+strconv.Itoa(i)+"\n")))
		}(i)
	}
	wg.Wait()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Regexp(t, `^run \d\n$`, string(data))
}

func TestUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "README.md")

	changed, err := Update(context.Background(), path, func(current []byte) ([]byte, bool, error) {
		assert.Empty(t, current)
		return []byte("There are 1 lints\n"), true, nil
	})
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = Update(context.Background(), path, func(current []byte) ([]byte, bool, error) {
		return current, false, nil
	})
	require.NoError(t, err)
	assert.False(t, changed)

	boom := errors.New("boom")
	_, err = Update(context.Background(), path, func(current []byte) ([]byte, bool, error) {
		return nil, false, boom
	})
	assert.ErrorIs(t, err, boom)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "There are 1 lints\n", string(data))
}
