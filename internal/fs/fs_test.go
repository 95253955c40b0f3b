package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS(t *testing.T) {
	tmp := t.TempDir()
	lfs := LocalFS{}

	dir := filepath.Join(tmp, "subdir")
	assert.NoError(t, lfs.MkdirAll(dir, 0o755))

	fpath := filepath.Join(dir, "test.txt")
	f, err := lfs.OpenFile(fpath, os.O_CREATE|os.O_RDWR, 0o644)
	require.NoError(t, err)

	_, err = f.WriteAt([]byte("hello"), 0)
	assert.NoError(t, err)
	_, err = f.WriteAt([]byte("J"), 0)
	assert.NoError(t, err)
	assert.NoError(t, f.Sync())

	buf := make([]byte, 5)
	n, err := f.ReadAt(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "Jello", string(buf[:n]))

	info, err := f.Stat()
	assert.NoError(t, err)
	assert.Equal(t, int64(5), info.Size())
	assert.NoError(t, f.Close())

	entries, err := lfs.ReadDir(dir)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)

	newPath := filepath.Join(dir, "renamed.txt")
	assert.NoError(t, lfs.Rename(fpath, newPath))

	assert.NoError(t, lfs.Remove(newPath))
	_, err = lfs.Stat(newPath)
	assert.True(t, os.IsNotExist(err))
}

func TestFaultyFS_WriteBudget(t *testing.T) {
	ffs := NewFaultyFS(LocalFS{})
	ffs.AddRule("faulty", Fault{FailOnWrite: true, FailAfterBytes: 5})

	fpath := filepath.Join(t.TempDir(), "faulty.txt")
	f, err := ffs.OpenFile(fpath, os.O_CREATE|os.O_RDWR, 0o644)
	require.NoError(t, err)
	defer f.Close()

	n, err := f.WriteAt([]byte("hello"), 0)
	assert.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = f.Write([]byte("!"))
	assert.ErrorIs(t, err, ErrInjected)
	assert.Equal(t, 0, n)
}

func TestFaultyFS_ReadAndOpenFaults(t *testing.T) {
	tmp := t.TempDir()
	boom := errors.New("boom")

	ffs := NewFaultyFS(nil)
	ffs.AddRule("unreadable", Fault{FailOnRead: true, Err: boom})
	ffs.AddRule("locked", Fault{FailOnOpen: true})

	f, err := ffs.OpenFile(filepath.Join(tmp, "unreadable.txt"), os.O_CREATE|os.O_RDWR, 0o644)
	require.NoError(t, err)

	// Writes are unaffected by a read fault.
	_, err = f.WriteAt([]byte("data"), 0)
	require.NoError(t, err)

	_, err = f.ReadAt(make([]byte, 4), 0)
	assert.ErrorIs(t, err, boom)
	_, err = f.Read(make([]byte, 4))
	assert.ErrorIs(t, err, boom)
	require.NoError(t, f.Close())

	_, err = ffs.OpenFile(filepath.Join(tmp, "locked.txt"), os.O_CREATE|os.O_RDWR, 0o644)
	assert.ErrorIs(t, err, ErrInjected)

	ffs.ClearRules()
	f, err = ffs.OpenFile(filepath.Join(tmp, "locked.txt"), os.O_CREATE|os.O_RDWR, 0o644)
	require.NoError(t, err)
	assert.NoError(t, f.Close())
}

func TestFaultyFS_SyncAndClose(t *testing.T) {
	ffs := NewFaultyFS(LocalFS{})
	ffs.AddRule("flaky", Fault{FailOnSync: true, FailOnClose: true})

	f, err := ffs.OpenFile(filepath.Join(t.TempDir(), "flaky.bin"), os.O_CREATE|os.O_RDWR, 0o644)
	require.NoError(t, err)

	assert.ErrorIs(t, f.Sync(), ErrInjected)
	assert.ErrorIs(t, f.Close(), ErrInjected)
}

func TestFaultyFS_Truncate(t *testing.T) {
	tmp := t.TempDir()
	ffs := NewFaultyFS(LocalFS{})
	ffs.AddRule("stuck", Fault{FailOnTruncate: true})

	f, err := ffs.OpenFile(filepath.Join(tmp, "stuck.bin"), os.O_CREATE|os.O_RDWR, 0o644)
	require.NoError(t, err)
	_, err = f.Write([]byte("abcdef"))
	require.NoError(t, err)
	assert.ErrorIs(t, f.Truncate(2), ErrInjected)
	require.NoError(t, f.Close())

	g, err := ffs.OpenFile(filepath.Join(tmp, "ok.bin"), os.O_CREATE|os.O_RDWR, 0o644)
	require.NoError(t, err)
	_, err = g.Write([]byte("abcdef"))
	require.NoError(t, err)
	require.NoError(t, g.Truncate(2))
	require.NoError(t, g.Close())

	data, err := os.ReadFile(filepath.Join(tmp, "ok.bin"))
	require.NoError(t, err)
	assert.Equal(t, "ab", string(data))
}

func TestFaultyFS_Delegation(t *testing.T) {
	tmp := t.TempDir()
	ffs := NewFaultyFS(LocalFS{})

	dir := filepath.Join(tmp, "subdir")
	assert.NoError(t, ffs.MkdirAll(dir, 0o755))

	fpath := filepath.Join(dir, "test.txt")
	require.NoError(t, os.WriteFile(fpath, nil, 0o644))

	_, err := ffs.Stat(fpath)
	assert.NoError(t, err)
	assert.NoError(t, ffs.Rename(fpath, fpath+".renamed"))
	assert.NoError(t, ffs.Remove(fpath+".renamed"))

	entries, err := ffs.ReadDir(dir)
	assert.NoError(t, err)
	assert.Empty(t, entries)
}
