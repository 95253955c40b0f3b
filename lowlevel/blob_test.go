package lowlevel

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/blockio/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBlobStore(t *testing.T) (*Store, *blobstore.MemoryStore) {
	t.Helper()
	mem := blobstore.NewMemoryStore()
	s := New(NewBlobBackend(context.Background(), mem))
	t.Cleanup(func() { _ = s.Close() })
	return s, mem
}

func readBlob(t *testing.T, mem *blobstore.MemoryStore, name string) string {
	t.Helper()
	b, err := mem.Open(context.Background(), name)
	require.NoError(t, err)
	defer func() { _ = b.Close() }()
	data, err := blobstore.ReadAll(context.Background(), b)
	require.NoError(t, err)
	return string(data)
}

func TestBlobBackend_ReadExisting(t *testing.T) {
	s, mem := newBlobStore(t)
	require.NoError(t, mem.Put(context.Background(), "docs/a.txt", []byte("blob contents")))

	id := s.OpenFile("/docs/a.txt")
	require.Greater(t, id, 0)

	buf := make([]byte, 5)
	assert.Equal(t, 5, s.SyncReadFile(id, buf, 0, 4))
	assert.Equal(t, "blob ", string(buf))

	rest := make([]byte, 32)
	n := s.SyncReadFile(id, rest, 0, len(rest)-1)
	assert.Equal(t, "contents", string(rest[:n]))
	assert.Equal(t, 0, s.SyncReadFile(id, rest, 0, len(rest)-1))

	s.CloseFile(id)
	assert.Equal(t, "blob contents", readBlob(t, mem, "docs/a.txt"), "unmodified blob is not rewritten")
}

func TestBlobBackend_StagedWritesPublishOnClose(t *testing.T) {
	s, mem := newBlobStore(t)

	id := s.OpenFile("out.bin")
	require.Greater(t, id, 0)

	s.SyncWriteFile(id, []byte("first "), 0, 5)
	s.SyncWriteFile(id, []byte("second"), 0, 5)

	_, err := mem.Open(context.Background(), "out.bin")
	require.ErrorIs(t, err, blobstore.ErrNotFound, "not visible before close")

	// Staged data is readable through the same identity.
	buf := make([]byte, 32)
	n := s.SyncReadFile(id, buf, 0, len(buf)-1)
	assert.Equal(t, "first second", string(buf[:n]))

	s.CloseFile(id)
	assert.Equal(t, "first second", readBlob(t, mem, "out.bin"))
}

func TestBlobBackend_WrittenObjectEndsAtWriteCursor(t *testing.T) {
	s, mem := newBlobStore(t)
	require.NoError(t, mem.Put(context.Background(), "f", []byte("0123456789")))

	id := s.OpenFile("f")
	s.SyncWriteFile(id, []byte("ab"), 0, 1)
	s.CloseFile(id)

	assert.Equal(t, "ab", readBlob(t, mem, "f"))
}

func TestBlobBackend_ReadOnlyUseKeepsObject(t *testing.T) {
	s, mem := newBlobStore(t)
	require.NoError(t, mem.Put(context.Background(), "f", []byte("0123456789")))

	id := s.OpenFile("f")
	buf := make([]byte, 3)
	require.Equal(t, 3, s.SyncReadFile(id, buf, 0, 2))
	s.CloseFile(id)

	assert.Equal(t, "0123456789", readBlob(t, mem, "f"))
}

func TestBlobBackend_Truncate(t *testing.T) {
	mem := blobstore.NewMemoryStore()
	require.NoError(t, mem.Put(context.Background(), "f", []byte("abcdef")))
	backend := NewBlobBackend(context.Background(), mem)

	h, err := backend.Open("f")
	require.NoError(t, err)
	require.NoError(t, h.Truncate(2))

	buf := make([]byte, 8)
	n, _ := h.ReadAt(buf, 0)
	assert.Equal(t, "ab", string(buf[:n]))

	require.NoError(t, h.Truncate(4))
	n, _ = h.ReadAt(buf, 0)
	assert.Equal(t, []byte{'a', 'b', 0, 0}, buf[:n])

	assert.Error(t, h.Truncate(-1))
	require.NoError(t, h.Close())
	assert.Equal(t, "ab\x00\x00", readBlob(t, mem, "f"))
	assert.Error(t, h.Truncate(0), "closed handle")
}

type failingPutStore struct {
	*blobstore.MemoryStore
}

func (failingPutStore) Put(context.Context, string, []byte) error {
	return errors.New("upload rejected")
}

func TestBlobBackend_PublishFailureReportedByClose(t *testing.T) {
	mem := blobstore.NewMemoryStore()
	s := New(NewBlobBackend(context.Background(), failingPutStore{mem}))

	id := s.OpenFile("out")
	require.Greater(t, id, 0)
	s.SyncWriteFile(id, []byte("lost"), 0, 3)
	s.CloseFile(id)

	err := s.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upload rejected")
	assert.NoError(t, s.Close(), "reported once")

	_, err = mem.Open(context.Background(), "out")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestBlobBackend_MissingCreatedOnClose(t *testing.T) {
	s, mem := newBlobStore(t)

	id := s.OpenFile("empty")
	require.Greater(t, id, 0)
	assert.Equal(t, 0, s.SyncReadFile(id, make([]byte, 4), 0, 3))
	s.CloseFile(id)

	assert.Equal(t, "", readBlob(t, mem, "empty"))
	assert.True(t, s.IsRegularFile("empty"))
}

func TestBlobBackend_PathQueries(t *testing.T) {
	s, mem := newBlobStore(t)
	require.NoError(t, mem.Put(context.Background(), "dir/nested/file", []byte("x")))

	assert.True(t, s.IsRegularFile("dir/nested/file"))
	assert.True(t, s.IsDirectory("dir"))
	assert.True(t, s.IsDirectory("dir/nested"))
	assert.True(t, s.IsDirectory("/"))
	assert.False(t, s.Exists("di"))
	assert.False(t, s.Exists("other"))

	assert.Equal(t, Invalid, s.OpenFile("/"))
}

func TestBlobBackend_StoreCloseFlushes(t *testing.T) {
	mem := blobstore.NewMemoryStore()
	s := New(NewBlobBackend(context.Background(), mem))

	id := s.OpenFile("pending")
	s.SyncWriteFile(id, []byte("flushed"), 0, 6)
	require.NoError(t, s.Close())

	assert.Equal(t, "flushed", readBlob(t, mem, "pending"))
}

func TestBlobBackend_LocalStore(t *testing.T) {
	store := blobstore.NewLocalStore(t.TempDir())
	s := New(NewBlobBackend(context.Background(), store))
	defer func() { _ = s.Close() }()

	id := s.OpenFile("a/b.txt")
	s.SyncWriteFile(id, []byte("mapped"), 0, 5)
	s.CloseFile(id)

	id = s.OpenFile("a/b.txt")
	buf := make([]byte, 16)
	n := s.SyncReadFile(id, buf, 0, len(buf)-1)
	assert.Equal(t, "mapped", string(buf[:n]))
	assert.True(t, s.IsDirectory("a"))
}
