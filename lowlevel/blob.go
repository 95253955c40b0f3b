package lowlevel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/hupe1980/blockio/blobstore"
)

// BlobBackend serves files from a blob store. Objects are immutable in a
// blob store, so writes are staged in memory and published with Put when the
// handle is closed. Opening a missing object creates it on close.
//
// A path is a directory when at least one object exists below it.
type BlobBackend struct {
	ctx   context.Context
	store blobstore.BlobStore
}

var _ Backend = (*BlobBackend)(nil)

// NewBlobBackend creates a backend over store. ctx is used for every store
// request.
func NewBlobBackend(ctx context.Context, store blobstore.BlobStore) *BlobBackend {
	if ctx == nil {
		ctx = context.Background()
	}
	return &BlobBackend{ctx: ctx, store: store}
}

func objectName(name string) string {
	return strings.TrimPrefix(path.Clean("/"+name), "/")
}

// Open implements Backend.
func (b *BlobBackend) Open(name string) (Handle, error) {
	key := objectName(name)
	if key == "" {
		return nil, fmt.Errorf("blob: open %q: is the root", name)
	}

	blob, err := b.store.Open(b.ctx, key)
	if err != nil && !errors.Is(err, blobstore.ErrNotFound) {
		return nil, fmt.Errorf("blob: open %q: %w", name, err)
	}

	return &blobHandle{
		backend: b,
		key:     key,
		blob:    blob,
		missing: blob == nil,
	}, nil
}

// Stat implements Backend.
func (b *BlobBackend) Stat(name string) (Kind, error) {
	key := objectName(name)
	if key == "" {
		return KindDirectory, nil
	}

	blob, err := b.store.Open(b.ctx, key)
	if err == nil {
		_ = blob.Close()
		return KindRegular, nil
	}
	if !errors.Is(err, blobstore.ErrNotFound) {
		return KindMissing, fmt.Errorf("blob: stat %q: %w", name, err)
	}

	names, err := b.store.List(b.ctx, key+"/")
	if err != nil {
		return KindMissing, fmt.Errorf("blob: list %q: %w", name, err)
	}
	if len(names) > 0 {
		return KindDirectory, nil
	}
	return KindMissing, nil
}

type blobHandle struct {
	backend *BlobBackend
	key     string

	mu      sync.Mutex
	blob    blobstore.Blob // nil when the object did not exist at open
	missing bool
	staged  []byte // full contents once the first write happened
	dirty   bool
	closed  bool
}

func (h *blobHandle) ReadAt(p []byte, off int64) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return 0, fmt.Errorf("blob: read %q: %w", h.key, io.ErrClosedPipe)
	}

	switch {
	case h.staged != nil:
		if off >= int64(len(h.staged)) {
			return 0, io.EOF
		}
		n := copy(p, h.staged[off:])
		if n < len(p) {
			return n, io.EOF
		}
		return n, nil
	case h.blob == nil:
		return 0, io.EOF
	default:
		return h.blob.ReadAt(h.backend.ctx, p, off)
	}
}

func (h *blobHandle) WriteAt(p []byte, off int64) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return 0, fmt.Errorf("blob: write %q: %w", h.key, io.ErrClosedPipe)
	}
	if off < 0 {
		return 0, fmt.Errorf("blob: write %q: negative offset %d", h.key, off)
	}

	if h.staged == nil {
		if err := h.load(); err != nil {
			return 0, err
		}
	}

	if need := off + int64(len(p)); need > int64(len(h.staged)) {
		grown := make([]byte, need)
		copy(grown, h.staged)
		h.staged = grown
	}
	n := copy(h.staged[off:], p)
	h.dirty = true
	return n, nil
}

// Truncate cuts or zero-extends the staged contents to size.
func (h *blobHandle) Truncate(size int64) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return fmt.Errorf("blob: truncate %q: %w", h.key, io.ErrClosedPipe)
	}
	if size < 0 {
		return fmt.Errorf("blob: truncate %q: negative size %d", h.key, size)
	}

	if h.staged == nil {
		if err := h.load(); err != nil {
			return err
		}
	}

	if size <= int64(len(h.staged)) {
		h.staged = h.staged[:size]
	} else {
		grown := make([]byte, size)
		copy(grown, h.staged)
		h.staged = grown
	}
	h.dirty = true
	return nil
}

// load copies the current object contents into the staging buffer.
func (h *blobHandle) load() error {
	if h.blob == nil {
		h.staged = []byte{}
		return nil
	}
	data, err := blobstore.ReadAll(h.backend.ctx, h.blob)
	if err != nil {
		return fmt.Errorf("blob: stage %q: %w", h.key, err)
	}
	h.staged = data
	return nil
}

// Close publishes staged writes, or creates the object if it was missing.
func (h *blobHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true

	var errs []error
	if h.dirty || h.missing {
		data := h.staged
		if data == nil {
			data = []byte{}
		}
		if err := h.backend.store.Put(h.backend.ctx, h.key, data); err != nil {
			errs = append(errs, fmt.Errorf("blob: publish %q: %w", h.key, err))
		}
	}
	if h.blob != nil {
		if err := h.blob.Close(); err != nil {
			errs = append(errs, fmt.Errorf("blob: close %q: %w", h.key, err))
		}
	}
	h.staged = nil
	return errors.Join(errs...)
}
