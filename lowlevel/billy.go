package lowlevel

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/go-git/go-billy/v5"
)

// BillyBackend serves files from a go-billy filesystem such as memfs or osfs.
type BillyBackend struct {
	fs billy.Filesystem
}

var _ Backend = (*BillyBackend)(nil)

// NewBillyBackend creates a backend over fsys.
func NewBillyBackend(fsys billy.Filesystem) *BillyBackend {
	return &BillyBackend{fs: fsys}
}

// Open implements Backend.
func (b *BillyBackend) Open(name string) (Handle, error) {
	f, err := b.fs.OpenFile(name, os.O_RDWR|os.O_CREATE, 0o644)
	if errors.Is(err, os.ErrPermission) {
		f, err = b.fs.Open(name)
	}
	if err != nil {
		return nil, fmt.Errorf("billy: open %q: %w", name, err)
	}
	return &billyHandle{file: f}, nil
}

// Stat implements Backend.
func (b *BillyBackend) Stat(name string) (Kind, error) {
	info, err := b.fs.Stat(name)
	if err != nil {
		if os.IsNotExist(err) {
			return KindMissing, nil
		}
		return KindMissing, fmt.Errorf("billy: stat %q: %w", name, err)
	}
	return kindOf(info), nil
}

// billyHandle adds WriteAt on top of Seek and Write.
type billyHandle struct {
	mu   sync.Mutex
	file billy.File
}

func (h *billyHandle) ReadAt(p []byte, off int64) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.file.ReadAt(p, off)
}

func (h *billyHandle) WriteAt(p []byte, off int64) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := h.file.Seek(off, io.SeekStart); err != nil {
		return 0, fmt.Errorf("billy: seek %q off=%d: %w", h.file.Name(), off, err)
	}
	n, err := h.file.Write(p)
	if err != nil {
		return n, fmt.Errorf("billy: write %q: %w", h.file.Name(), err)
	}
	return n, nil
}

func (h *billyHandle) Truncate(size int64) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.file.Truncate(size); err != nil {
		return fmt.Errorf("billy: truncate %q size=%d: %w", h.file.Name(), size, err)
	}
	return nil
}

func (h *billyHandle) Close() error {
	if err := h.file.Close(); err != nil {
		return fmt.Errorf("billy: close %q: %w", h.file.Name(), err)
	}
	return nil
}
