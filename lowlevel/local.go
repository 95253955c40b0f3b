package lowlevel

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/hupe1980/blockio/internal/fs"
)

// LocalBackend serves files below a root directory.
type LocalBackend struct {
	root string
	fsys fs.FileSystem
}

var _ Backend = (*LocalBackend)(nil)

// NewLocalBackend creates a backend rooted at root. Paths are resolved
// relative to root and cannot escape it. If fsys is nil, the local disk is
// used.
func NewLocalBackend(root string, fsys fs.FileSystem) *LocalBackend {
	if fsys == nil {
		fsys = fs.Default
	}
	return &LocalBackend{root: root, fsys: fsys}
}

// Root returns the backend's root directory.
func (b *LocalBackend) Root() string {
	return b.root
}

func (b *LocalBackend) resolve(name string) string {
	return filepath.Join(b.root, filepath.FromSlash(path.Clean("/"+filepath.ToSlash(name))))
}

// Open opens name read-write, creating it if needed. Files that are not
// writable are opened read-only.
func (b *LocalBackend) Open(name string) (Handle, error) {
	full := b.resolve(name)

	f, err := b.fsys.OpenFile(full, os.O_RDWR|os.O_CREATE, 0o644)
	if errors.Is(err, os.ErrPermission) {
		f, err = b.fsys.OpenFile(full, os.O_RDONLY, 0)
	}
	if err != nil {
		return nil, fmt.Errorf("local: open %q: %w", name, err)
	}
	return f, nil
}

// Stat implements Backend.
func (b *LocalBackend) Stat(name string) (Kind, error) {
	info, err := b.fsys.Stat(b.resolve(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return KindMissing, nil
		}
		return KindMissing, fmt.Errorf("local: stat %q: %w", name, err)
	}
	return kindOf(info), nil
}

func kindOf(info os.FileInfo) Kind {
	switch {
	case info.IsDir():
		return KindDirectory
	case info.Mode().IsRegular():
		return KindRegular
	default:
		return KindOther
	}
}
