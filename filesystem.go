package blockio

import (
	"context"
	"errors"
	"time"

	"github.com/hupe1980/blockio/lowlevel"
)

// FileSystem opens files on a low-level primitive and answers path queries.
type FileSystem struct {
	ll      lowlevel.FileSystem
	logger  *Logger
	metrics MetricsCollector
}

// New creates a FileSystem over primitive. The primitive is not owned:
// closing it stays the caller's responsibility.
func New(primitive lowlevel.FileSystem, optFns ...Option) *FileSystem {
	o := applyOptions(optFns)

	return &FileSystem{
		ll:      primitive,
		logger:  o.logger,
		metrics: o.metricsCollector,
	}
}

// Open opens path. If the primitive rejects it, Open returns an *OpenError
// and no File.
func (fsys *FileSystem) Open(path string) (*File, error) {
	began := time.Now()
	id := fsys.ll.OpenFile(path)

	var err error
	if id == lowlevel.Invalid {
		err = &OpenError{Path: path}
	}

	fsys.metrics.RecordOpen(time.Since(began), err)
	fsys.logger.LogOpen(path, id, err)

	if err != nil {
		return nil, err
	}

	return &File{
		id:      id,
		path:    path,
		fs:      fsys.ll,
		logger:  fsys.logger.WithPath(path).WithID(id),
		metrics: fsys.metrics,
	}, nil
}

// Exists reports whether path exists.
func (fsys *FileSystem) Exists(path string) bool {
	return fsys.ll.Exists(path)
}

// IsRegularFile reports whether path is a regular file.
func (fsys *FileSystem) IsRegularFile(path string) bool {
	return fsys.ll.IsRegularFile(path)
}

// IsDirectory reports whether path is a directory.
func (fsys *FileSystem) IsDirectory(path string) bool {
	return fsys.ll.IsDirectory(path)
}

// CopyFile copies src to dst in blocks of blockSize bytes and returns the
// number of bytes copied. Both files are closed before CopyFile returns.
func (fsys *FileSystem) CopyFile(src, dst string, blockSize int) (int64, error) {
	if blockSize <= 0 {
		return 0, ErrInvalidBlockSize
	}

	in, err := fsys.Open(src)
	if err != nil {
		return 0, err
	}

	out, err := fsys.Open(dst)
	if err != nil {
		return 0, errors.Join(err, in.Close())
	}

	n, err := CopyBlocks(out, in, NewBuffer(blockSize))

	return n, errors.Join(err, in.Close(), out.Close())
}

// CopyFileAsync copies src to dst like CopyFile, but pipelines the transfer
// with CopyBlocksAsync so that the primitive's async workers overlap reading
// and writing.
func (fsys *FileSystem) CopyFileAsync(ctx context.Context, src, dst string, blockSize int) (int64, error) {
	if blockSize <= 0 {
		return 0, ErrInvalidBlockSize
	}

	in, err := fsys.Open(src)
	if err != nil {
		return 0, err
	}

	out, err := fsys.Open(dst)
	if err != nil {
		return 0, errors.Join(err, in.Close())
	}

	n, err := CopyBlocksAsync(ctx, out, in, blockSize)

	return n, errors.Join(err, in.Close(), out.Close())
}
