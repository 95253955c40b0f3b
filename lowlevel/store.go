package lowlevel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/hupe1980/blockio/resource"
	"golang.org/x/sync/errgroup"
)

// Options contains configuration for a Store.
type Options struct {
	// Logger receives diagnostics. Backend failures are logged at warn level.
	// If nil, logs are discarded.
	Logger *slog.Logger

	// Controller bounds async workers, in-flight bytes and I/O throughput.
	// If nil, no limits apply.
	Controller *resource.Controller

	// Context bounds waits on the Controller. It is canceled when the Store
	// is closed. Default: context.Background().
	Context context.Context

	// CloseConcurrency is the number of handles closed in parallel by Close.
	// Default: 4
	CloseConcurrency int
}

// DefaultOptions returns default Store options.
var DefaultOptions = Options{
	CloseConcurrency: 4,
}

// Store implements FileSystem over a Backend.
//
// A Store is safe for concurrent use. Each identity has independent
// sequential read and write cursors that start at offset 0.
type Store struct {
	backend Backend
	logger  *slog.Logger
	ctl     *resource.Controller
	table   *table

	ctx    context.Context
	cancel context.CancelFunc

	closeConcurrency int

	mu        sync.Mutex // guards closed, closeErrs and wg.Add
	closed    bool
	closeErrs []error
	wg        sync.WaitGroup
}

var _ FileSystem = (*Store)(nil)

// New creates a Store over backend.
func New(backend Backend, optFns ...func(o *Options)) *Store {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.CloseConcurrency <= 0 {
		opts.CloseConcurrency = 1
	}

	ctx, cancel := context.WithCancel(opts.Context)

	limits := opts.Controller.Config()
	opts.Logger.Debug("store created",
		"max_workers", limits.MaxWorkers,
		"max_inflight_bytes", limits.MaxInFlightBytes,
		"io_limit_bytes_per_sec", limits.IOLimitBytesPerSec,
	)

	return &Store{
		backend:          backend,
		logger:           opts.Logger,
		ctl:              opts.Controller,
		table:            newTable(),
		ctx:              ctx,
		cancel:           cancel,
		closeConcurrency: opts.CloseConcurrency,
	}
}

func (s *Store) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// OpenFile opens path on the backend and returns its identity.
func (s *Store) OpenFile(path string) int {
	if s.isClosed() {
		s.logger.Warn("open after close", "path", path)
		return Invalid
	}

	h, err := s.backend.Open(path)
	if err != nil {
		s.logger.Warn("open failed", "path", path, "error", err)
		return Invalid
	}

	e, ok := s.table.add(path, h)
	if !ok {
		_ = h.Close()
		s.logger.Error("identity space exhausted", "path", path)
		return Invalid
	}

	s.logger.Debug("opened", "path", path, "id", e.id)
	return e.id
}

// CloseFile closes the handle behind id. A handle that received writes is
// first truncated to its write cursor, so the file ends after the last byte
// written through this identity.
//
// CloseFile reports nothing to the caller; failures are logged and returned
// by Close.
func (s *Store) CloseFile(id int) {
	r, ok := s.table.remove(id)
	if !ok {
		s.logger.Warn("close of unknown identity", "id", id)
		return
	}
	if err := closeEntry(r); err != nil {
		s.logger.Error("close failed", "id", id, "path", r.path, "error", err)

		s.mu.Lock()
		s.closeErrs = append(s.closeErrs, err)
		s.mu.Unlock()
		return
	}
	s.logger.Debug("closed", "id", id, "path", r.path, "written", r.written)
}

func closeEntry(r released) error {
	e := r.entry

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true

	var truncErr error
	if r.written {
		if err := e.h.Truncate(e.writeOff); err != nil {
			truncErr = fmt.Errorf("truncate %q to %d: %w", e.path, e.writeOff, err)
		}
	}
	return errors.Join(truncErr, e.h.Close())
}

// SyncReadFile implements FileSystem.
func (s *Store) SyncReadFile(id int, buf []byte, start, end int) int {
	if !validRange(buf, start, end) {
		s.logger.Warn("read range out of bounds", "id", id, "start", start, "end", end, "len", len(buf))
		return Invalid
	}

	e, ok := s.table.get(id)
	if !ok {
		s.logger.Warn("read of unknown identity", "id", id)
		return Invalid
	}

	return s.read(e, buf[start:end+1])
}

func (s *Store) read(e *entry, p []byte) int {
	if len(p) == 0 {
		return 0
	}
	if err := s.ctl.AcquireIO(s.ctx, len(p)); err != nil {
		s.logger.Warn("read aborted", "id", e.id, "error", err)
		return Invalid
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return Invalid
	}

	n, err := e.h.ReadAt(p, e.readOff)
	if err != nil && !errors.Is(err, io.EOF) {
		s.logger.Warn("read failed", "id", e.id, "path", e.path, "offset", e.readOff, "error", err)
		return Invalid
	}
	e.readOff += int64(n)
	return n
}

// AsyncReadFile implements FileSystem.
// If the Store is closed or closing, callback receives Invalid.
func (s *Store) AsyncReadFile(id int, buf []byte, start, end int, callback func(int)) {
	s.dispatch(transferSize(start, end), func(ok bool) {
		n := Invalid
		if ok {
			n = s.SyncReadFile(id, buf, start, end)
		}
		if callback != nil {
			callback(n)
		}
	})
}

// SyncWriteFile implements FileSystem.
func (s *Store) SyncWriteFile(id int, buf []byte, start, end int) {
	if !validRange(buf, start, end) {
		s.logger.Warn("write range out of bounds", "id", id, "start", start, "end", end, "len", len(buf))
		return
	}

	e, ok := s.table.get(id)
	if !ok {
		s.logger.Warn("write to unknown identity", "id", id)
		return
	}
	s.table.markWritten(id)

	s.write(e, buf[start:end+1])
}

func (s *Store) write(e *entry, p []byte) {
	if len(p) == 0 {
		return
	}
	if err := s.ctl.AcquireIO(s.ctx, len(p)); err != nil {
		s.logger.Warn("write aborted", "id", e.id, "error", err)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}

	n, err := e.h.WriteAt(p, e.writeOff)
	e.writeOff += int64(n)
	if err != nil {
		s.logger.Warn("write failed", "id", e.id, "path", e.path, "written", n, "error", err)
	}
}

// AsyncWriteFile implements FileSystem.
func (s *Store) AsyncWriteFile(id int, buf []byte, start, end int, callback func()) {
	s.dispatch(transferSize(start, end), func(ok bool) {
		if ok {
			s.SyncWriteFile(id, buf, start, end)
		}
		if callback != nil {
			callback()
		}
	})
}

func transferSize(start, end int) int64 {
	if n := end - start + 1; n > 0 {
		return int64(n)
	}
	return 0
}

// dispatch runs fn on a new goroutine once the controller grants a worker
// and size in-flight bytes. fn receives false when the Store is closed or the
// resources could not be acquired.
func (s *Store) dispatch(size int64, fn func(ok bool)) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		fn(false)
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()

		if err := s.ctl.AcquireWorker(s.ctx); err != nil {
			fn(false)
			return
		}
		defer s.ctl.ReleaseWorker()

		if err := s.ctl.AcquireBytes(s.ctx, size); err != nil {
			fn(false)
			return
		}
		defer s.ctl.ReleaseBytes(size)

		fn(true)
	}()
}

// Exists reports whether anything exists at path.
func (s *Store) Exists(path string) bool {
	return s.kind(path) != KindMissing
}

// IsRegularFile reports whether path is a regular file.
func (s *Store) IsRegularFile(path string) bool {
	return s.kind(path) == KindRegular
}

// IsDirectory reports whether path is a directory.
func (s *Store) IsDirectory(path string) bool {
	return s.kind(path) == KindDirectory
}

func (s *Store) kind(path string) Kind {
	k, err := s.backend.Stat(path)
	if err != nil {
		s.logger.Warn("stat failed", "path", path, "error", err)
		return KindMissing
	}
	return k
}

// OpenCount returns the number of live identities.
func (s *Store) OpenCount() int {
	return s.table.len()
}

// Close waits for in-flight async transfers, then closes every remaining
// handle. Later opens fail and later async transfers complete with Invalid.
// The returned error joins the failures of earlier CloseFile calls with those
// of the remaining handles. Close is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.wg.Wait()
	s.cancel()

	var g errgroup.Group
	g.SetLimit(s.closeConcurrency)

	drained := s.table.drain()
	errs := make([]error, len(drained))
	for i, r := range drained {
		g.Go(func() error {
			if err := closeEntry(r); err != nil {
				s.logger.Error("close failed", "id", r.id, "path", r.path, "error", err)
				errs[i] = err
			}
			return nil
		})
	}
	_ = g.Wait()

	s.mu.Lock()
	errs = append(s.closeErrs, errs...)
	s.closeErrs = nil
	s.mu.Unlock()

	return errors.Join(errs...)
}
