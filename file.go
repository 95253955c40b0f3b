package blockio

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/blockio/lowlevel"
)

// File is an open file. It holds the identity issued by the primitive and
// is valid until Close.
type File struct {
	id      int
	path    string
	fs      lowlevel.FileSystem
	logger  *Logger
	metrics MetricsCollector
	closed  atomic.Bool
}

// ID returns the identity issued by the primitive.
func (f *File) ID() int {
	return f.id
}

// Path returns the path the file was opened with.
func (f *File) Path() string {
	return f.path
}

// readEnd is the last index offered to a read: the whole allocation.
func readEnd(buf *Buffer) int {
	return buf.MaxSize() - 1
}

// Read fills buf from the file and limits buf to the number of bytes read,
// which is returned. 0 means end of file.
//
// A failed read returns a *ReadError and leaves buf unchanged.
func (f *File) Read(buf *Buffer) (int, error) {
	if f.closed.Load() {
		return 0, ErrClosed
	}

	began := time.Now()
	n := f.fs.SyncReadFile(f.id, buf.Bytes(), buf.Start(), readEnd(buf))

	var err error
	if n == lowlevel.Invalid {
		err = &ReadError{Path: f.path, ID: f.id}
	} else {
		err = buf.Limit(n)
	}

	f.metrics.RecordRead(n, time.Since(began), err)
	f.logger.LogRead(n, false, err)

	if err != nil {
		return 0, err
	}
	return n, nil
}

// AsyncRead starts a read into buf. When the primitive completes, buf is
// limited to the delivered count, onComplete (if not nil) is called with the
// count, and the returned Completion resolves.
//
// A count of lowlevel.Invalid is delivered unchanged and buf is not limited.
// The Completion carries an error only when the primitive delivered a count
// larger than the buffer. Deliveries after the first are ignored.
func (f *File) AsyncRead(buf *Buffer, onComplete func(int)) (*Completion[int], error) {
	if f.closed.Load() {
		return nil, ErrClosed
	}

	c := newCompletion[int]()
	began := time.Now()

	var delivered atomic.Bool
	f.fs.AsyncReadFile(f.id, buf.Bytes(), buf.Start(), readEnd(buf), func(n int) {
		if !delivered.CompareAndSwap(false, true) {
			f.logger.Warn("duplicate read completion ignored", "id", f.id, "bytes", n)
			return
		}

		var err error
		if n != lowlevel.Invalid {
			err = buf.Limit(n)
		}

		f.metrics.RecordRead(n, time.Since(began), err)
		f.logger.LogRead(n, true, err)

		if onComplete != nil {
			onComplete(n)
		}
		c.resolve(n, err)
	})

	return c, nil
}

// Write writes the valid window of buf. buf is not modified.
//
// The primitive does not report write failures, so the only error is
// ErrClosed.
func (f *File) Write(buf *Buffer) error {
	if f.closed.Load() {
		return ErrClosed
	}

	began := time.Now()
	f.fs.SyncWriteFile(f.id, buf.Bytes(), buf.Start(), buf.End())

	f.metrics.RecordWrite(buf.CurrentSize(), time.Since(began))
	f.logger.LogWrite(buf.CurrentSize(), false)
	return nil
}

// AsyncWrite starts a write of the valid window of buf. onComplete (if not
// nil) is called once the primitive finished, then the Completion resolves.
func (f *File) AsyncWrite(buf *Buffer, onComplete func()) (*Completion[struct{}], error) {
	if f.closed.Load() {
		return nil, ErrClosed
	}

	c := newCompletion[struct{}]()
	began := time.Now()
	size := buf.CurrentSize()

	var delivered atomic.Bool
	f.fs.AsyncWriteFile(f.id, buf.Bytes(), buf.Start(), buf.End(), func() {
		if !delivered.CompareAndSwap(false, true) {
			f.logger.Warn("duplicate write completion ignored", "id", f.id)
			return
		}

		f.metrics.RecordWrite(size, time.Since(began))
		f.logger.LogWrite(size, true)

		if onComplete != nil {
			onComplete()
		}
		c.resolve(struct{}{}, nil)
	})

	return c, nil
}

// Close releases the identity. Every operation after Close, including a
// second Close, returns ErrClosed.
func (f *File) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}

	f.fs.CloseFile(f.id)

	f.metrics.RecordClose(nil)
	f.logger.LogClose(nil)
	return nil
}
