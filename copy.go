package blockio

import (
	"context"
	"errors"

	"github.com/hupe1980/blockio/lowlevel"
)

// CopyBlocks reads src into buf and writes each block to dst until a read
// leaves buf short of full. It returns the number of bytes copied.
//
// buf is reused for every block; its capacity is the block size.
func CopyBlocks(dst, src *File, buf *Buffer) (int64, error) {
	if buf.MaxSize() == 0 {
		return 0, ErrInvalidBlockSize
	}

	var total int64
	for {
		n, err := src.Read(buf)
		if err != nil {
			return total, err
		}

		if err := dst.Write(buf); err != nil {
			return total, err
		}
		total += int64(n)

		if !buf.IsFull() {
			return total, nil
		}
	}
}

// CopyBlocksAsync copies src to dst like CopyBlocks, overlapping the write of
// each block with the read of the next one. Two buffers of blockSize bytes
// alternate; at most one read and one write are in flight.
//
// Reads and writes are issued in order, so the sequential cursors of the
// primitive see the same sequence as with CopyBlocks. If ctx is done, the
// copy stops waiting and returns ctx.Err(); transfers already issued still
// complete on the primitive.
func CopyBlocksAsync(ctx context.Context, dst, src *File, blockSize int) (int64, error) {
	if blockSize <= 0 {
		return 0, ErrInvalidBlockSize
	}

	bufs := [2]*Buffer{NewBuffer(blockSize), NewBuffer(blockSize)}

	var (
		total   int64
		pending *Completion[struct{}]
	)

	// drain waits for the write in flight, if any.
	drain := func() error {
		if pending == nil {
			return nil
		}
		_, err := pending.Wait(ctx)
		pending = nil
		return err
	}

	for cur := 0; ; cur ^= 1 {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		buf := bufs[cur]
		rc, err := src.AsyncRead(buf, nil)
		if err != nil {
			return total, errors.Join(err, drain())
		}

		n, err := rc.Wait(ctx)
		if err == nil && n == lowlevel.Invalid {
			err = &ReadError{Path: src.path, ID: src.id}
		}
		if err != nil {
			return total, errors.Join(err, drain())
		}

		if err := drain(); err != nil {
			return total, err
		}

		pending, err = dst.AsyncWrite(buf, nil)
		if err != nil {
			return total, err
		}
		total += int64(n)

		if !buf.IsFull() {
			return total, drain()
		}
	}
}
