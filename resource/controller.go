// Package resource bounds the background work of a low-level primitive:
// concurrent async transfers, bytes held by in-flight transfers, and I/O
// throughput.
package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MaxWorkers is the maximum number of concurrent async transfers.
	// If 0, defaults to 1.
	MaxWorkers int64

	// MaxInFlightBytes is the hard limit for bytes referenced by queued or
	// running transfers. If 0, usage is only tracked.
	MaxInFlightBytes int64

	// IOLimitBytesPerSec is the maximum transfer throughput.
	// If 0, unlimited.
	IOLimitBytesPerSec int64
}

// Controller manages transfer resources.
// A nil *Controller imposes no limits.
type Controller struct {
	cfg Config

	workers *semaphore.Weighted

	bytesSem  *semaphore.Weighted // nil if unlimited
	bytesUsed atomic.Int64

	ioLimiter *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 1
	}

	c := &Controller{
		cfg:     cfg,
		workers: semaphore.NewWeighted(cfg.MaxWorkers),
	}

	if cfg.MaxInFlightBytes > 0 {
		c.bytesSem = semaphore.NewWeighted(cfg.MaxInFlightBytes)
	}

	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}

	return c
}

// Config returns the effective configuration.
func (c *Controller) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.cfg
}

// AcquireWorker reserves a worker slot, blocking until one is free or ctx is done.
func (c *Controller) AcquireWorker(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.workers.Acquire(ctx, 1)
}

// ReleaseWorker releases a worker slot.
func (c *Controller) ReleaseWorker() {
	if c == nil {
		return
	}
	c.workers.Release(1)
}

// AcquireBytes reserves n in-flight bytes.
// With a hard limit configured this blocks until the bytes are available or
// ctx is done. Requests larger than the limit are clamped to it so that a
// single oversized transfer can still make progress.
func (c *Controller) AcquireBytes(ctx context.Context, n int64) error {
	if c == nil || n <= 0 {
		return nil
	}
	if c.bytesSem != nil {
		if err := c.bytesSem.Acquire(ctx, c.clamp(n)); err != nil {
			return err
		}
	}
	c.bytesUsed.Add(n)
	return nil
}

// ReleaseBytes releases n in-flight bytes.
func (c *Controller) ReleaseBytes(n int64) {
	if c == nil || n <= 0 {
		return
	}
	if c.bytesSem != nil {
		c.bytesSem.Release(c.clamp(n))
	}
	c.bytesUsed.Add(-n)
}

func (c *Controller) clamp(n int64) int64 {
	if n > c.cfg.MaxInFlightBytes {
		return c.cfg.MaxInFlightBytes
	}
	return n
}

// BytesInFlight returns the bytes currently reserved.
func (c *Controller) BytesInFlight() int64 {
	if c == nil {
		return 0
	}
	return c.bytesUsed.Load()
}

// AcquireIO waits until the IO limit allows n bytes.
func (c *Controller) AcquireIO(ctx context.Context, n int) error {
	if c == nil || c.ioLimiter == nil || n <= 0 {
		return nil
	}
	// WaitN rejects requests above the burst size; spend large transfers in bursts.
	burst := c.ioLimiter.Burst()
	for n > 0 {
		chunk := n
		if chunk > burst {
			chunk = burst
		}
		if err := c.ioLimiter.WaitN(ctx, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}
