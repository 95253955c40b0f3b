package blockio

import (
	"context"
	"sync/atomic"
)

// Completion is the single-shot result of an asynchronous operation.
type Completion[T any] struct {
	done     chan struct{}
	resolved atomic.Bool
	value    T
	err      error
}

func newCompletion[T any]() *Completion[T] {
	return &Completion[T]{done: make(chan struct{})}
}

// resolve records the result. Only the first call has an effect; later calls
// return false.
func (c *Completion[T]) resolve(value T, err error) bool {
	if !c.resolved.CompareAndSwap(false, true) {
		return false
	}
	c.value, c.err = value, err
	close(c.done)
	return true
}

// Done returns a channel that is closed once the operation completed.
func (c *Completion[T]) Done() <-chan struct{} {
	return c.done
}

// Resolved reports whether the operation completed.
func (c *Completion[T]) Resolved() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the operation completed or ctx is done.
// Canceling ctx stops the wait, not the operation.
func (c *Completion[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-c.done:
		return c.value, c.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
