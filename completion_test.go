package blockio

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletion_ResolveOnce(t *testing.T) {
	c := newCompletion[int]()
	assert.False(t, c.Resolved())

	assert.True(t, c.resolve(5, nil))
	assert.False(t, c.resolve(7, errors.New("late")))
	assert.True(t, c.Resolved())

	n, err := c.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	select {
	case <-c.Done():
	default:
		t.Fatal("Done not closed")
	}
}

func TestCompletion_WaitCanceled(t *testing.T) {
	c := newCompletion[struct{}]()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, c.Resolved(), "waiting does not cancel the operation")

	c.resolve(struct{}{}, nil)
	_, err = c.Wait(context.Background())
	assert.NoError(t, err)
}

func TestCompletion_ConcurrentResolve(t *testing.T) {
	c := newCompletion[int]()

	wins := make(chan bool, 8)
	for i := range 8 {
		go func() { wins <- c.resolve(i, nil) }()
	}

	won := 0
	for range 8 {
		if <-wins {
			won++
		}
	}
	assert.Equal(t, 1, won)
}
