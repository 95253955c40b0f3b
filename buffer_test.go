package blockio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_FreshIsFull(t *testing.T) {
	buf := NewBuffer(27)

	assert.Equal(t, buf.MaxSize(), buf.CurrentSize())
	assert.True(t, buf.IsFull())
	assert.Equal(t, 0, buf.Start())
	assert.Equal(t, 26, buf.End())
	assert.Len(t, buf.Bytes(), 27)
}

func TestBuffer_Limit(t *testing.T) {
	buf := NewBuffer(27)

	require.NoError(t, buf.Limit(12))
	assert.Equal(t, 12, buf.CurrentSize())
	assert.Equal(t, 11, buf.End())
	assert.False(t, buf.IsFull())

	require.NoError(t, buf.Limit(0))
	assert.Equal(t, 0, buf.CurrentSize())
	assert.Equal(t, -1, buf.End())
	assert.Empty(t, buf.Data())

	require.NoError(t, buf.Limit(27))
	assert.True(t, buf.IsFull())
}

func TestBuffer_LimitOverwrites(t *testing.T) {
	buf := NewBuffer(27)

	require.NoError(t, buf.Limit(8))
	require.NoError(t, buf.Limit(14))
	require.NoError(t, buf.Limit(1))

	assert.Equal(t, 1, buf.CurrentSize())
	assert.Equal(t, 27, buf.MaxSize())
}

func TestBuffer_LimitOutOfRange(t *testing.T) {
	buf := NewBuffer(10)
	require.NoError(t, buf.Limit(6))

	for _, offset := range []int{-1, 11, 1 << 20} {
		err := buf.Limit(offset)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrLimitOutOfRange))

		var le *LimitError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, offset, le.Offset)
		assert.Equal(t, 10, le.MaxSize)

		assert.Equal(t, 6, buf.CurrentSize(), "buffer unchanged")
	}
}

func TestBuffer_DataAndReset(t *testing.T) {
	buf := NewBuffer(5)
	copy(buf.Bytes(), "hello")

	require.NoError(t, buf.Limit(3))
	assert.Equal(t, []byte("hel"), buf.Data())

	buf.Reset()
	assert.True(t, buf.IsFull())
	assert.Equal(t, []byte("hello"), buf.Data())
}

func TestBuffer_ZeroCapacity(t *testing.T) {
	buf := NewBuffer(0)

	assert.Equal(t, 0, buf.MaxSize())
	assert.Equal(t, -1, buf.End())
	assert.True(t, buf.IsFull())
	require.NoError(t, buf.Limit(0))
	assert.Error(t, buf.Limit(1))
}

func TestBuffer_NegativeCapacityPanics(t *testing.T) {
	assert.Panics(t, func() { NewBuffer(-1) })
}

func TestBuffer_SizeInvariant(t *testing.T) {
	buf := NewBuffer(64)
	for offset := 0; offset <= 64; offset++ {
		require.NoError(t, buf.Limit(offset))
		assert.Equal(t, offset, buf.CurrentSize())
		assert.Equal(t, buf.Start()+offset-1, buf.End())
		assert.Equal(t, 64, buf.MaxSize())
		assert.Equal(t, offset == 64, buf.IsFull())
	}
}
