package lowlevel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopHandle struct{ closed bool }

func (h *nopHandle) ReadAt([]byte, int64) (int, error)      { return 0, nil }
func (h *nopHandle) WriteAt(p []byte, _ int64) (int, error) { return len(p), nil }
func (h *nopHandle) Truncate(int64) error                   { return nil }
func (h *nopHandle) Close() error                           { h.closed = true; return nil }

func TestTable_MonotonicIdentities(t *testing.T) {
	tab := newTable()

	a, ok := tab.add("a", &nopHandle{})
	require.True(t, ok)
	b, ok := tab.add("b", &nopHandle{})
	require.True(t, ok)

	assert.Equal(t, 1, a.id)
	assert.Equal(t, 2, b.id)

	_, ok = tab.remove(a.id)
	require.True(t, ok)

	c, ok := tab.add("c", &nopHandle{})
	require.True(t, ok)
	assert.Equal(t, 3, c.id, "identities are never reused")
	assert.Equal(t, 2, tab.len())
}

func TestTable_Lookup(t *testing.T) {
	tab := newTable()
	e, _ := tab.add("x", &nopHandle{})

	got, ok := tab.get(e.id)
	require.True(t, ok)
	assert.Equal(t, "x", got.path)

	for _, id := range []int{Invalid, 0, 99} {
		_, ok := tab.get(id)
		assert.False(t, ok, "id %d", id)
	}

	_, ok = tab.remove(e.id)
	require.True(t, ok)
	_, ok = tab.remove(e.id)
	assert.False(t, ok)
	_, ok = tab.get(e.id)
	assert.False(t, ok)
}

func TestTable_Drain(t *testing.T) {
	tab := newTable()
	for _, p := range []string{"a", "b", "c"} {
		tab.add(p, &nopHandle{})
	}
	tab.remove(2)

	drained := tab.drain()
	require.Len(t, drained, 2)
	assert.Equal(t, 1, drained[0].id)
	assert.Equal(t, 3, drained[1].id)
	assert.Equal(t, 0, tab.len())
}

func TestTable_WrittenSet(t *testing.T) {
	tab := newTable()
	a, _ := tab.add("a", &nopHandle{})
	b, _ := tab.add("b", &nopHandle{})
	c, _ := tab.add("c", &nopHandle{})

	tab.markWritten(a.id)
	tab.markWritten(c.id)
	tab.markWritten(c.id)
	tab.markWritten(99) // not live
	assert.Equal(t, 2, tab.writtenCount())

	r, ok := tab.remove(a.id)
	require.True(t, ok)
	assert.True(t, r.written)
	assert.Equal(t, 1, tab.writtenCount())

	r, ok = tab.remove(b.id)
	require.True(t, ok)
	assert.False(t, r.written)

	drained := tab.drain()
	require.Len(t, drained, 1)
	assert.Equal(t, c.id, drained[0].id)
	assert.True(t, drained[0].written)
	assert.Equal(t, 0, tab.writtenCount())
}
