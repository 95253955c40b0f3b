package lowlevel

import (
	"math"
	"slices"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
)

// entry is one open identity.
type entry struct {
	id   int
	path string

	mu       sync.Mutex // guards the fields below
	h        Handle
	readOff  int64
	writeOff int64
	closed   bool
}

// table maps identities to open handles. Identities are allocated
// monotonically starting at 1 and never reused.
//
// written holds the identities that received at least one write. Their
// handles are truncated to the write cursor when they are released.
type table struct {
	mu      sync.RWMutex
	entries map[uint32]*entry
	written *roaring.Bitmap
	next    uint32
}

// released is an entry taken out of the table.
type released struct {
	*entry
	written bool
}

func newTable() *table {
	return &table{
		entries: make(map[uint32]*entry),
		written: roaring.New(),
		next:    1,
	}
}

func (t *table) add(path string, h Handle) (*entry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.next == math.MaxUint32 {
		return nil, false
	}
	id := t.next
	t.next++

	e := &entry{id: int(id), path: path, h: h}
	t.entries[id] = e
	return e, true
}

func key(id int) (uint32, bool) {
	if id <= 0 || int64(id) > math.MaxUint32 {
		return 0, false
	}
	return uint32(id), true
}

func (t *table) get(id int) (*entry, bool) {
	k, ok := key(id)
	if !ok {
		return nil, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.entries[k]
	return e, ok
}

// markWritten records that id received a write.
func (t *table) markWritten(id int) {
	k, ok := key(id)
	if !ok {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, live := t.entries[k]; live {
		t.written.Add(k)
	}
}

func (t *table) remove(id int) (released, bool) {
	k, ok := key(id)
	if !ok {
		return released{}, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[k]
	if !ok {
		return released{}, false
	}
	delete(t.entries, k)
	return released{entry: e, written: t.written.CheckedRemove(k)}, true
}

// drain removes and returns every live entry in identity order.
func (t *table) drain() []released {
	t.mu.Lock()
	defer t.mu.Unlock()

	keys := make([]uint32, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]released, 0, len(keys))
	for _, k := range keys {
		out = append(out, released{entry: t.entries[k], written: t.written.Contains(k)})
		delete(t.entries, k)
	}
	t.written.Clear()
	return out
}

func (t *table) len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// writtenCount returns the number of live identities that received a write.
func (t *table) writtenCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return int(t.written.GetCardinality())
}
