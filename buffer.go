package blockio

// Buffer is a fixed-capacity byte region with a movable logical end.
//
// The valid window is Bytes()[Start():End()+1]. A fresh buffer is full;
// Limit shrinks or grows the window within the capacity. End() == -1 denotes
// an empty buffer.
//
// A Buffer is owned by the caller and may be reused across reads, writes and
// files, but must not be used by two operations at once.
type Buffer struct {
	bytes []byte
	start int
	end   int
}

// NewBuffer allocates a full buffer of the given capacity.
// It panics if capacity is negative.
func NewBuffer(capacity int) *Buffer {
	if capacity < 0 {
		panic("blockio: negative buffer capacity")
	}
	return &Buffer{
		bytes: make([]byte, capacity),
		start: 0,
		end:   capacity - 1,
	}
}

// Limit sets the logical size of the buffer to offset bytes from Start.
// Offsets outside [0, MaxSize] return a *LimitError and leave the buffer
// unchanged.
func (b *Buffer) Limit(offset int) error {
	if offset < 0 || offset > len(b.bytes) {
		return &LimitError{Offset: offset, MaxSize: len(b.bytes)}
	}
	b.end = b.start + offset - 1
	return nil
}

// Reset restores the buffer to its full capacity.
func (b *Buffer) Reset() {
	b.end = b.start + len(b.bytes) - 1
}

// CurrentSize returns the number of valid bytes.
func (b *Buffer) CurrentSize() int {
	return b.end - b.start + 1
}

// MaxSize returns the capacity.
func (b *Buffer) MaxSize() int {
	return len(b.bytes)
}

// IsFull reports whether the valid window spans the whole capacity.
func (b *Buffer) IsFull() bool {
	return b.CurrentSize() == b.MaxSize()
}

// Start returns the index of the first valid byte. It is always 0.
func (b *Buffer) Start() int {
	return b.start
}

// End returns the index of the last valid byte, or -1 when empty.
func (b *Buffer) End() int {
	return b.end
}

// Bytes returns the whole allocation, valid or not.
func (b *Buffer) Bytes() []byte {
	return b.bytes
}

// Data returns the valid window.
func (b *Buffer) Data() []byte {
	return b.bytes[b.start : b.end+1]
}
