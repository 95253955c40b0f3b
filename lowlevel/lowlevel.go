package lowlevel

// Invalid is returned by OpenFile for a path that could not be opened and by
// reads that failed.
const Invalid = -1

// FileSystem is the primitive file interface.
//
// Ranges are inclusive: a transfer covers buf[start] through buf[end].
// start == end+1 denotes an empty transfer.
type FileSystem interface {
	// OpenFile returns a positive identity for path, or Invalid.
	OpenFile(path string) int

	// CloseFile releases the identity. Unknown identities are ignored.
	CloseFile(id int)

	// SyncReadFile fills buf[start..end] from the file's read cursor and
	// returns the number of bytes read, 0 at end of file, or Invalid.
	SyncReadFile(id int, buf []byte, start, end int) int

	// AsyncReadFile is SyncReadFile with the count delivered to callback.
	AsyncReadFile(id int, buf []byte, start, end int, callback func(int))

	// SyncWriteFile writes buf[start..end] at the file's write cursor.
	SyncWriteFile(id int, buf []byte, start, end int)

	// AsyncWriteFile is SyncWriteFile with completion signalled by callback.
	AsyncWriteFile(id int, buf []byte, start, end int, callback func())

	Exists(path string) bool
	IsRegularFile(path string) bool
	IsDirectory(path string) bool
}

// validRange reports whether [start, end] is a usable inclusive range of buf.
func validRange(buf []byte, start, end int) bool {
	return start >= 0 && end < len(buf) && start <= end+1
}
