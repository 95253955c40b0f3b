package lowlevel

import "io"

// Kind classifies a path on a Backend.
type Kind int

const (
	// KindMissing means nothing exists at the path.
	KindMissing Kind = iota
	// KindRegular is a regular file.
	KindRegular
	// KindDirectory is a directory (or a non-empty key prefix).
	KindDirectory
	// KindOther is anything else, e.g. a device or socket.
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindRegular:
		return "regular"
	case KindDirectory:
		return "directory"
	default:
		return "other"
	}
}

// Handle is an open file on a Backend.
//
// ReadAt follows io.ReaderAt: a read that reaches the end of the file may
// return io.EOF together with the bytes it read.
type Handle interface {
	io.ReaderAt
	io.WriterAt
	io.Closer

	// Truncate changes the size of the file.
	Truncate(size int64) error
}

// Backend opens and classifies paths for a Store.
type Backend interface {
	// Open opens path for reading and writing, creating it if missing.
	Open(path string) (Handle, error)

	// Stat classifies path. A missing path is KindMissing with a nil error.
	Stat(path string) (Kind, error)
}
