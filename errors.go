package blockio

import (
	"errors"
	"fmt"
)

var (
	// ErrOpen is returned when the primitive could not open a path.
	ErrOpen = errors.New("cannot open file")

	// ErrRead is returned when the primitive reported a failed read.
	ErrRead = errors.New("cannot read file")

	// ErrClosed is returned by operations on a closed File.
	ErrClosed = errors.New("file is closed")

	// ErrLimitOutOfRange is returned when a buffer limit is negative or
	// exceeds the buffer's capacity.
	ErrLimitOutOfRange = errors.New("limit out of range")

	// ErrInvalidBlockSize is returned when a block copy is requested with a
	// non-positive block size.
	ErrInvalidBlockSize = errors.New("block size must be positive")
)

// OpenError indicates that a path could not be opened.
//
// errors.Is(err, ErrOpen) reports true for an OpenError.
type OpenError struct {
	Path string
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("%s: %q", ErrOpen, e.Path)
}

func (e *OpenError) Unwrap() error { return ErrOpen }

// ReadError indicates that a synchronous read failed.
//
// errors.Is(err, ErrRead) reports true for a ReadError.
type ReadError struct {
	Path string
	ID   int
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s: %q (id %d)", ErrRead, e.Path, e.ID)
}

func (e *ReadError) Unwrap() error { return ErrRead }

// LimitError indicates a Limit call outside [0, MaxSize].
type LimitError struct {
	Offset  int
	MaxSize int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s: offset %d, max size %d", ErrLimitOutOfRange, e.Offset, e.MaxSize)
}

func (e *LimitError) Unwrap() error { return ErrLimitOutOfRange }
