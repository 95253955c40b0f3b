// Package mmap provides read-only memory-mapped file access.
//
// It backs blobstore.LocalStore: a blob opened from local disk is mapped once
// and served to ranged reads without copying through kernel buffers.
//
//	m, err := mmap.Open("data.bin")
//	if err != nil { ... }
//	defer m.Close()
//
//	n, err := m.ReadAt(p, off)
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2)
//   - Windows: CreateFileMapping/MapViewOfFile
//
// A Mapping is safe for concurrent reads. Close is idempotent; callers must
// not touch the slice returned by Bytes after Close returns.
package mmap
