// Package lowlevel defines the primitive file interface that blockio's File
// and FileSystem delegate to, and provides Store, a concrete primitive that
// hands out numeric identities over a pluggable Backend.
//
// The primitive reports failure with the sentinel Invalid (-1) instead of Go
// errors: OpenFile returns Invalid when the path cannot be opened, and reads
// return Invalid when the transfer failed. Writes report nothing.
//
// # Backends
//
//   - NewLocalBackend: files below a root directory on the local disk
//   - NewBillyBackend: any go-billy filesystem (memfs, osfs, chroot)
//   - NewBlobBackend: objects in a blobstore.BlobStore (memory, local, MinIO, S3)
//
// # Asynchronous transfers
//
// AsyncReadFile and AsyncWriteFile run on goroutines owned by the Store. When
// a resource.Controller is configured, each transfer first acquires a worker
// slot and its byte count from the in-flight budget, and every transfer is
// paced by the controller's I/O limit. Each callback is invoked exactly once.
package lowlevel
