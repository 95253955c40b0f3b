// Package blobstore provides object storage backends for the blob-backed
// low-level primitive (see lowlevel.NewBlobBackend).
//
// # Built-in Implementations
//
//   - MemoryStore: in-memory, for tests and ephemeral data
//   - LocalStore: local directory with mmap reads and atomic writes
//   - minio.Store: MinIO and other S3-compatible servers
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//
// # Custom Implementations
//
// Implement BlobStore to plug in another backend:
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	    Create(ctx, name) (WritableBlob, error)
//	    Put(ctx, name, data) error
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
//
// Blobs are immutable once published: a writer replaces the whole object.
package blobstore
