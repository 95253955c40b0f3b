// Package s3 provides an Amazon S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("files/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	primitive := lowlevel.New(lowlevel.NewBlobBackend(ctx, store))
//	fsys := blockio.New(primitive)
//
// # Features
//
//   - Range reads for block-sized partial fetches
//   - Multipart uploads for large files
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
//
// Any S3-compatible endpoint can be targeted with WithEndpoint.
package s3
