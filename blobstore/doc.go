// Package blobstore provides storage abstraction for persisted set snapshots.
//
// BlobStore is the interface for reading and writing immutable, named blobs.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-process map, mainly for tests
//   - LocalStore: local filesystem with mmap reads and atomic renames
//   - CachingStore: block-level read cache in front of any BlobStore
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible services
//
// # Custom Implementations
//
// Implement the BlobStore interface to support custom storage backends:
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	    Create(ctx, name) (WritableBlob, error)
//	    Put(ctx, name, data) error
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
//
// Blobs that can expose their content without copying should also implement
// Mappable.
package blobstore
