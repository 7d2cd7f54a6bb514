// Package blobstore provides the storage abstraction uploads are written to.
//
// BlobStore is the interface for reading and writing named data blobs.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: Local filesystem, atomic via temp file + rename
//   - MemoryStore: In-memory, for tests
//   - s3.Store: Amazon S3 with multipart uploads
//   - minio.Store: MinIO and other S3-compatible storage
//
// # Custom Implementations
//
// Implement the BlobStore interface to support custom storage backends:
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)             // Open for reading
//	    Create(ctx, name) (WritableBlob, error)   // Create for writing
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
//
// Stores that can take a stream of known length in a single request should
// also implement SizedPutter:
//
//	PutReader(ctx, name, r, size) error
//
// # Revisions
//
// A RevisionLog records which object holds each uploaded revision of a
// file. MemoryRevisionLog is the in-process implementation; s3.DDBRevisionLog
// stores revisions in DynamoDB.
package blobstore
