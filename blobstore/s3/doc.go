// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	store := s3.NewStore(awss3.NewFromConfig(cfg), "my-bucket", "uploads/")
//
//	consumer := transport.NewBlobConsumer(store)
//	err = session.Upload(ctx, consumer)
//
// # Features
//
//   - Range reads for partial fetches
//   - Multipart uploads for large files
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
//   - DynamoDB revision log with conditional writes
package s3
