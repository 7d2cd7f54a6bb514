// Package transport hands a finished file to something that uploads it.
//
// A Consumer receives the body, its declared length and a display name. It
// reads exactly length bytes and closes the body exactly once, whether the
// upload succeeded or not. Callers that must keep the underlying store open
// pass a retaining stream.View as the body.
//
// # Consumers
//
//   - BlobConsumer: writes into any blobstore.BlobStore (local, S3, MinIO),
//     optionally compressed and recorded in a blobstore.RevisionLog
//   - HTTPConsumer: POSTs a single multipart/form-data part to an endpoint
//   - Func: adapts a plain function
//
// Throttled wraps any Consumer with the upload slots and bandwidth limit of a
// resource.Controller.
package transport
