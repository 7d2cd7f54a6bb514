// Package editkit edits a single file through an ephemeral working copy and
// hands the saved content to upload transports without giving up the file.
//
// # Quick Start
//
//	ctx := context.Background()
//	s, err := editkit.Open(ctx, "notes.txt")
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	_ = s.WriteLine(ctx, "foo")
//	_ = s.WriteLine(ctx, "bar")
//	_ = s.Save(ctx) // notes.txt now holds "foo\nbar\n"
//
// # Working Store
//
// Lines go to a working store created on Open. By default it is a file next
// to the edited one, named with DefaultWorkingPrefix ("~$notes.txt"). It is
// created exclusively, so a second session on the same file, or a file left
// behind by a crashed process, makes Open fail with ErrWorkingStoreCollision.
// Close removes it again.
//
//	s, _ := editkit.Open(ctx, "notes.txt", editkit.WithScratchDir("/var/tmp/editkit"))
//	s, _ := editkit.Open(ctx, "notes.txt", editkit.WithMemoryWorkingStore())
//
// Save always copies the whole working content, so the edited file holds
// every line written since Open. Saving twice yields identical content.
//
// # Uploads
//
// Upload passes the saved content to a transport.Consumer. Consumers close
// what they are given; the session hands them a retaining stream.View, so
// the edited file stays open for further saves, previews and uploads.
//
//	consumer := transport.NewHTTPConsumer("http://localhost:8080/api/upload")
//	err := s.Upload(ctx, consumer)
//
// Blob stores (local, S3, MinIO) are reached through transport.BlobConsumer.
// A shared resource.Controller bounds concurrent uploads and their bandwidth:
//
//	rc := resource.NewController(resource.Config{MaxConcurrentUploads: 2})
//	s, _ := editkit.Open(ctx, "notes.txt", editkit.WithResourceController(rc))
//
// # Errors
//
// Failed operations return an *OpError wrapping one of ErrAlreadyOpen,
// ErrNotOpen, ErrNotFound, ErrAccessDenied or ErrWorkingStoreCollision, or
// the underlying I/O or transport error. Use errors.Is to test for them.
// Close is safe to call on a closed or nil session.
package editkit
