// Package fs provides filesystem abstractions for testability and fault injection.
//
// The package defines two key interfaces:
//
//   - [File]: an open file with read/write/seek/truncate/sync capabilities
//   - [FileSystem]: filesystem operations (open, remove, stat, mkdir)
//
// # Implementations
//
//   - [LocalFS]: Production implementation using the standard os package
//   - [FaultyFS]: Test utility for fault injection (simulate I/O errors)
//
// # Usage
//
// Production code should use fs.Default (which is [LocalFS]):
//
//	file, err := fs.Default.OpenFile(path, os.O_RDWR, 0)
//
// Tests can inject [FaultyFS] to simulate failures:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("Sample.txt", fs.Fault{FailOnSync: true, FailAfterBytes: -1})
//	// inject ffs into the session under test
//
// # Design Notes
//
// This package does NOT take context.Context parameters. Local filesystem
// operations are not interruptible at the syscall level.
//
// Remote targets are reached through [blobstore.BlobStore], which has context support.
package fs
