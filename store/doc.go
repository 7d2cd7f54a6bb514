// Package store defines ByteStore, the seekable random-access byte container
// used for both the ephemeral working copy and the persisted file of an edit
// session.
//
// # Implementations
//
//   - [File]: backed by a file on an internal fs.FileSystem. [OpenExisting]
//     opens a persisted file read-write, [CreateEphemeral] creates an exclusive
//     scratch file that is removed again when the store is closed.
//   - [Memory]: an in-memory store, used by tests and as an optional working store.
//
// # Position Invariant
//
// A store's position is always within [0, Len()]. Seeking outside that range
// fails with [ErrOutOfRange]. Shrinking the length below the current position
// moves the position to the new end.
//
// # Thread Safety
//
// Stores are NOT safe for concurrent use. An edit session drives its stores
// strictly sequentially.
package store
