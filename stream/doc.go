// Package stream provides View, a delegating wrapper around a store.ByteStore
// that decouples releasing the wrapper from releasing the store it wraps.
//
// Some consumers treat any stream they receive as exclusively owned and close
// it once they are done reading. Handing such a consumer a View created with
// retain=true satisfies that convention: closing the view makes the view
// unusable, while the wrapped store stays open for its real owner.
//
//	view := stream.NewView(persisted, true)
//	err := consumer.Consume(ctx, view, length, name) // consumer closes view
//	// persisted is still open here
//
// With retain=false, releasing the view also closes the wrapped store.
//
// A View adds no buffering or transformation: every operation is forwarded
// unchanged to the wrapped store.
package stream
