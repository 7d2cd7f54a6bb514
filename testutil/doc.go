// Package testutil provides testing utilities for editkit.
//
// This package is intended for use in tests only. It provides fixtures for
// persisted files, a recording upload consumer, and helpers to inspect
// store content.
//
// # Fixtures
//
//	path := testutil.WriteFile(t, t.TempDir(), "notes.txt", "")
//
// # Recording Consumer
//
//	rec := testutil.NewRecordingConsumer()
//	err := session.Upload(ctx, rec)
//	rec.Last().Data   // bytes the consumer read
//	rec.Closes()      // how many times it closed a body
//
// # Reading Stores
//
//	data, err := testutil.ReadAllFrom(store)
package testutil
