package transport

import (
	"context"
	"testing"

	"github.com/hupe1980/editkit/resource"
	"github.com/hupe1980/editkit/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThrottled_NilController(t *testing.T) {
	rec := testutil.NewRecordingConsumer()
	assert.Same(t, rec, Throttled(rec, nil))
}

func TestThrottled_PassesThrough(t *testing.T) {
	rc := resource.NewController(resource.Config{MaxConcurrentUploads: 1, UploadBytesPerSec: 1 << 20})
	rec := testutil.NewRecordingConsumer()
	body := testutil.NewCountingBody([]byte("foo\nbar\n"))

	err := Throttled(rec, rc).Consume(context.Background(), body, 8, "notes.txt")
	require.NoError(t, err)

	assert.Equal(t, "foo\nbar\n", string(rec.Last().Data))
	assert.Equal(t, 1, body.Closes())
	assert.Equal(t, int64(0), rc.UploadsInFlight())
}

func TestThrottled_ClosesBodyWhenNoSlot(t *testing.T) {
	rc := resource.NewController(resource.Config{MaxConcurrentUploads: 1})
	require.True(t, rc.TryAcquireUpload())
	defer rc.ReleaseUpload()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := testutil.NewRecordingConsumer()
	body := testutil.NewCountingBody([]byte("foo\n"))

	err := Throttled(rec, rc).Consume(ctx, body, 4, "notes.txt")
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, body.Closes())
	assert.Empty(t, rec.Uploads())
}
