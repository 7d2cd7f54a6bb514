package testutil

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile(t *testing.T) {
	path := WriteFile(t, t.TempDir(), "a.txt", "hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestReadAllFrom(t *testing.T) {
	r := strings.NewReader("foo\nbar\n")
	_, _ = r.Seek(4, 0)

	data, err := ReadAllFrom(r)
	require.NoError(t, err)
	assert.Equal(t, "foo\nbar\n", string(data))
}

func TestRecordingConsumer(t *testing.T) {
	rec := NewRecordingConsumer()
	body := NewCountingBody([]byte("foo\nbar\nrest"))

	err := rec.Consume(context.Background(), body, 8, "notes.txt")
	require.NoError(t, err)

	assert.Equal(t, 1, body.Closes())
	assert.Equal(t, 1, rec.Closes())
	assert.Equal(t, Upload{Name: "notes.txt", Length: 8, Data: []byte("foo\nbar\n")}, rec.Last())
}

func TestFailingConsumer(t *testing.T) {
	rec := NewFailingConsumer(3)
	body := NewCountingBody([]byte("foo\nbar\n"))

	err := rec.Consume(context.Background(), body, 8, "notes.txt")
	require.ErrorIs(t, err, ErrConsumerFailed)

	assert.Equal(t, 1, body.Closes())
	assert.Equal(t, "foo", string(rec.Last().Data))
	assert.Len(t, rec.Uploads(), 1)
}
