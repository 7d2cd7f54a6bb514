package testutil

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// ErrConsumerFailed is the default error of a failing RecordingConsumer.
var ErrConsumerFailed = errors.New("testutil: consumer failed")

// WriteFile creates dir/name with content and returns its path.
func WriteFile(tb testing.TB, dir, name, content string) string {
	tb.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
	return path
}

// ReadAllFrom rewinds rs and returns everything it holds.
func ReadAllFrom(rs io.ReadSeeker) ([]byte, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return io.ReadAll(rs)
}

// Upload is one call recorded by RecordingConsumer.
type Upload struct {
	Name   string
	Length int64
	Data   []byte
	Err    error
}

// RecordingConsumer is an upload consumer that keeps what it reads.
// Like a real transport it always closes the body it is given.
type RecordingConsumer struct {
	mu      sync.Mutex
	uploads []Upload
	closes  int

	// FailAfter makes Consume fail after reading that many bytes.
	// Negative disables the failure.
	FailAfter int64
	// Err is returned on failure. Defaults to ErrConsumerFailed.
	Err error
}

// NewRecordingConsumer returns a consumer that never fails.
func NewRecordingConsumer() *RecordingConsumer {
	return &RecordingConsumer{FailAfter: -1}
}

// NewFailingConsumer returns a consumer that fails after reading n bytes.
func NewFailingConsumer(n int64) *RecordingConsumer {
	return &RecordingConsumer{FailAfter: n}
}

// Consume reads up to length bytes from body and closes it.
func (c *RecordingConsumer) Consume(ctx context.Context, body io.ReadCloser, length int64, name string) error {
	defer func() {
		_ = body.Close()
		c.mu.Lock()
		c.closes++
		c.mu.Unlock()
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	limit := length
	failing := c.FailAfter >= 0 && c.FailAfter < length
	if failing {
		limit = c.FailAfter
	}

	var buf bytes.Buffer
	_, err := io.CopyN(&buf, body, limit)
	if err == nil && failing {
		err = c.Err
		if err == nil {
			err = ErrConsumerFailed
		}
	}

	c.mu.Lock()
	c.uploads = append(c.uploads, Upload{Name: name, Length: length, Data: buf.Bytes(), Err: err})
	c.mu.Unlock()
	return err
}

// Uploads returns all recorded calls.
func (c *RecordingConsumer) Uploads() []Upload {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Upload(nil), c.uploads...)
}

// Last returns the most recent call, or the zero Upload.
func (c *RecordingConsumer) Last() Upload {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.uploads) == 0 {
		return Upload{}
	}
	return c.uploads[len(c.uploads)-1]
}

// Closes returns how many bodies were closed.
func (c *RecordingConsumer) Closes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closes
}

// CountingBody is an io.ReadCloser over fixed bytes that counts Close calls.
type CountingBody struct {
	*bytes.Reader
	mu     sync.Mutex
	closes int
}

// NewCountingBody returns a body serving data.
func NewCountingBody(data []byte) *CountingBody {
	return &CountingBody{Reader: bytes.NewReader(data)}
}

// Close records the call.
func (b *CountingBody) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closes++
	return nil
}

// Closes returns how many times Close was called.
func (b *CountingBody) Closes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closes
}
