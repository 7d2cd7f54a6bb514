package transport

import (
	"context"
	"errors"
	"io"
)

// ErrShortBody is returned when the body ends before the declared length.
var ErrShortBody = errors.New("transport: body shorter than declared length")

// Consumer uploads a body of known length.
//
// Consume reads exactly length bytes from body, starting at its current
// position, and closes body exactly once before returning.
type Consumer interface {
	Consume(ctx context.Context, body io.ReadCloser, length int64, name string) error
}

// Func adapts a function to the Consumer interface.
type Func func(ctx context.Context, body io.ReadCloser, length int64, name string) error

// Consume calls f.
func (f Func) Consume(ctx context.Context, body io.ReadCloser, length int64, name string) error {
	return f(ctx, body, length, name)
}

// closeBody closes body and folds its error into *errp.
func closeBody(body io.Closer, errp *error) {
	if cerr := body.Close(); cerr != nil && *errp == nil {
		*errp = cerr
	}
}

// exactReader yields exactly n bytes of r and reports ErrShortBody if r ends
// early.
type exactReader struct {
	r         io.Reader
	remaining int64
	err       error
}

func newExactReader(r io.Reader, n int64) *exactReader {
	return &exactReader{r: r, remaining: n}
}

func (e *exactReader) Read(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	if e.remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > e.remaining {
		p = p[:e.remaining]
	}
	n, err := e.r.Read(p)
	e.remaining -= int64(n)
	if errors.Is(err, io.EOF) {
		if e.remaining > 0 {
			e.err = ErrShortBody
			return n, e.err
		}
		return n, io.EOF
	}
	if err != nil {
		e.err = err
	}
	return n, err
}

// Err returns the first read error other than io.EOF.
func (e *exactReader) Err() error {
	return e.err
}

// countingWriter counts bytes written through it.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
