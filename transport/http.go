package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"sync"
)

// DefaultBoundary is the multipart boundary used by HTTPConsumer.
const DefaultBoundary = "FileUpload"

// StatusError reports a non-2xx response from the upload endpoint.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("transport: upload rejected: %s", e.Status)
}

// HTTPConsumer posts the body as a single multipart/form-data file part.
type HTTPConsumer struct {
	client   *http.Client
	url      string
	field    string
	boundary string
}

// HTTPOption configures an HTTPConsumer.
type HTTPOption func(*HTTPConsumer)

// WithHTTPClient sets the client used for requests. A nil client is the same
// as http.DefaultClient.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTPConsumer) {
		if c != nil {
			h.client = c
		}
	}
}

// WithFieldName sets the form field name of the file part. Default: "file".
func WithFieldName(name string) HTTPOption {
	return func(h *HTTPConsumer) {
		h.field = name
	}
}

// WithBoundary sets the multipart boundary. Default: DefaultBoundary.
func WithBoundary(boundary string) HTTPOption {
	return func(h *HTTPConsumer) {
		h.boundary = boundary
	}
}

// NewHTTPConsumer creates a consumer posting to url.
func NewHTTPConsumer(url string, opts ...HTTPOption) *HTTPConsumer {
	h := &HTTPConsumer{
		client:   http.DefaultClient,
		url:      url,
		field:    "file",
		boundary: DefaultBoundary,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Consume implements Consumer. The request declares its full Content-Length,
// and the part declares the body length.
func (h *HTTPConsumer) Consume(ctx context.Context, body io.ReadCloser, length int64, name string) (err error) {
	defer closeBody(body, &err)

	head, tail, err := h.envelope(length, name)
	if err != nil {
		return err
	}

	src := newExactReader(body, length)
	reqBody := &notifyCloser{
		Reader: io.MultiReader(bytes.NewReader(head), src, bytes.NewReader(tail)),
		closed: make(chan struct{}),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, reqBody)
	if err != nil {
		return err
	}
	req.ContentLength = int64(len(head)) + length + int64(len(tail))
	req.Header.Set("Content-Type", "multipart/form-data; boundary="+h.boundary)

	resp, err := h.client.Do(req)
	// The transport may still be reading the request body; wait until it lets
	// go before the caller closes the body.
	<-reqBody.closed
	if serr := src.Err(); serr != nil {
		if resp != nil {
			_ = resp.Body.Close()
		}
		return serr
	}
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return nil
}

// envelope renders the multipart framing around a part of the given length.
func (h *HTTPConsumer) envelope(length int64, name string) (head, tail []byte, err error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.SetBoundary(h.boundary); err != nil {
		return nil, nil, err
	}

	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", contentDisposition(h.field, name))
	hdr.Set("Content-Type", "application/octet-stream")
	hdr.Set("Content-Length", strconv.FormatInt(length, 10))
	if _, err := mw.CreatePart(hdr); err != nil {
		return nil, nil, err
	}
	head = append([]byte(nil), buf.Bytes()...)

	buf.Reset()
	if err := mw.Close(); err != nil {
		return nil, nil, err
	}
	tail = append([]byte(nil), buf.Bytes()...)
	return head, tail, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func contentDisposition(field, filename string) string {
	return fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(filename))
}

// notifyCloser signals when the HTTP transport closes the request body.
type notifyCloser struct {
	io.Reader
	once   sync.Once
	closed chan struct{}
}

func (n *notifyCloser) Close() error {
	n.once.Do(func() { close(n.closed) })
	return nil
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
