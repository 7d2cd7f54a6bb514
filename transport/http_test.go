package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hupe1980/editkit/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type receivedPart struct {
	contentType   string
	boundary      string
	contentLength int64
	fieldName     string
	fileName      string
	partType      string
	partLength    string
	data          string
	parts         int
}

func newUploadServer(t *testing.T, status int) (*httptest.Server, *receivedPart) {
	t.Helper()

	got := &receivedPart{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.contentType = r.Header.Get("Content-Type")
		got.contentLength = r.ContentLength

		mr, err := r.MultipartReader()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			got.parts++
			got.fieldName = part.FormName()
			got.fileName = part.FileName()
			got.partType = part.Header.Get("Content-Type")
			got.partLength = part.Header.Get("Content-Length")
			data, _ := io.ReadAll(part)
			got.data = string(data)
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func TestHTTPConsumer_Success(t *testing.T) {
	srv, got := newUploadServer(t, http.StatusOK)
	consumer := NewHTTPConsumer(srv.URL + "/api/upload")
	body := testutil.NewCountingBody([]byte("foo\nbar\n"))

	err := consumer.Consume(context.Background(), body, 8, "notes.txt")
	require.NoError(t, err)

	assert.Equal(t, 1, body.Closes())
	assert.Equal(t, "multipart/form-data; boundary=FileUpload", got.contentType)
	assert.Greater(t, got.contentLength, int64(8))
	assert.Equal(t, 1, got.parts)
	assert.Equal(t, "file", got.fieldName)
	assert.Equal(t, "notes.txt", got.fileName)
	assert.Equal(t, "application/octet-stream", got.partType)
	assert.Equal(t, "8", got.partLength)
	assert.Equal(t, "foo\nbar\n", got.data)
}

func TestHTTPConsumer_ReadsOnlyDeclaredLength(t *testing.T) {
	srv, got := newUploadServer(t, http.StatusOK)
	consumer := NewHTTPConsumer(srv.URL, WithFieldName("upload"), WithHTTPClient(srv.Client()))
	body := testutil.NewCountingBody([]byte("foo\nbar\nignored"))

	require.NoError(t, consumer.Consume(context.Background(), body, 8, "notes.txt"))
	assert.Equal(t, "upload", got.fieldName)
	assert.Equal(t, "foo\nbar\n", got.data)
}

func TestHTTPConsumer_StatusError(t *testing.T) {
	srv, _ := newUploadServer(t, http.StatusInternalServerError)
	consumer := NewHTTPConsumer(srv.URL)
	body := testutil.NewCountingBody([]byte("foo\n"))

	err := consumer.Consume(context.Background(), body, 4, "notes.txt")
	require.Error(t, err)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.True(t, IsStatus(err, http.StatusInternalServerError))
	assert.Equal(t, 1, body.Closes())
}

func TestHTTPConsumer_ShortBody(t *testing.T) {
	srv, _ := newUploadServer(t, http.StatusOK)
	consumer := NewHTTPConsumer(srv.URL)
	body := testutil.NewCountingBody([]byte("foo"))

	err := consumer.Consume(context.Background(), body, 8, "notes.txt")
	require.ErrorIs(t, err, ErrShortBody)
	assert.Equal(t, 1, body.Closes())
}

func TestHTTPConsumer_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	consumer := NewHTTPConsumer(url)
	body := testutil.NewCountingBody([]byte("foo\n"))

	err := consumer.Consume(context.Background(), body, 4, "notes.txt")
	require.Error(t, err)
	assert.Equal(t, 1, body.Closes())
}

func TestHTTPConsumer_FileNameEscaping(t *testing.T) {
	srv, got := newUploadServer(t, http.StatusOK)
	consumer := NewHTTPConsumer(srv.URL)

	require.NoError(t, consumer.Consume(context.Background(), testutil.NewCountingBody([]byte("x")), 1, `we"ird.txt`))
	assert.Equal(t, `we"ird.txt`, got.fileName)
}
