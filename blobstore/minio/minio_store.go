package minio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/hupe1980/editkit/blobstore"
	"github.com/minio/minio-go/v7"
)

// DefaultContentType is attached to every uploaded object.
const DefaultContentType = "application/octet-stream"

// errAborted terminates the upload pipe when a blob is aborted.
var errAborted = errors.New("minio: upload aborted")

// Option configures a Store.
type Option func(*Store)

// WithContentType sets the content type of uploaded objects.
func WithContentType(contentType string) Option {
	return func(s *Store) {
		if contentType != "" {
			s.contentType = contentType
		}
	}
}

// WithPartSize sets the multipart part size used for uploads of unknown
// length. Zero keeps the client default.
func WithPartSize(size uint64) Option {
	return func(s *Store) {
		s.partSize = size
	}
}

// WithUserMetadata attaches x-amz-meta-* headers to every uploaded object.
func WithUserMetadata(meta map[string]string) Option {
	return func(s *Store) {
		s.meta = meta
	}
}

// Store implements blobstore.BlobStore for MinIO and S3-compatible storage.
type Store struct {
	client *minio.Client
	bucket string
	prefix string

	contentType string
	partSize    uint64
	meta        map[string]string
}

var (
	_ blobstore.BlobStore   = (*Store)(nil)
	_ blobstore.SizedPutter = (*Store)(nil)
)

// NewStore creates a MinIO blob store. rootPrefix is prepended to all keys
// (e.g. "uploads/").
func NewStore(client *minio.Client, bucket, rootPrefix string, opts ...Option) *Store {
	s := &Store{
		client:      client,
		bucket:      bucket,
		prefix:      rootPrefix,
		contentType: DefaultContentType,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(name string) string {
	return path.Join(s.prefix, name)
}

func (s *Store) putOptions() minio.PutObjectOptions {
	return minio.PutObjectOptions{
		ContentType:  s.contentType,
		PartSize:     s.partSize,
		UserMetadata: s.meta,
	}
}

// Open stats the object and returns a ranged reader over it.
func (s *Store) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	key := s.key(name)

	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return nil, blobstore.ErrNotFound
		}
		return nil, err
	}

	return &minioBlob{
		client: s.client,
		bucket: s.bucket,
		key:    key,
		size:   info.Size,
	}, nil
}

// Put uploads data in a single request.
func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	return s.PutReader(ctx, name, bytes.NewReader(data), int64(len(data)))
}

// PutReader uploads exactly size bytes from r. A known size lets the client
// pick its part size without buffering the whole stream.
func (s *Store) PutReader(ctx context.Context, name string, r io.Reader, size int64) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.key(name), io.LimitReader(r, size), size, s.putOptions())
	return err
}

// Create starts a multipart upload of unknown length. The object appears on
// Close; Abort cancels the upload and no object is created.
func (s *Store) Create(ctx context.Context, name string) (blobstore.WritableBlob, error) {
	pr, pw := io.Pipe()

	blob := &minioWritableBlob{
		pw:   pw,
		done: make(chan error, 1),
	}

	go func() {
		_, err := s.client.PutObject(ctx, s.bucket, s.key(name), pr, -1, s.putOptions())
		_ = pr.CloseWithError(err)
		blob.done <- err
	}()

	return blob, nil
}

// Delete removes a blob. Deleting a missing blob is not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	err := s.client.RemoveObject(ctx, s.bucket, s.key(name), minio.RemoveObjectOptions{})
	if err != nil && !isNotFound(err) {
		return err
	}
	return nil
}

// List returns the sorted names of all blobs under prefix.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    s.key(prefix),
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		name := strings.TrimPrefix(strings.TrimPrefix(obj.Key, s.prefix), "/")
		if name != "" {
			names = append(names, name)
		}
	}

	sort.Strings(names)
	return names, nil
}

func isNotFound(err error) bool {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NotFound":
		return true
	}
	return false
}

// minioBlob implements blobstore.Blob with ranged GETs.
type minioBlob struct {
	client *minio.Client
	bucket string
	key    string
	size   int64
}

func (b *minioBlob) Size() int64 { return b.size }

func (b *minioBlob) Close() error { return nil }

// get fetches [off, off+length) clamped to the object size.
func (b *minioBlob) get(ctx context.Context, off, length int64) (*minio.Object, int64, error) {
	if off >= b.size || length <= 0 {
		return nil, 0, io.EOF
	}
	end := min(off+length, b.size)

	opts := minio.GetObjectOptions{}
	if err := opts.SetRange(off, end-1); err != nil {
		return nil, 0, err
	}
	obj, err := b.client.GetObject(ctx, b.bucket, b.key, opts)
	if err != nil {
		return nil, 0, err
	}
	return obj, end - off, nil
}

func (b *minioBlob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	obj, _, err := b.get(ctx, off, length)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// minioWritableBlob feeds a background PutObject through a pipe.
type minioWritableBlob struct {
	pw       *io.PipeWriter
	done     chan error
	finished atomic.Bool
}

func (b *minioWritableBlob) Write(p []byte) (int, error) {
	if b.finished.Load() {
		return 0, io.ErrClosedPipe
	}
	return b.pw.Write(p)
}

func (b *minioWritableBlob) Close() error {
	if !b.finished.CompareAndSwap(false, true) {
		return errors.New("minio: blob already closed")
	}
	if err := b.pw.Close(); err != nil {
		return err
	}
	return <-b.done
}

func (b *minioWritableBlob) Abort() error {
	if !b.finished.CompareAndSwap(false, true) {
		return nil
	}
	_ = b.pw.CloseWithError(errAborted)
	<-b.done
	return nil
}
