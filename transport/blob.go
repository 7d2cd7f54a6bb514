package transport

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
	"github.com/hupe1980/editkit/blobstore"
	"github.com/hupe1980/editkit/codec"
)

// NameFunc maps an uploaded file name to the blob name it is stored under.
type NameFunc func(name string) string

// SameName stores each upload under its file name, replacing the previous one.
func SameName(name string) string {
	return name
}

// UniqueName stores each upload under a fresh object below the file name.
func UniqueName(name string) string {
	return path.Join(name, uuid.NewString())
}

// BlobConsumer uploads into a blobstore.BlobStore.
type BlobConsumer struct {
	store     blobstore.BlobStore
	codec     codec.Codec
	naming    NameFunc
	revisions blobstore.RevisionLog
}

// BlobOption configures a BlobConsumer.
type BlobOption func(*BlobConsumer)

// WithCodec compresses uploads. The codec's extension is appended to the
// blob name. A nil codec is the same as codec.None.
func WithCodec(c codec.Codec) BlobOption {
	return func(b *BlobConsumer) {
		if c != nil {
			b.codec = c
		}
	}
}

// WithNaming sets how blob names are derived from file names.
func WithNaming(fn NameFunc) BlobOption {
	return func(b *BlobConsumer) {
		if fn != nil {
			b.naming = fn
		}
	}
}

// WithRevisionLog records every successful upload in log. Combine it with
// UniqueName: under SameName every revision points at the same, latest object.
func WithRevisionLog(log blobstore.RevisionLog) BlobOption {
	return func(b *BlobConsumer) {
		b.revisions = log
	}
}

// NewBlobConsumer creates a consumer writing to store.
func NewBlobConsumer(store blobstore.BlobStore, opts ...BlobOption) *BlobConsumer {
	b := &BlobConsumer{
		store:  store,
		codec:  codec.Default,
		naming: SameName,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Consume implements Consumer.
func (b *BlobConsumer) Consume(ctx context.Context, body io.ReadCloser, length int64, name string) (err error) {
	defer closeBody(body, &err)

	object := b.naming(name) + b.codec.Ext()
	src := newExactReader(body, length)

	var size int64
	if sp, ok := b.store.(blobstore.SizedPutter); ok && b.codec.Ext() == "" {
		if err := sp.PutReader(ctx, object, src, length); err != nil {
			if serr := src.Err(); serr != nil {
				err = serr
			}
			return fmt.Errorf("transport: put %s: %w", object, err)
		}
		size = length
	} else {
		size, err = b.write(ctx, object, src)
		if err != nil {
			return fmt.Errorf("transport: write %s: %w", object, err)
		}
	}

	if b.revisions != nil {
		if _, err := b.revisions.Commit(ctx, name, object, size); err != nil {
			return fmt.Errorf("transport: commit revision of %s: %w", name, err)
		}
	}
	return nil
}

// write streams src through the codec into a new blob and returns the
// number of stored bytes. The blob is aborted on any failure.
func (b *BlobConsumer) write(ctx context.Context, object string, src *exactReader) (int64, error) {
	w, err := b.store.Create(ctx, object)
	if err != nil {
		return 0, err
	}

	counter := &countingWriter{w: w}
	cw, err := b.codec.NewWriter(counter)
	if err != nil {
		_ = w.Abort()
		return 0, err
	}

	if _, err := io.Copy(cw, src); err != nil {
		_ = cw.Close()
		_ = w.Abort()
		return 0, err
	}
	if err := cw.Close(); err != nil {
		_ = w.Abort()
		return 0, err
	}
	if err := w.Close(); err != nil {
		return 0, err
	}
	return counter.n, nil
}
