package transport

import (
	"context"
	"io"

	"github.com/hupe1980/editkit/resource"
)

// Throttled limits next to the controller's upload slots and bandwidth.
// A nil controller returns next unchanged.
func Throttled(next Consumer, rc *resource.Controller) Consumer {
	if rc == nil {
		return next
	}
	return Func(func(ctx context.Context, body io.ReadCloser, length int64, name string) error {
		if err := rc.AcquireUpload(ctx); err != nil {
			_ = body.Close()
			return err
		}
		defer rc.ReleaseUpload()

		return next.Consume(ctx, &throttledBody{
			Reader: resource.NewRateLimitedReader(ctx, body, rc),
			Closer: body,
		}, length, name)
	})
}

type throttledBody struct {
	io.Reader
	io.Closer
}
