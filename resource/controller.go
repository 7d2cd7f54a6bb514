// Package resource bounds the resources uploads may consume across sessions:
// the number of concurrent uploads and the upload bandwidth.
package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MaxConcurrentUploads is the maximum number of uploads in flight.
	// If 0, defaults to 1.
	MaxConcurrentUploads int64

	// UploadBytesPerSec is the maximum read throughput of uploads.
	// If 0, unlimited.
	UploadBytesPerSec int64
}

// Controller manages upload slots and upload bandwidth.
//
// A Controller is safe for concurrent use and is meant to be shared by all
// sessions of a process. A nil *Controller imposes no limits.
type Controller struct {
	cfg Config

	// Concurrency
	uploadSem *semaphore.Weighted
	inFlight  atomic.Int64

	// IO
	ioLimiter *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxConcurrentUploads <= 0 {
		cfg.MaxConcurrentUploads = 1
	}

	c := &Controller{
		cfg:       cfg,
		uploadSem: semaphore.NewWeighted(cfg.MaxConcurrentUploads),
	}

	if cfg.UploadBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.UploadBytesPerSec), int(cfg.UploadBytesPerSec))
	}

	return c
}

// AcquireUpload reserves an upload slot.
// Blocks if all slots are busy, until one frees up or ctx is canceled.
func (c *Controller) AcquireUpload(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if err := c.uploadSem.Acquire(ctx, 1); err != nil {
		return err
	}
	c.inFlight.Add(1)
	return nil
}

// TryAcquireUpload attempts to reserve an upload slot without blocking.
func (c *Controller) TryAcquireUpload() bool {
	if c == nil {
		return true
	}
	if !c.uploadSem.TryAcquire(1) {
		return false
	}
	c.inFlight.Add(1)
	return true
}

// ReleaseUpload releases an upload slot.
func (c *Controller) ReleaseUpload() {
	if c == nil {
		return
	}
	c.inFlight.Add(-1)
	c.uploadSem.Release(1)
}

// UploadsInFlight returns the number of currently held upload slots.
func (c *Controller) UploadsInFlight() int64 {
	if c == nil {
		return 0
	}
	return c.inFlight.Load()
}

// AcquireIO waits until the IO limit allows the specified number of bytes.
// n must not exceed Burst.
func (c *Controller) AcquireIO(ctx context.Context, n int) error {
	if c == nil || c.ioLimiter == nil {
		return nil
	}
	return c.ioLimiter.WaitN(ctx, n)
}

// Burst returns the largest n AcquireIO accepts, or 0 if IO is unlimited.
func (c *Controller) Burst() int {
	if c == nil || c.ioLimiter == nil {
		return 0
	}
	return c.ioLimiter.Burst()
}
