package stream

import (
	"errors"
	"io"
	"sync/atomic"

	"github.com/hupe1980/editkit/store"
)

// ErrViewReleased is returned by every operation on a released View.
var ErrViewReleased = errors.New("stream: view already released")

// View forwards all byte operations to an inner store.ByteStore. Whether
// releasing the view also closes the inner store is decided by retain.
type View struct {
	inner    store.ByteStore
	retain   bool
	released atomic.Bool
}

var (
	_ store.ByteStore = (*View)(nil)
	_ io.ReadSeekCloser = (*View)(nil)
)

// NewView wraps inner. If retain is true, inner stays open after the view is
// released; otherwise Release closes inner as well.
func NewView(inner store.ByteStore, retain bool) *View {
	return &View{inner: inner, retain: retain}
}

// Retains reports whether releasing the view leaves the inner store open.
func (v *View) Retains() bool { return v.retain }

// Released reports whether Release has been called.
func (v *View) Released() bool { return v.released.Load() }

// Release makes the view unusable. The inner store is closed iff retain is
// false. Releasing an already released view is a no-op.
func (v *View) Release() error {
	if !v.released.CompareAndSwap(false, true) {
		return nil
	}
	if v.retain {
		return nil
	}
	return v.inner.Close()
}

// Close is Release, so that consumers following the io.Closer convention
// release the view rather than the store behind it.
func (v *View) Close() error { return v.Release() }

func (v *View) Read(p []byte) (int, error) {
	if v.released.Load() {
		return 0, ErrViewReleased
	}
	return v.inner.Read(p)
}

func (v *View) Write(p []byte) (int, error) {
	if v.released.Load() {
		return 0, ErrViewReleased
	}
	return v.inner.Write(p)
}

func (v *View) Seek(offset int64, whence int) (int64, error) {
	if v.released.Load() {
		return 0, ErrViewReleased
	}
	return v.inner.Seek(offset, whence)
}

func (v *View) Flush() error {
	if v.released.Load() {
		return ErrViewReleased
	}
	return v.inner.Flush()
}

func (v *View) Len() (int64, error) {
	if v.released.Load() {
		return 0, ErrViewReleased
	}
	return v.inner.Len()
}

func (v *View) SetLen(n int64) error {
	if v.released.Load() {
		return ErrViewReleased
	}
	return v.inner.SetLen(n)
}

func (v *View) Position() (int64, error) {
	if v.released.Load() {
		return 0, ErrViewReleased
	}
	return v.inner.Position()
}

func (v *View) SetPosition(pos int64) error {
	if v.released.Load() {
		return ErrViewReleased
	}
	return v.inner.SetPosition(pos)
}

// CanRead reports false once the view is released.
func (v *View) CanRead() bool { return !v.released.Load() && v.inner.CanRead() }

// CanWrite reports false once the view is released.
func (v *View) CanWrite() bool { return !v.released.Load() && v.inner.CanWrite() }

// CanSeek reports false once the view is released.
func (v *View) CanSeek() bool { return !v.released.Load() && v.inner.CanSeek() }
