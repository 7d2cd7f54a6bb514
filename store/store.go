package store

import (
	"errors"
	"io"
)

var (
	// ErrClosed is returned by any operation on a closed store.
	ErrClosed = errors.New("store: closed")

	// ErrOutOfRange is returned when a position or length falls outside the valid range.
	ErrOutOfRange = errors.New("store: position out of range")
)

// ByteStore is a seekable, random-access byte container with an explicit
// length and position.
type ByteStore interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer

	// Flush commits buffered writes to the backing storage.
	Flush() error

	// Len returns the current length in bytes.
	Len() (int64, error)

	// SetLen truncates or zero-extends the store to n bytes.
	SetLen(n int64) error

	// Position returns the current read/write offset.
	Position() (int64, error)

	// SetPosition moves the read/write offset to pos.
	SetPosition(pos int64) error

	CanRead() bool
	CanWrite() bool
	CanSeek() bool
}

// FlushMode controls how far Flush pushes data towards stable storage.
type FlushMode int

const (
	// FlushNone hands writes to the operating system only.
	FlushNone FlushMode = iota

	// FlushSync calls fsync, persisting data and metadata.
	FlushSync

	// FlushDataSync calls fdatasync where available, persisting data only.
	FlushDataSync
)

// String implements fmt.Stringer.
func (m FlushMode) String() string {
	switch m {
	case FlushNone:
		return "none"
	case FlushSync:
		return "sync"
	case FlushDataSync:
		return "datasync"
	default:
		return "unknown"
	}
}

// ParseFlushMode parses the names returned by FlushMode.String.
func ParseFlushMode(s string) (FlushMode, error) {
	switch s {
	case "none":
		return FlushNone, nil
	case "", "datasync":
		return FlushDataSync, nil
	case "sync":
		return FlushSync, nil
	default:
		return FlushNone, errors.New("store: unknown flush mode " + s)
	}
}

// resolveSeek computes the absolute target of a seek and checks it against [0, length].
func resolveSeek(offset int64, whence int, pos, length int64) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = pos + offset
	case io.SeekEnd:
		target = length + offset
	default:
		return 0, errors.New("store: invalid whence")
	}
	if target < 0 || target > length {
		return 0, ErrOutOfRange
	}
	return target, nil
}
