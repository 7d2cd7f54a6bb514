package editkit

import (
	"errors"
	"fmt"
	iofs "io/fs"

	"github.com/hupe1980/editkit/stream"
)

var (
	// ErrAlreadyOpen is returned by Open when the session is already open.
	ErrAlreadyOpen = errors.New("session already open")

	// ErrNotOpen is returned by operations that require an open session.
	ErrNotOpen = errors.New("session not open")

	// ErrNotFound is returned when the persisted file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrAccessDenied is returned when the persisted file or the scratch
	// location cannot be opened due to permissions.
	ErrAccessDenied = errors.New("access denied")

	// ErrWorkingStoreCollision is returned when a file already exists at the
	// working store's location, e.g. left behind by a crashed process or held
	// by another session editing the same file.
	ErrWorkingStoreCollision = errors.New("working store already exists")

	// ErrViewReleased is returned by operations on a released stream view.
	ErrViewReleased = stream.ErrViewReleased
)

// OpError records a failed session operation together with the file it
// was performed on.
//
// Both the taxonomy sentinel (e.g. ErrNotFound) and the underlying cause
// are reachable via errors.Is / errors.As.
type OpError struct {
	Op   string
	Path string
	Err  error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("editkit: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

func opError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Path: path, Err: err}
}

// translateError maps filesystem errors onto the session error taxonomy.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, iofs.ErrNotExist):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, iofs.ErrPermission):
		return fmt.Errorf("%w: %w", ErrAccessDenied, err)
	}

	return err
}

// translateWorkingError is translateError for working store creation, where
// an existing file means a collision rather than success.
func translateWorkingError(err error) error {
	if errors.Is(err, iofs.ErrExist) {
		return fmt.Errorf("%w: %w", ErrWorkingStoreCollision, err)
	}
	return translateError(err)
}
