package store

import (
	"errors"
	"io"
	"os"

	"github.com/hupe1980/editkit/internal/fs"
)

// File is a ByteStore backed by a file.
type File struct {
	f             fs.File
	fsys          fs.FileSystem
	path          string
	mode          FlushMode
	deleteOnClose bool
	closed        bool
}

// OpenExisting opens the file at path for reading and writing.
// The file must already exist.
//
// If fsys is nil, fs.Default is used.
func OpenExisting(fsys fs.FileSystem, path string, mode FlushMode) (*File, error) {
	if fsys == nil {
		fsys = fs.Default
	}
	f, err := fsys.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	return &File{f: f, fsys: fsys, path: path, mode: mode}, nil
}

// CreateEphemeral creates a new, empty file at path with exclusive-create
// semantics. The file is removed when the store is closed.
//
// Removal is best effort: a process that dies without closing the store
// leaves the file behind, and the next CreateEphemeral at the same path
// fails with an error satisfying errors.Is(err, os.ErrExist).
func CreateEphemeral(fsys fs.FileSystem, path string) (*File, error) {
	if fsys == nil {
		fsys = fs.Default
	}
	f, err := fsys.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, err
	}
	return &File{f: f, fsys: fsys, path: path, deleteOnClose: true}, nil
}

// Path returns the backing path.
func (s *File) Path() string { return s.path }

func (s *File) Read(p []byte) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	return s.f.Read(p)
}

func (s *File) Write(p []byte) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	return s.f.Write(p)
}

func (s *File) Seek(offset int64, whence int) (int64, error) {
	if s.closed {
		return 0, ErrClosed
	}
	pos, err := s.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	length, err := s.Len()
	if err != nil {
		return 0, err
	}
	target, err := resolveSeek(offset, whence, pos, length)
	if err != nil {
		return pos, err
	}
	return s.f.Seek(target, io.SeekStart)
}

// Flush pushes written data to storage according to the store's FlushMode.
func (s *File) Flush() error {
	if s.closed {
		return ErrClosed
	}
	switch s.mode {
	case FlushSync:
		return s.f.Sync()
	case FlushDataSync:
		return fs.DataSync(s.f)
	default:
		return nil
	}
}

func (s *File) Len() (int64, error) {
	if s.closed {
		return 0, ErrClosed
	}
	info, err := s.f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (s *File) SetLen(n int64) error {
	if s.closed {
		return ErrClosed
	}
	if n < 0 {
		return ErrOutOfRange
	}
	pos, err := s.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	if err := s.f.Truncate(n); err != nil {
		return err
	}
	if pos > n {
		_, err = s.f.Seek(n, io.SeekStart)
	}
	return err
}

func (s *File) Position() (int64, error) {
	if s.closed {
		return 0, ErrClosed
	}
	return s.f.Seek(0, io.SeekCurrent)
}

func (s *File) SetPosition(pos int64) error {
	_, err := s.Seek(pos, io.SeekStart)
	return err
}

func (s *File) CanRead() bool  { return !s.closed }
func (s *File) CanWrite() bool { return !s.closed }
func (s *File) CanSeek() bool  { return !s.closed }

// Close releases the file handle. Ephemeral stores also remove their backing
// file, even when closing the handle failed. Close is idempotent.
func (s *File) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	err := s.f.Close()
	if s.deleteOnClose {
		if rmErr := s.fsys.Remove(s.path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			err = errors.Join(err, rmErr)
		}
	}
	return err
}
