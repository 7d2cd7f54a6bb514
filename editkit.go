package editkit

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/google/uuid"
	"github.com/hupe1980/editkit/store"
	"github.com/hupe1980/editkit/stream"
	"github.com/hupe1980/editkit/transport"
	"golang.org/x/text/encoding"
)

// Session is an edit session over a single file.
//
// An open session owns two stores: a working store that collects lines
// written since Open, and the persisted store backed by the edited file.
// Save replaces the persisted content with the working content. Upload
// lends the persisted store to a transport.Consumer through a retaining
// stream.View, so the consumer may close what it is given without closing
// the file.
//
// A Session is not safe for concurrent use. Operations on one session must
// run strictly one after another.
type Session struct {
	opts   options
	logger *Logger

	id          string
	path        string
	workingPath string

	working   store.ByteStore
	persisted store.ByteStore
	encoder   *encoding.Encoder

	lines   uint32
	unsaved *roaring.Bitmap
}

// Stats is a snapshot of a session.
type Stats struct {
	ID             string
	Path           string
	WorkingPath    string
	Open           bool
	Lines          uint32
	Unsaved        uint64
	WorkingBytes   int64
	PersistedBytes int64

	// Err reports why a store size could not be read. The affected size
	// is zero.
	Err error
}

// New returns a closed session configured by opts.
func New(opts ...Option) *Session {
	o := applyOptions(opts)
	return &Session{
		opts:    o,
		logger:  o.logger,
		unsaved: roaring.New(),
	}
}

// Open returns a session opened on path.
//
// Example:
//
//	s, err := editkit.Open(ctx, "notes.txt")
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
func Open(ctx context.Context, path string, opts ...Option) (*Session, error) {
	s := New(opts...)
	if err := s.Open(ctx, path); err != nil {
		return nil, err
	}
	return s, nil
}

// Open creates the working store and opens the persisted file at path.
//
// The working store is created exclusively at WorkingPath and removed again
// on Close. If a file is already there, Open fails with
// ErrWorkingStoreCollision. The persisted file must exist; otherwise Open
// fails with ErrNotFound or ErrAccessDenied. On failure nothing is left open.
//
// Open on an open session fails with ErrAlreadyOpen and leaves the session
// untouched.
func (s *Session) Open(ctx context.Context, path string) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.IsOpen() {
		return opError("open", path, ErrAlreadyOpen)
	}

	start := time.Now()
	id := uuid.NewString()
	logger := s.opts.logger.WithSession(id)

	workingPath := ""
	if !s.opts.memoryWorking {
		workingPath = WorkingPath(s.opts.scratchDir, s.opts.workingPrefix, path)
	}

	defer func() {
		s.opts.metricsCollector.RecordOpen(time.Since(start), err)
		logger.LogOpen(ctx, path, workingPath, err)
	}()

	var working store.ByteStore
	if s.opts.memoryWorking {
		working = store.NewMemory(nil)
	} else {
		f, err := store.CreateEphemeral(s.opts.fsys, workingPath)
		if err != nil {
			return opError("open", path, translateWorkingError(err))
		}
		working = f
	}

	persisted, err := store.OpenExisting(s.opts.fsys, path, s.opts.flushMode)
	if err != nil {
		return opError("open", path, errors.Join(translateError(err), working.Close()))
	}

	s.id = id
	s.logger = logger
	s.path = path
	s.workingPath = workingPath
	s.working = working
	s.persisted = persisted
	s.encoder = s.opts.encoding.NewEncoder()
	s.lines = 0
	s.unsaved.Clear()
	return nil
}

// WriteLine appends text and the line terminator to the working store.
func (s *Session) WriteLine(ctx context.Context, text string) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.IsOpen() {
		return opError("write", s.path, ErrNotOpen)
	}

	start := time.Now()
	var n int
	defer func() {
		s.opts.metricsCollector.RecordWrite(n, time.Since(start), err)
		s.logger.LogWrite(ctx, s.lines, n, err)
	}()

	data, err := s.encoder.Bytes([]byte(text + s.opts.lineEnding))
	if err != nil {
		return opError("write", s.path, err)
	}

	n, err = s.working.Write(data)
	if err != nil {
		return opError("write", s.path, err)
	}

	s.lines++
	s.unsaved.Add(s.lines)
	return nil
}

// Save replaces the persisted content with the full working content and
// flushes the persisted store. The working store's position is restored
// afterwards, so later writes keep appending. Saving twice without writes
// in between produces identical content.
func (s *Session) Save(ctx context.Context) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.IsOpen() {
		return opError("save", s.path, ErrNotOpen)
	}

	start := time.Now()
	var n int64
	defer func() {
		s.opts.metricsCollector.RecordSave(n, time.Since(start), err)
		s.logger.LogSave(ctx, n, err)
	}()

	pos, err := s.working.Position()
	if err != nil {
		return opError("save", s.path, err)
	}
	defer func() {
		if perr := s.working.SetPosition(pos); perr != nil && err == nil {
			err = opError("save", s.path, perr)
		}
	}()

	if err := s.persisted.SetLen(0); err != nil {
		return opError("save", s.path, err)
	}
	if err := s.persisted.SetPosition(0); err != nil {
		return opError("save", s.path, err)
	}
	if err := s.working.SetPosition(0); err != nil {
		return opError("save", s.path, err)
	}

	n, err = io.Copy(s.persisted, s.working)
	if err != nil {
		return opError("save", s.path, err)
	}
	if err := s.persisted.Flush(); err != nil {
		return opError("save", s.path, err)
	}

	s.unsaved.Clear()
	return nil
}

// Upload hands the persisted content to consumer.
//
// The persisted store is rewound to the start and wrapped in a retaining
// stream.View. The consumer receives the view, the persisted length and
// the file's base name. Whatever the consumer does with the view, the
// persisted store stays open; its position is left where the consumer
// stopped reading.
//
// If a resource controller is configured, the upload waits for a free
// upload slot and its reads are rate limited.
func (s *Session) Upload(ctx context.Context, consumer transport.Consumer) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.IsOpen() {
		return opError("upload", s.path, ErrNotOpen)
	}

	start := time.Now()
	name := s.Name()
	var length int64
	defer func() {
		s.opts.metricsCollector.RecordUpload(length, time.Since(start), err)
		s.logger.LogUpload(ctx, name, length, err)
	}()

	length, err = s.persisted.Len()
	if err != nil {
		return opError("upload", s.path, err)
	}
	if err := s.persisted.SetPosition(0); err != nil {
		return opError("upload", s.path, err)
	}

	view := stream.NewView(s.persisted, true)
	defer func() { _ = view.Release() }()

	if err := transport.Throttled(consumer, s.opts.controller).Consume(ctx, view, length, name); err != nil {
		return opError("upload", s.path, err)
	}
	return nil
}

// Preview returns the persisted content as text. The persisted store stays
// open and is left positioned at its end.
func (s *Session) Preview(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !s.IsOpen() {
		return "", opError("preview", s.path, ErrNotOpen)
	}

	if err := s.persisted.SetPosition(0); err != nil {
		return "", opError("preview", s.path, err)
	}
	raw, err := io.ReadAll(s.persisted)
	if err != nil {
		return "", opError("preview", s.path, err)
	}
	text, err := s.opts.encoding.NewDecoder().Bytes(raw)
	if err != nil {
		return "", opError("preview", s.path, err)
	}
	return string(text), nil
}

// Close releases the persisted store and then the working store, removing
// the working file. Close on a nil or closed session is a no-op, so it can
// be deferred unconditionally.
func (s *Session) Close() error {
	if s == nil || !s.IsOpen() {
		return nil
	}

	err := errors.Join(s.persisted.Close(), s.working.Close())
	s.persisted = nil
	s.working = nil
	s.encoder = nil

	s.logger.LogClose(context.Background(), err)
	return opError("close", s.path, err)
}

// IsOpen reports whether the session is open.
func (s *Session) IsOpen() bool {
	return s.persisted != nil && s.working != nil
}

// ID returns the identifier of the current or last open, or "".
func (s *Session) ID() string { return s.id }

// Path returns the persisted file's path.
func (s *Session) Path() string { return s.path }

// Name returns the persisted file's base name.
func (s *Session) Name() string {
	if s.path == "" {
		return ""
	}
	return filepath.Base(s.path)
}

// WorkingPath returns the working file's path, or "" for an in-memory
// working store.
func (s *Session) WorkingPath() string { return s.workingPath }

// Unsaved returns the number of lines written since the last Save.
func (s *Session) Unsaved() uint64 { return s.unsaved.GetCardinality() }

// UnsavedLines returns the 1-based numbers of lines written since the last
// Save, in ascending order.
func (s *Session) UnsavedLines() []uint32 { return s.unsaved.ToArray() }

// Stats returns a snapshot of the session. Store sizes are zero when closed
// and when reading them fails; Err holds the failure.
func (s *Session) Stats() Stats {
	st := Stats{
		ID:          s.id,
		Path:        s.path,
		WorkingPath: s.workingPath,
		Open:        s.IsOpen(),
		Lines:       s.lines,
		Unsaved:     s.Unsaved(),
	}
	if st.Open {
		var werr, perr error
		if st.WorkingBytes, werr = s.working.Len(); werr != nil {
			st.WorkingBytes = 0
		}
		if st.PersistedBytes, perr = s.persisted.Len(); perr != nil {
			st.PersistedBytes = 0
		}
		st.Err = errors.Join(werr, perr)
	}
	return st
}
