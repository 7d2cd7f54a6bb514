package blobstore

import (
	"context"
	"sync"
	"time"
)

// Revision describes one uploaded version of a file.
type Revision struct {
	Name    string
	Version uint64
	Object  string
	Size    int64
	Time    time.Time
}

// RevisionLog records the objects uploaded for each file name.
// Versions start at 1 and increase by one per commit.
type RevisionLog interface {
	// Commit records object as the next revision of name and returns its version.
	Commit(ctx context.Context, name, object string, size int64) (uint64, error)
	// Latest returns the newest revision of name, or ErrNotFound.
	Latest(ctx context.Context, name string) (Revision, error)
}

// MemoryRevisionLog is an in-process RevisionLog.
type MemoryRevisionLog struct {
	mu   sync.Mutex
	revs map[string][]Revision
	now  func() time.Time
}

// NewMemoryRevisionLog creates an empty revision log.
func NewMemoryRevisionLog() *MemoryRevisionLog {
	return &MemoryRevisionLog{
		revs: make(map[string][]Revision),
		now:  time.Now,
	}
}

// Commit implements RevisionLog.
func (l *MemoryRevisionLog) Commit(ctx context.Context, name, object string, size int64) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	version := uint64(len(l.revs[name])) + 1
	l.revs[name] = append(l.revs[name], Revision{
		Name:    name,
		Version: version,
		Object:  object,
		Size:    size,
		Time:    l.now(),
	})
	return version, nil
}

// Latest implements RevisionLog.
func (l *MemoryRevisionLog) Latest(_ context.Context, name string) (Revision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	revs := l.revs[name]
	if len(revs) == 0 {
		return Revision{}, ErrNotFound
	}
	return revs[len(revs)-1], nil
}

// History returns every revision of name, oldest first.
func (l *MemoryRevisionLog) History(name string) []Revision {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]Revision(nil), l.revs[name]...)
}
