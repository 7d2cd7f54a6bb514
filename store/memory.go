package store

import "io"

// Memory is an in-memory ByteStore.
type Memory struct {
	buf    []byte
	pos    int64
	closed bool
}

// NewMemory creates a Memory store holding a copy of data, positioned at 0.
func NewMemory(data []byte) *Memory {
	return &Memory{buf: append([]byte(nil), data...)}
}

// Bytes returns a copy of the store's content.
func (m *Memory) Bytes() []byte {
	return append([]byte(nil), m.buf...)
}

func (m *Memory) Read(p []byte) (int, error) {
	if m.closed {
		return 0, ErrClosed
	}
	if len(p) == 0 {
		return 0, nil
	}
	if m.pos >= int64(len(m.buf)) {
		return 0, io.EOF
	}
	n := copy(p, m.buf[m.pos:])
	m.pos += int64(n)
	return n, nil
}

func (m *Memory) Write(p []byte) (int, error) {
	if m.closed {
		return 0, ErrClosed
	}
	end := m.pos + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	copy(m.buf[m.pos:], p)
	m.pos = end
	return len(p), nil
}

func (m *Memory) Seek(offset int64, whence int) (int64, error) {
	if m.closed {
		return 0, ErrClosed
	}
	target, err := resolveSeek(offset, whence, m.pos, int64(len(m.buf)))
	if err != nil {
		return m.pos, err
	}
	m.pos = target
	return m.pos, nil
}

func (m *Memory) Flush() error {
	if m.closed {
		return ErrClosed
	}
	return nil
}

func (m *Memory) Len() (int64, error) {
	if m.closed {
		return 0, ErrClosed
	}
	return int64(len(m.buf)), nil
}

func (m *Memory) SetLen(n int64) error {
	if m.closed {
		return ErrClosed
	}
	if n < 0 {
		return ErrOutOfRange
	}
	if n <= int64(len(m.buf)) {
		m.buf = m.buf[:n]
	} else {
		grown := make([]byte, n)
		copy(grown, m.buf)
		m.buf = grown
	}
	if m.pos > n {
		m.pos = n
	}
	return nil
}

func (m *Memory) Position() (int64, error) {
	if m.closed {
		return 0, ErrClosed
	}
	return m.pos, nil
}

func (m *Memory) SetPosition(pos int64) error {
	_, err := m.Seek(pos, io.SeekStart)
	return err
}

func (m *Memory) CanRead() bool  { return !m.closed }
func (m *Memory) CanWrite() bool { return !m.closed }
func (m *Memory) CanSeek() bool  { return !m.closed }

// Close marks the store closed and drops its content. Close is idempotent.
func (m *Memory) Close() error {
	m.closed = true
	m.buf = nil
	return nil
}
