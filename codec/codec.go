// Package codec centralizes the stream compression applied to archived uploads.
//
// Codec selection is part of the stored object's name (see Codec.Ext), so an
// archive can always be decoded with the codec it was written with.
package codec

import (
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec wraps writers and readers with a compression format.
// Implementations must be safe for concurrent use.
type Codec interface {
	// NewWriter returns a writer compressing into w. Closing it flushes the
	// stream but does not close w.
	NewWriter(w io.Writer) (io.WriteCloser, error)

	// NewReader returns a reader decompressing r.
	NewReader(r io.Reader) (io.ReadCloser, error)

	// Name returns the stable codec name.
	Name() string

	// Ext returns the file name extension for the format, including the dot,
	// or "" for None.
	Ext() string
}

// Default is the codec used when none is configured.
var Default Codec = None{}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "", "none":
		return None{}, true
	case "lz4":
		return LZ4{}, true
	case "zstd":
		return Zstd{}, true
	default:
		return nil, false
	}
}

// ByExt returns the codec an object was written with, judged by the
// extension of its name. Names without a known extension decode as None.
func ByExt(object string) Codec {
	for _, c := range []Codec{LZ4{}, Zstd{}} {
		if strings.HasSuffix(object, c.Ext()) {
			return c
		}
	}
	return None{}
}

// None passes data through unchanged.
type None struct{}

func (None) NewWriter(w io.Writer) (io.WriteCloser, error) { return nopWriteCloser{w}, nil }
func (None) NewReader(r io.Reader) (io.ReadCloser, error)  { return io.NopCloser(r), nil }
func (None) Name() string                                  { return "none" }
func (None) Ext() string                                   { return "" }

// LZ4 is the LZ4 frame format (fast, good for interactive uploads).
type LZ4 struct{}

func (LZ4) NewWriter(w io.Writer) (io.WriteCloser, error) { return lz4.NewWriter(w), nil }
func (LZ4) NewReader(r io.Reader) (io.ReadCloser, error)  { return io.NopCloser(lz4.NewReader(r)), nil }
func (LZ4) Name() string                                  { return "lz4" }
func (LZ4) Ext() string                                   { return ".lz4" }

// Zstd is the Zstandard format (better ratio, good for archives).
type Zstd struct {
	// Level is the encoder level. Zero means zstd.SpeedDefault.
	Level zstd.EncoderLevel
}

func (z Zstd) NewWriter(w io.Writer) (io.WriteCloser, error) {
	level := z.Level
	if level == 0 {
		level = zstd.SpeedDefault
	}
	return zstd.NewWriter(w, zstd.WithEncoderLevel(level))
}

func (Zstd) NewReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return dec.IOReadCloser(), nil
}

func (Zstd) Name() string { return "zstd" }
func (Zstd) Ext() string  { return ".zst" }

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
