package editkit

import (
	"log/slog"

	"github.com/hupe1980/editkit/internal/fs"
	"github.com/hupe1980/editkit/resource"
	"github.com/hupe1980/editkit/store"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

type options struct {
	fsys             fs.FileSystem
	scratchDir       string
	workingPrefix    string
	memoryWorking    bool
	lineEnding       string
	encoding         encoding.Encoding
	flushMode        store.FlushMode
	controller       *resource.Controller
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures a Session.
type Option func(*options)

// WithFileSystem sets the filesystem used for both stores.
//
// If nil is passed, the local filesystem is used.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		if fsys == nil {
			fsys = fs.Default
		}
		o.fsys = fsys
	}
}

// WithScratchDir places the working store in dir instead of next to the
// persisted file.
func WithScratchDir(dir string) Option {
	return func(o *options) {
		o.scratchDir = dir
	}
}

// WithWorkingPrefix sets the marker prepended to the persisted file's base
// name to name the working store. An empty prefix keeps DefaultWorkingPrefix.
func WithWorkingPrefix(prefix string) Option {
	return func(o *options) {
		if prefix != "" {
			o.workingPrefix = prefix
		}
	}
}

// WithMemoryWorkingStore keeps the working store in memory instead of a
// scratch file. No file is created, so no collision check takes place.
func WithMemoryWorkingStore() Option {
	return func(o *options) {
		o.memoryWorking = true
	}
}

// WithLineEnding sets the terminator appended by WriteLine. Default: "\n".
func WithLineEnding(eol string) Option {
	return func(o *options) {
		o.lineEnding = eol
	}
}

// WithEncoding sets the text encoding used by WriteLine and Preview.
//
// If nil is passed, UTF-8 is used.
//
// Example:
//
//	enc, _ := editkit.EncodingByName("utf-16le")
//	s, _ := editkit.Open(ctx, "notes.txt", editkit.WithEncoding(enc))
func WithEncoding(enc encoding.Encoding) Option {
	return func(o *options) {
		if enc == nil {
			enc = unicode.UTF8
		}
		o.encoding = enc
	}
}

// WithFlushMode sets how Save flushes the persisted store.
// Default: store.FlushDataSync.
func WithFlushMode(mode store.FlushMode) Option {
	return func(o *options) {
		o.flushMode = mode
	}
}

// WithResourceController throttles uploads through rc: each Upload takes an
// upload slot and its reads are rate limited.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &editkit.BasicMetricsCollector{}
//	s, _ := editkit.Open(ctx, "notes.txt", editkit.WithMetricsCollector(metrics))
//	// ... use s ...
//	stats := metrics.GetStats()
//	fmt.Printf("Saves: %d, Avg latency: %dns\n", stats.SaveCount, stats.SaveAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := editkit.NewJSONLogger(slog.LevelInfo)
//	s, _ := editkit.Open(ctx, "notes.txt", editkit.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		fsys:             fs.Default,
		workingPrefix:    DefaultWorkingPrefix,
		lineEnding:       "\n",
		encoding:         unicode.UTF8,
		flushMode:        store.FlushDataSync,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
