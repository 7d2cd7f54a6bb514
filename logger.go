package editkit

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with editkit-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithSession adds a session ID field to the logger.
func (l *Logger) WithSession(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("session", id),
	}
}

// LogOpen logs a session open.
func (l *Logger) LogOpen(ctx context.Context, path, workingPath string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "open failed",
			"path", path,
			"working_path", workingPath,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "session opened",
			"path", path,
			"working_path", workingPath,
		)
	}
}

// LogWrite logs a line appended to the working store.
func (l *Logger) LogWrite(ctx context.Context, line uint32, bytes int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "write failed",
			"line", line,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "line written",
			"line", line,
			"bytes", bytes,
		)
	}
}

// LogSave logs a save of the working store into the persisted store.
func (l *Logger) LogSave(ctx context.Context, bytes int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "save failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "saved",
			"bytes", bytes,
		)
	}
}

// LogUpload logs a hand-off of the persisted store to a transport consumer.
func (l *Logger) LogUpload(ctx context.Context, name string, length int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "upload failed",
			"name", name,
			"length", length,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "uploaded",
			"name", name,
			"length", length,
		)
	}
}

// LogClose logs a session close.
func (l *Logger) LogClose(ctx context.Context, err error) {
	if err != nil {
		l.WarnContext(ctx, "close completed with errors",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "session closed")
	}
}
