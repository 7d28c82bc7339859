package sparseset

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with set-specific helpers.
// This provides structured logging with consistent field names.
//
// A nil *Logger discards everything.
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
// This is the default.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// With returns a Logger that includes the given attributes in each record.
func (l *Logger) With(args ...any) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{
		Logger: l.Logger.With(args...),
	}
}

func (l *Logger) enabled(level slog.Level) bool {
	return l != nil && l.Logger != nil && l.Enabled(context.Background(), level)
}

// LogAlloc logs the allocation of a set's buffers.
func (l *Logger) LogAlloc(allocator string, capacity, bytes int) {
	if !l.enabled(slog.LevelDebug) {
		return
	}
	l.Debug("buffers allocated",
		"allocator", allocator,
		"capacity", capacity,
		"bytes", bytes,
	)
}

// LogResize logs a capacity change.
func (l *Logger) LogResize(allocator string, from, to, bytes int) {
	if !l.enabled(slog.LevelDebug) {
		return
	}
	l.Debug("buffers resized",
		"allocator", allocator,
		"from", from,
		"to", to,
		"bytes", bytes,
	)
}

// LogRelease logs the release of a set's buffers.
func (l *Logger) LogRelease(allocator string, capacity, bytes int) {
	if !l.enabled(slog.LevelDebug) {
		return
	}
	l.Debug("buffers released",
		"allocator", allocator,
		"capacity", capacity,
		"bytes", bytes,
	)
}

// LogSnapshot logs a snapshot save or load.
func (l *Logger) LogSnapshot(ctx context.Context, op, key string, values int, err error) {
	if l == nil || l.Logger == nil {
		return
	}
	if err != nil {
		l.ErrorContext(ctx, "snapshot "+op+" failed",
			"key", key,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot "+op+" completed",
			"key", key,
			"values", values,
		)
	}
}
