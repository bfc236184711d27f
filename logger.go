package vsabench

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with vsabench-specific context.
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

// NewJSONLogger creates a Logger that writes JSON logs to stderr.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return NewWriterLogger(os.Stderr, "json", level)
}

// NewTextLogger creates a Logger that writes human-readable logs to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewWriterLogger(os.Stderr, "text", level)
}

// NewWriterLogger creates a Logger writing to w in the given format
// ("json", anything else is text).
func NewWriterLogger(w io.Writer, format string, level slog.Level) *Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return NewLogger(slog.NewJSONHandler(w, opts))
	}
	return NewLogger(slog.NewTextHandler(w, opts))
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithBenchmark adds a bench field to the logger.
func (l *Logger) WithBenchmark(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("bench", name),
	}
}

// WithK adds a k (neighbor count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimension", dim),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count uint64) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogGenerate logs a dataset generation.
func (l *Logger) LogGenerate(ctx context.Context, path string, count uint64, bytes int64, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "dataset generation failed",
			"path", path,
			"count", count,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "dataset generated",
			"path", path,
			"count", count,
			"bytes", bytes,
			"elapsed", elapsed,
		)
	}
}

// LogBatch logs generation progress after a written batch.
func (l *Logger) LogBatch(ctx context.Context, written, total uint64) {
	l.DebugContext(ctx, "dataset batch written",
		"written", written,
		"total", total,
	)
}

// LogMeasurement logs a finished benchmark.
func (l *Logger) LogMeasurement(ctx context.Context, name string, measurements int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "benchmark failed",
			"bench", name,
			"elapsed", elapsed,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "benchmark completed",
			"bench", name,
			"measurements", measurements,
			"elapsed", elapsed,
		)
	}
}

// LogUpload logs an object-store transfer.
func (l *Logger) LogUpload(ctx context.Context, location string, bytes int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "upload failed",
			"location", location,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "upload completed",
			"location", location,
			"bytes", bytes,
		)
	}
}
