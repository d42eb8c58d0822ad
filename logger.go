package alignvec

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with alignvec-specific context.
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
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
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
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogAdd logs a corpus add operation.
func (l *Logger) LogAdd(ctx context.Context, count, dimension int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "add failed",
			"count", count,
			"dimension", dimension,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "add completed",
			"count", count,
			"dimension", dimension,
		)
	}
}

// LogSearch logs a search operation.
func (l *Logger) LogSearch(ctx context.Context, k, resultsFound int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search failed",
			"k", k,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "search completed",
			"k", k,
			"results", resultsFound,
		)
	}
}

// LogClassify logs a classify operation.
func (l *Logger) LogClassify(ctx context.Context, decision string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "classify failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "classify completed",
			"decision", decision,
		)
	}
}

// LogBatchClassify logs a batch classify operation.
func (l *Logger) LogBatchClassify(ctx context.Context, count int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "batch classify failed",
			"count", count,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "batch classify completed",
			"count", count,
		)
	}
}

// LogSnapshot logs a snapshot save operation.
func (l *Logger) LogSnapshot(ctx context.Context, stem string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"stem", stem,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot saved",
			"stem", stem,
		)
	}
}

// LogLoad logs a snapshot load operation.
func (l *Logger) LogLoad(ctx context.Context, stem string, count int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"stem", stem,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "load completed",
			"stem", stem,
			"count", count,
		)
	}
}
