package wordbook

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with dictionary-specific helpers.
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
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithFile returns a logger that tags every record with the dictionary file.
// Load and Write log through it.
func (l *Logger) WithFile(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("file", name),
	}
}

// LogInsert logs an insert operation.
func (l *Logger) LogInsert(ctx context.Context, text string, err error) {
	if err != nil {
		l.WarnContext(ctx, "insert rejected",
			"text", text,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "insert completed",
			"text", text,
		)
	}
}

// LogLoad logs a load operation.
func (l *Logger) LogLoad(ctx context.Context, report LoadReport, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "dictionary loaded",
			"records", report.Records,
			"skipped", report.Skipped,
			"unsorted", report.Unsorted,
			"bytes", report.Bytes,
			"mapped", report.Mapped,
		)
	}
}

// LogWrite logs a write operation.
func (l *Logger) LogWrite(ctx context.Context, records int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "write failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "dictionary written",
			"records", records,
		)
	}
}

// LogSkippedRecord logs a malformed line that the loader skipped.
func (l *Logger) LogSkippedRecord(ctx context.Context, line int, raw string, err error) {
	l.WarnContext(ctx, "skipping malformed record",
		"line", line,
		"record", raw,
		"error", err,
	)
}

// LogUnsorted logs the first out-of-order record of a loaded file.
func (l *Logger) LogUnsorted(ctx context.Context, line int) {
	l.WarnContext(ctx, "dictionary is not sorted, lookups fall back to a linear scan",
		"line", line,
	)
}

// LogMerge logs a merge of the pending buffer into the entry store.
func (l *Logger) LogMerge(ctx context.Context, storeLen, pendingLen int, d time.Duration) {
	l.DebugContext(ctx, "pending entries merged",
		"store", storeLen,
		"pending", pendingLen,
		"duration", d,
	)
}

// LogCompact logs a compaction pass.
func (l *Logger) LogCompact(ctx context.Context, before, after int, d time.Duration) {
	l.DebugContext(ctx, "entry store compacted",
		"before", before,
		"after", after,
		"removed", before-after,
		"duration", d,
	)
}
