package multiindex

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with multiindex-specific context. This provides
// structured logging with consistent field names across every operation
// the container performs.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler. If handler is nil,
// uses the default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs. level
// sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return &Logger{Logger: slog.New(handler)}
}

// NoopLogger creates a Logger that discards all log output. This is the
// default used by New when no WithLogger option is given, since per-element
// insert/erase logging at Info/Debug level would otherwise dominate any
// real workload's output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // unreachable level
	})
	return &Logger{Logger: slog.New(handler)}
}

// WithTag adds an index-tag field to the logger, for messages describing an
// operation scoped to one configured index (e.g. a rehash).
func (l *Logger) WithTag(tag any) *Logger {
	return &Logger{Logger: l.Logger.With("tag", tag)}
}

// LogInsert logs a successful insert of the element at h.
func (l *Logger) LogInsert(h handle) {
	l.Debug("insert completed", "handle", int32(h))
}

// LogConflict logs an insert rejected by a unique index; existing is the
// handle of the element already occupying that key.
func (l *Logger) LogConflict(h, existing handle) {
	l.Debug("insert rejected: key conflict", "handle", int32(h), "existing", int32(existing))
}

// LogErase logs an erase of the element at h.
func (l *Logger) LogErase(h handle) {
	l.Debug("erase completed", "handle", int32(h))
}

// LogModify logs the outcome of a modify: ok is false when the mutation
// made the element inadmissible under some unique index and it was
// destroyed rather than re-placed.
func (l *Logger) LogModify(h handle, ok bool) {
	if !ok {
		l.Debug("modify destroyed element: no longer admissible", "handle", int32(h))
		return
	}
	l.Debug("modify completed", "handle", int32(h))
}

// LogExtract logs an extract of the element at h out of every index.
func (l *Logger) LogExtract(h handle) {
	l.Debug("extract completed", "handle", int32(h))
}

// LogReinsert logs a successful reinsert of a previously extracted handle.
func (l *Logger) LogReinsert(h handle) {
	l.Debug("reinsert completed", "handle", int32(h))
}

// LogRehash logs a hashed index growing its bucket array.
func (l *Logger) LogRehash(newBucketCount, size int) {
	l.Info("rehash completed", "buckets", newBucketCount, "size", size)
}
