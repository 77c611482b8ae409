package log

import (
	"context"
	"sync"
)

// Entry is one log event captured by a MemoryLogger.
type Entry struct {
	Level   Level
	Message string
	Fields  []Field
}

// MemoryLogger is a Logger that records entries in memory. It is intended for
// tests that assert on emitted log output.
type MemoryLogger struct {
	mu      sync.Mutex
	level   Level
	entries []Entry
	fields  []Field
}

// NewMemory creates a MemoryLogger that captures entries up to the given
// verbosity level.
func NewMemory(level Level) *MemoryLogger {
	return &MemoryLogger{level: level}
}

// Log records the entry if the level is enabled.
func (l *MemoryLogger) Log(_ context.Context, level Level, msg string, fields ...Field) {
	if !l.Enabled(level) {
		return
	}

	merged := make([]Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, Entry{Level: level, Message: msg, Fields: merged})
}

// With returns a child logger that routes entries back to this logger's sink,
// with the given fields prepended, so tests can observe everything in one place.
//
//nolint:ireturn
func (l *MemoryLogger) With(fields ...Field) Logger {
	return &forwardingLogger{
		parent: l,
		fields: append(append([]Field{}, l.fields...), fields...),
	}
}

// Enabled reports whether the level would be captured.
func (l *MemoryLogger) Enabled(level Level) bool {
	return l.level >= level
}

// Sync is a no-op and always returns nil.
func (l *MemoryLogger) Sync(_ context.Context) error { return nil }

// Entries returns a snapshot of the captured entries.
func (l *MemoryLogger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)

	return out
}

// Reset discards all captured entries.
func (l *MemoryLogger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = nil
}

// forwardingLogger routes child entries back to the root MemoryLogger with the
// child's accumulated fields prepended.
type forwardingLogger struct {
	parent *MemoryLogger
	fields []Field
}

func (l *forwardingLogger) Log(ctx context.Context, level Level, msg string, fields ...Field) {
	merged := make([]Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	l.parent.Log(ctx, level, msg, merged...)
}

//nolint:ireturn
func (l *forwardingLogger) With(fields ...Field) Logger {
	return &forwardingLogger{
		parent: l.parent,
		fields: append(append([]Field{}, l.fields...), fields...),
	}
}

func (l *forwardingLogger) Enabled(level Level) bool {
	return l.parent.Enabled(level)
}

func (l *forwardingLogger) Sync(ctx context.Context) error {
	return l.parent.Sync(ctx)
}
