package guard

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/LerianStudio/lib-safeguard/safeguard/log"
	"github.com/google/uuid"
)

// Configuration errors returned by New.
var (
	ErrInvalidLogLevel = errors.New("invalid log level")
	ErrNilLogger       = errors.New("logger cannot be nil")
	ErrNilRegistry     = errors.New("registry cannot be nil")
	ErrNilMatcher      = errors.New("matcher cannot be nil")
	ErrEmptyName       = errors.New("guard name cannot be empty")
)

// Guard intercepts panics raised inside the entities it wraps. Its
// configuration is fixed at construction; the local record history is the
// only mutable state and is safe for concurrent use.
type Guard struct {
	name          string
	message       string
	suppress      bool
	trackGlobally bool
	logLevel      log.Level
	matchers      []Matcher
	fallback      any
	hasFallback   bool
	logger        log.Logger
	registry      *Registry

	mu      sync.Mutex
	records []Record
}

// Option configures a Guard at construction time.
type Option func(*Guard) error

// WithSuppress controls whether intercepted panics are swallowed (true, the
// default) or re-panicked with the original value after recording.
func WithSuppress(suppress bool) Option {
	return func(g *Guard) error {
		g.suppress = suppress
		return nil
	}
}

// WithMessage sets the context text recorded and logged with each
// interception. When unset, a generated identifier naming the guarded entity
// is used instead.
func WithMessage(message string) Option {
	return func(g *Guard) error {
		g.message = message
		return nil
	}
}

// WithTrackGlobally controls whether intercepted panics are also appended to
// the guard's registry (the process-wide Global by default). The guard's own
// local history always grows on interception regardless of this flag.
func WithTrackGlobally(track bool) Option {
	return func(g *Guard) error {
		g.trackGlobally = track
		return nil
	}
}

// WithLogLevel sets the severity of the log entry emitted on interception.
// Defaults to log.LevelError.
func WithLogLevel(level log.Level) Option {
	return func(g *Guard) error {
		if !level.Valid() {
			return fmt.Errorf("%w: %d", ErrInvalidLogLevel, level)
		}

		g.logLevel = level

		return nil
	}
}

// WithOnly restricts interception to panic values accepted by at least one of
// the given matchers. Without this option every panic value matches.
func WithOnly(matchers ...Matcher) Option {
	return func(g *Guard) error {
		for _, m := range matchers {
			if m == nil {
				return ErrNilMatcher
			}
		}

		g.matchers = append(g.matchers, matchers...)

		return nil
	}
}

// WithFallback sets the value returned for the first result of a suppressed
// call when its type fits; all other results stay at their zero value (the
// default fallback).
func WithFallback(value any) Option {
	return func(g *Guard) error {
		g.fallback = value
		g.hasFallback = true

		return nil
	}
}

// WithLogger sets the logger used for interception entries. Defaults to a
// no-op logger.
func WithLogger(logger log.Logger) Option {
	return func(g *Guard) error {
		if logger == nil {
			return ErrNilLogger
		}

		g.logger = logger

		return nil
	}
}

// WithRegistry points global tracking at a dedicated registry instead of
// Global. Useful for test isolation.
func WithRegistry(registry *Registry) Option {
	return func(g *Guard) error {
		if registry == nil {
			return ErrNilRegistry
		}

		g.registry = registry

		return nil
	}
}

// WithName overrides the generated guard name used in record contexts and
// observability attributes.
func WithName(name string) Option {
	return func(g *Guard) error {
		if name == "" {
			return ErrEmptyName
		}

		g.name = name

		return nil
	}
}

// New creates a Guard. Misconfiguration fails here, at decoration time, never
// at call time.
func New(opts ...Option) (*Guard, error) {
	g := &Guard{
		name:     "guard-" + uuid.NewString()[:8],
		suppress: true,
		logLevel: log.LevelError,
		logger:   log.NewNop(),
		registry: Global,
	}

	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// MustNew is like New but panics on configuration error. Intended for
// package-level guard variables.
func MustNew(opts ...Option) *Guard {
	g, err := New(opts...)
	if err != nil {
		panic(err)
	}

	return g
}

// Name returns the guard's identifier.
func (g *Guard) Name() string {
	return g.name
}

// Records returns a snapshot copy of the guard's local interception history.
func (g *Guard) Records() []Record {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]Record, len(g.records))
	copy(out, g.records)

	return out
}

// ClearRecords empties the guard's local interception history.
func (g *Guard) ClearRecords() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.records = nil
}

// capture builds the Record for an intercepted panic, appends it to the local
// history (and the registry when global tracking is on), emits one log entry,
// and records observability data. It never panics itself: a failing logger or
// reporter must not mask the original panic.
func (g *Guard) capture(ctx context.Context, value any, entity string, args []string) Record {
	if ctx == nil {
		ctx = context.Background()
	}

	rec := Record{
		Timestamp: time.Now(),
		Kind:      kindOf(value),
		Message:   messageOf(value),
		Context:   g.context(entity),
		Args:      args,
		Stack:     debug.Stack(),
	}

	g.mu.Lock()
	g.records = append(g.records, rec)
	g.mu.Unlock()

	if g.trackGlobally {
		g.registry.Record(rec)
	}

	g.emit(ctx, rec)
	recordInterception(ctx, g.name, rec)
	reportInterception(ctx, g.name, value, rec)

	return rec
}

// context resolves the record context: the configured message wins, otherwise
// the generated identifier for the guarded entity.
func (g *Guard) context(entity string) string {
	if g.message != "" {
		return g.message
	}

	if entity != "" {
		return entity
	}

	return g.name
}

// emit writes the interception log entry, swallowing any panic from the
// logger itself.
func (g *Guard) emit(ctx context.Context, rec Record) {
	defer func() {
		_ = recover()
	}()

	fields := []log.Field{
		log.String("context", rec.Context),
		log.String("kind", rec.Kind),
		log.String("error", rec.Message),
		log.String("guard", g.name),
	}
	if len(rec.Args) > 0 {
		fields = append(fields, log.Any("args", rec.Args))
	}

	g.logger.Log(ctx, g.logLevel, "panic intercepted", fields...)
}
