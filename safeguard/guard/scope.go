package guard

import (
	"context"
	"sync"
)

// Scope covers an inline block of code with the guard's interception rules.
// It keeps its own record history, separate from the guard's local history
// and the global registry.
type Scope struct {
	guard *Guard
	ctx   context.Context

	mu      sync.Mutex
	records []Record
}

// Scope creates a scope without trace correlation. Use ScopeContext when an
// OpenTelemetry span should receive interception events.
func (g *Guard) Scope() *Scope {
	return g.ScopeContext(context.Background())
}

// ScopeContext creates a scope whose interceptions are correlated with ctx.
func (g *Guard) ScopeContext(ctx context.Context) *Scope {
	if ctx == nil {
		ctx = context.Background()
	}

	return &Scope{guard: g, ctx: ctx}
}

// End intercepts a panic raised in the surrounding function body. It must be
// deferred directly:
//
//	s := g.Scope()
//	defer s.End()
//
// With a suppressing guard the panic does not propagate past the deferred
// call; otherwise the original value is re-panicked after recording.
func (s *Scope) End() {
	value := recover()
	if value == nil {
		return
	}

	s.intercept(value)
}

// Do runs fn under the scope's interception rules. Unlike End it confines the
// guarded region to fn, so it can cover one block in the middle of a larger
// function.
func (s *Scope) Do(fn func()) {
	defer func() {
		if value := recover(); value != nil {
			s.intercept(value)
		}
	}()

	fn()
}

// Records returns a snapshot of the records this scope personally captured.
func (s *Scope) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Record, len(s.records))
	copy(out, s.records)

	return out
}

// intercept applies the guard's interception algorithm to a panic recovered
// by this scope, re-panicking for non-matching values or non-suppressing
// guards.
func (s *Scope) intercept(value any) {
	if !s.guard.matches(value) {
		panic(value)
	}

	rec := s.guard.capture(s.ctx, value, s.guard.name+"/scope", nil)

	s.mu.Lock()
	s.records = append(s.records, rec)
	s.mu.Unlock()

	if !s.guard.suppress {
		panic(value)
	}
}
