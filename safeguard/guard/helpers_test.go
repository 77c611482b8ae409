//go:build unit

package guard

import (
	"context"
	"sync"
	"testing"

	"github.com/LerianStudio/lib-safeguard/safeguard/log"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// countingLogger tallies emitted entries without storing them.
type countingLogger struct {
	mu sync.Mutex
	n  int
}

func newCountingLogger() *countingLogger {
	return &countingLogger{}
}

func (l *countingLogger) Log(_ context.Context, _ log.Level, _ string, _ ...log.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.n++
}

//nolint:ireturn
func (l *countingLogger) With(_ ...log.Field) log.Logger { return l }

func (l *countingLogger) Enabled(_ log.Level) bool { return true }

func (l *countingLogger) Sync(_ context.Context) error { return nil }

func (l *countingLogger) calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.n
}
