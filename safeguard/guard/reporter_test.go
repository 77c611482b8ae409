//go:build unit

package guard

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureReporter records CaptureException invocations.
type captureReporter struct {
	mu    sync.Mutex
	errs  []error
	tags  []map[string]string
	boom  bool
	calls int
}

func (r *captureReporter) CaptureException(_ context.Context, err error, tags map[string]string) {
	r.mu.Lock()
	r.calls++
	r.errs = append(r.errs, err)
	r.tags = append(r.tags, tags)
	boom := r.boom
	r.mu.Unlock()

	if boom {
		panic("reporter exploded")
	}
}

func TestReporterReceivesInterceptions(t *testing.T) {
	reporter := &captureReporter{}
	SetReporter(reporter)
	t.Cleanup(func() { SetReporter(nil) })

	g, _ := newTestGuard(t, WithName("reported-guard"))

	fail := Wrap0(g, func() any { panic(errBoom) })
	_ = fail()

	require.Equal(t, 1, reporter.calls)
	assert.Equal(t, errBoom, reporter.errs[0])
	assert.Equal(t, "reported-guard", reporter.tags[0]["guard"])
	assert.Equal(t, "*errors.errorString", reporter.tags[0]["kind"])
	assert.NotEmpty(t, reporter.tags[0]["stack_trace"])
}

func TestPanickingReporterNeverMasksInterception(t *testing.T) {
	SetReporter(&captureReporter{boom: true})
	t.Cleanup(func() { SetReporter(nil) })

	g, _ := newTestGuard(t, WithFallback(7))

	fail := Wrap0(g, func() int { panic("boom") })

	var result int

	require.NotPanics(t, func() {
		result = fail()
	})

	assert.Equal(t, 7, result)
	assert.Len(t, g.Records(), 1)
}

func TestNilReporterIsANoop(t *testing.T) {
	SetReporter(nil)

	assert.Nil(t, CurrentReporter())

	g, _ := newTestGuard(t)

	fail := Wrap0(g, func() any { panic("unreported") })

	require.NotPanics(t, func() { _ = fail() })
}

func TestReportedStackIsTruncated(t *testing.T) {
	reporter := &captureReporter{}
	SetReporter(reporter)
	t.Cleanup(func() { SetReporter(nil) })

	rec := Record{
		Timestamp: time.Now(),
		Kind:      "string",
		Message:   "big stack",
		Context:   "test",
		Stack:     bytes.Repeat([]byte("x"), maxReportedStackLen*3),
	}

	reportInterception(context.Background(), "g", "big stack", rec)

	require.Equal(t, 1, reporter.calls)

	stack := reporter.tags[0]["stack_trace"]
	assert.True(t, strings.HasSuffix(stack, "...[truncated]"))
	assert.LessOrEqual(t, len(stack), maxReportedStackLen+len("\n...[truncated]"))
}
