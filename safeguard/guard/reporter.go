package guard

import (
	"context"
	"sync"
)

// Reporter defines an interface for external error tracking services. This
// abstraction allows forwarding intercepted panics to an alerting or error
// tracking system without a hard dependency on any specific SDK.
//
// Implementations should be safe for concurrent use and must not panic.
type Reporter interface {
	// CaptureException reports an intercepted panic. The tags map carries
	// metadata such as "guard", "kind", and "context".
	CaptureException(ctx context.Context, err error, tags map[string]string)
}

var (
	reporterInstance Reporter
	reporterMu       sync.RWMutex
)

// SetReporter configures the global reporter for intercepted panics. Pass nil
// to disable reporting. Call once during application startup.
func SetReporter(reporter Reporter) {
	reporterMu.Lock()
	defer reporterMu.Unlock()

	reporterInstance = reporter
}

// CurrentReporter returns the configured reporter, or nil when reporting is
// disabled.
func CurrentReporter() Reporter {
	reporterMu.RLock()
	defer reporterMu.RUnlock()

	return reporterInstance
}

// maxReportedStackLen caps the stack trace attached to a report.
const maxReportedStackLen = 4096

// reportInterception forwards an intercepted panic to the configured
// reporter, if any. A panicking reporter is swallowed so it can never mask
// the original failure.
func reportInterception(ctx context.Context, guardName string, value any, rec Record) {
	reporter := CurrentReporter()
	if reporter == nil {
		return
	}

	defer func() {
		_ = recover()
	}()

	tags := map[string]string{
		"guard":   guardName,
		"kind":    rec.Kind,
		"context": rec.Context,
	}

	if len(rec.Stack) > 0 {
		stack := string(rec.Stack)
		if len(stack) > maxReportedStackLen {
			stack = stack[:maxReportedStackLen] + "\n...[truncated]"
		}

		tags["stack_trace"] = stack
	}

	reporter.CaptureException(ctx, toError(value), tags)
}
