package guard

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// InterceptSpanEventName is the OpenTelemetry span event recorded when a
// guard intercepts a panic inside an active span.
const InterceptSpanEventName = "guard.intercepted"

const (
	meterName              = "github.com/LerianStudio/lib-safeguard/safeguard/guard"
	interceptionsTotalName = "guard_interceptions_total"
)

// recordInterception emits the span event and increments the interception
// counter. It is best-effort: observability failures never reach the caller.
func recordInterception(ctx context.Context, guardName string, rec Record) {
	defer func() {
		_ = recover()
	}()

	attrs := []attribute.KeyValue{
		attribute.String("guard.name", guardName),
		attribute.String("panic.kind", rec.Kind),
		attribute.String("panic.context", rec.Context),
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.AddEvent(InterceptSpanEventName, trace.WithAttributes(attrs...))
		span.SetStatus(codes.Error, "panic intercepted in "+rec.Context)
	}

	// The SDK caches instruments per meter and name; re-creating the counter
	// here picks up whichever provider is installed at interception time.
	counter, err := otel.Meter(meterName).Int64Counter(
		interceptionsTotalName,
		metric.WithUnit("1"),
		metric.WithDescription("Total number of panics intercepted by guards"),
	)
	if err != nil {
		return
	}

	counter.Add(ctx, 1, metric.WithAttributes(attrs...))
}
