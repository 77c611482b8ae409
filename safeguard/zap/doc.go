// Package zap provides a go.uber.org/zap backed implementation of log.Logger.
//
// Entries emitted inside an active OpenTelemetry span are automatically
// annotated with trace_id and span_id so guard interception logs correlate
// with distributed traces.
package zap
