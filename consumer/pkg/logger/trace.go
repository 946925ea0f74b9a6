package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// TraceIDFromContext returns the hex trace ID of the span in ctx, or "".
func TraceIDFromContext(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

// Ctx returns the global logger with a traceID field when ctx carries a span.
func Ctx(ctx context.Context) *zap.Logger {
	if id := TraceIDFromContext(ctx); id != "" {
		return L().With(zap.String("traceID", id))
	}
	return L()
}
