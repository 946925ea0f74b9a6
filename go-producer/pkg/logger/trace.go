package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// TraceIDFromContext returns the trace ID of a valid span in ctx, or "".
func TraceIDFromContext(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		return sc.TraceID().String()
	}
	return ""
}

// Ctx returns L() annotated with the request's traceID, when there is one.
func Ctx(ctx context.Context) *zap.Logger {
	id := TraceIDFromContext(ctx)
	if id == "" {
		return L()
	}
	return L().With(zap.String("traceID", id))
}
