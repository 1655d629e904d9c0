package contextx

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"
)

// TraceID correlates logs, error replies (supportId) and spans of one admin
// request or scan tick.
type TraceID string

type contextKeyTraceID struct{}

func (t TraceID) String() string {
	return string(t)
}

func WithTraceID(ctx context.Context, traceID TraceID) context.Context {
	return context.WithValue(ctx, contextKeyTraceID{}, traceID)
}

// TraceIDFromContext returns the id set by WithTraceID. Without one it falls
// back to the trace id of the active OpenTelemetry span.
func TraceIDFromContext(ctx context.Context) (TraceID, error) {
	if traceID, ok := ctx.Value(contextKeyTraceID{}).(TraceID); ok {
		return traceID, nil
	}

	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		return TraceID(sc.TraceID().String()), nil
	}

	return "", fmt.Errorf("trace id: %w", ErrNoValue)
}
