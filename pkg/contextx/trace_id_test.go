package contextx_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"smartdeals/pkg/contextx"
)

func TestTraceID(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	var testTraceIDEmpty contextx.TraceID

	testTraceIDNotEmpty := contextx.TraceID("test-trace-id")

	traceID, err := contextx.TraceIDFromContext(ctx)
	rq.Equal(testTraceIDEmpty, traceID)
	rq.ErrorIs(err, contextx.ErrNoValue)
	rq.ErrorContains(err, "trace id: no value in context")

	ctx = contextx.WithTraceID(ctx, testTraceIDNotEmpty)

	traceID, err = contextx.TraceIDFromContext(ctx)
	rq.Equal(testTraceIDNotEmpty, traceID)
	rq.NoError(err)
}

func TestTraceIDFromSpan(t *testing.T) {
	rq := require.New(t)

	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: trace.TraceID{0x0a, 0xf7, 0x65, 0x19, 0x16, 0xcd, 0x43, 0xdd, 0x84, 0x48, 0xeb, 0x21, 0x1c, 0x80, 0x31, 0x9c},
		SpanID:  trace.SpanID{0xb7, 0xad, 0x6b, 0x71, 0x69, 0x20, 0x33, 0x31},
	})

	ctx := trace.ContextWithSpanContext(context.Background(), spanCtx)

	traceID, err := contextx.TraceIDFromContext(ctx)
	rq.NoError(err)
	rq.Equal(contextx.TraceID("0af7651916cd43dd8448eb211c80319c"), traceID)

	// an explicit id wins over the span
	traceID, err = contextx.TraceIDFromContext(contextx.WithTraceID(ctx, "from-header"))
	rq.NoError(err)
	rq.Equal(contextx.TraceID("from-header"), traceID)
}
