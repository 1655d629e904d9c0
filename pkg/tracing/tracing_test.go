package tracing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"smartdeals/pkg/tracing"
)

func TestInit(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name     string
		endpoint string
		wantRec  bool
	}{
		{
			name:     "Disabled",
			endpoint: "",
			wantRec:  false,
		},
		{
			name:     "Jaeger collector",
			endpoint: "http://127.0.0.1:14268/api/traces",
			wantRec:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			shutdown, err := tracing.Init(tracing.Config{
				Endpoint:    tc.endpoint,
				ServiceName: "smartdeals",
				Version:     "test",
				Environment: "test",
			})
			rq.NoError(err)

			_, span := otel.Tracer("test").Start(context.Background(), "span")
			rq.Equal(tc.wantRec, span.IsRecording())
			span.End()

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			// the collector is unreachable, only shutdown must not hang
			_ = shutdown(ctx)
		})
	}
}
