package middlewarex

import (
	"net/http"

	"github.com/zenazn/goji/web/mutil"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Tracing opens a server span per request. The span joins an upstream trace
// when the caller propagated W3C trace context headers.
func Tracing(serviceName string) func(next http.Handler) http.Handler {
	tracer := otel.Tracer(serviceName)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

			ctx, span := tracer.Start(ctx, r.Method+" "+r.URL.Path, trace.WithSpanKind(trace.SpanKindServer))
			defer span.End()

			span.SetAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.url", r.URL.String()),
				attribute.String("http.user_agent", r.UserAgent()),
			)

			otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(w.Header()))

			lw := mutil.WrapWriter(w)

			next.ServeHTTP(lw, r.WithContext(ctx))

			status := lw.Status()
			if status == 0 {
				status = http.StatusOK
			}

			span.SetAttributes(attribute.Int("http.status_code", status))

			if status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(status))
			}
		})
	}
}
