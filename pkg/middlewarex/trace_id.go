package middlewarex

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/rs/xid"

	"smartdeals/pkg/contextx"
	"smartdeals/pkg/logx"
)

const (
	headerNameTraceID = "X-Trace-Id"
	maxTraceIDLen     = 64
)

// TraceID takes the caller's X-Trace-Id or generates one, echoes it in the
// response and binds it to the request logger. Ids longer than 64 bytes or
// with characters other than ASCII letters, digits, '-' and '_' are replaced.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(headerNameTraceID)

		if !validTraceID(traceID) {
			traceID = xid.New().String()
		}

		ctx := contextx.WithTraceID(r.Context(), contextx.TraceID(traceID))
		ctx = contextx.WithLogger(ctx, logger(ctx).With(slog.String(logx.FieldTraceID, traceID)))

		w.Header().Set(headerNameTraceID, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func validTraceID(id string) bool {
	if id == "" || len(id) > maxTraceIDLen {
		return false
	}

	return !strings.ContainsFunc(id, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return false
		default:
			return true
		}
	})
}
