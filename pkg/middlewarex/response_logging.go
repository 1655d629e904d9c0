package middlewarex

import (
	"bytes"
	"cmp"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/zenazn/goji/web/mutil"

	"smartdeals/pkg/logx"
)

// ResponseLogging logs the response of every admin API call: the matched chi
// route, status, masked headers and body. 5xx are logged as errors, 4xx as
// warnings.
//
// The trouble with optional interfaces:
// https://blog.merovius.de/posts/2017-07-30-the-trouble-with-optional-interfaces/
func ResponseLogging(
	sensitiveDataMasker logx.SensitiveDataMaskerInterface,
	logFieldMaxLen int,
) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			start := time.Now()
			lw := mutil.WrapWriter(w)

			var buf bytes.Buffer

			lw.Tee(&buf)

			next.ServeHTTP(lw, r)

			headers, err := responseHeaders(w)
			if err != nil {
				logger(ctx).Error("responseHeaders", logx.Error(err))
			}

			body := buf.Bytes()

			if len(body) > logFieldMaxLen {
				body = body[:logFieldMaxLen]
			}

			// 0 means the handler never called WriteHeader.
			status := cmp.Or(lw.Status(), http.StatusOK)

			logger(ctx).Log(ctx, statusLevel(status),
				logx.FieldHTTPResponse,
				slog.String(logx.FieldHTTPMethod, r.Method),
				slog.String(logx.FieldRoute, routePattern(r)),
				slog.Int(logx.FieldResponseStatus, status),
				slog.String(logx.FieldResponseHeaders, string(sensitiveDataMasker.Mask(headers))),
				slog.String(logx.FieldResponseBody, string(sensitiveDataMasker.Mask(body))),
				slog.Int64(logx.FieldDurationMs, time.Since(start).Milliseconds()),
			)
		})
	}
}

func statusLevel(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// routePattern returns the matched chi pattern ("/v1/deals/{id}/approve"),
// or the raw path when no route matched.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}

	return r.URL.Path
}

func responseHeaders(w http.ResponseWriter) ([]byte, error) {
	var buf bytes.Buffer

	if err := w.Header().WriteSubset(&buf, nil); err != nil {
		return nil, fmt.Errorf("header.WriteSubset: %w", err)
	}

	return buf.Bytes(), nil
}
