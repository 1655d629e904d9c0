package middlewarex

import (
	"log/slog"
	"mime"
	"net/http"
	"net/http/httputil"
	"strings"

	"smartdeals/pkg/logx"
)

// RequestLogging logs the incoming request dump with secrets masked. Only
// textual bodies (JSON, forms, text/*) are dumped; the dump is cut to
// logFieldMaxLen bytes.
func RequestLogging(
	sensitiveDataMasker logx.SensitiveDataMaskerInterface,
	logFieldMaxLen int,
) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			dump, err := httputil.DumpRequest(r, textualBody(r.Header.Get("Content-Type")))

			if len(dump) > logFieldMaxLen {
				dump = dump[:logFieldMaxLen]
			}

			logger(ctx).Info(
				logx.FieldHTTPRequest,
				slog.String(logx.FieldHTTPMethod, r.Method),
				slog.String(logx.FieldURL, r.URL.Path),
				slog.String(logx.FieldIP, r.RemoteAddr),
				slog.String(logx.FieldRequestBody, string(sensitiveDataMasker.Mask(dump))),
				logx.Error(err),
			)

			next.ServeHTTP(w, r)
		})
	}
}

func textualBody(contentType string) bool {
	if contentType == "" {
		return true
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	switch {
	case mediaType == "application/json", mediaType == "application/x-www-form-urlencoded":
		return true
	default:
		return strings.HasPrefix(mediaType, "text/")
	}
}
