package middlewarex

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"git.appkode.ru/pub/go/failure"

	"smartdeals/pkg/errcodes"
	"smartdeals/pkg/httpx/reply"
	"smartdeals/pkg/logx"
)

// Recovery turns a handler panic into a JSON error reply with code
// InternalServerError and the request supportId.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			logger(ctx).Error(
				"panic in handler",
				slog.String(logx.FieldHTTPMethod, r.Method),
				slog.String(logx.FieldURL, r.URL.Path),
				slog.Any(logx.FieldError, rec),
				slog.String(logx.FieldStack, string(debug.Stack())),
			)

			reply.Error(ctx, w, failure.NewInternalServerError(
				fmt.Sprintf("panic: %v", rec),
				failure.WithCode(errcodes.InternalServerError),
				failure.WithDescription("Internal server error"),
			))
		}()

		next.ServeHTTP(w, r)
	})
}
