package server

import (
	"fmt"
	"net/http"
	"strings"

	"git.appkode.ru/pub/go/failure"

	"smartdeals/pkg/contextx"
	"smartdeals/pkg/errcodes"
	"smartdeals/pkg/httpx/reply"
	"smartdeals/pkg/httpx/req"
	"smartdeals/pkg/logx"
	"smartdeals/pkg/rest"
)

const bearerPrefix = "Bearer "

// postV1AuthLogin принимает JSON и, как OAuth2 password flow, form-urlencoded.
func (s Server) postV1AuthLogin(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.LoginRequest

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			return failure.NewInvalidArgumentError(
				fmt.Sprintf("r.ParseForm: %v", err),
				failure.WithCode(errcodes.ValidationError),
			)
		}

		request.Username = r.PostForm.Get("username")
		request.Password = r.PostForm.Get("password")
	} else if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	token, err := s.auth.Login(request.Username, request.Password)
	if err != nil {
		return fmt.Errorf("auth.Login: %w", err)
	}

	logger(ctx).Info("admin logged in", logx.FieldOperator, request.Username)

	reply.JSON(ctx, w, http.StatusOK, rest.LoginResponse{
		AccessToken: token.Value,
		TokenType:   "bearer",
		ExpiresAt:   token.ExpiresAt,
	})

	return nil
}

func (s Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			w.Header().Set("WWW-Authenticate", "Bearer")
			reply.Error(ctx, w, failure.NewUnauthorizedError(
				"missing bearer token",
				failure.WithCode(errcodes.AccessTokenInvalid),
				failure.WithDescription("Authorization required"),
			))

			return
		}

		subject, err := s.auth.Verify(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			reply.Error(ctx, w, err)

			return
		}

		ctx = contextx.WithOperator(ctx, contextx.Operator(subject))
		ctx = contextx.WithLogger(ctx, logger(ctx).With(logx.FieldOperator, subject))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
