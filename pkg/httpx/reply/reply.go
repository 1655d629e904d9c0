package reply

import (
	"context"
	"net/http"

	"git.appkode.ru/pub/go/failure"
	jsoniter "github.com/json-iterator/go"

	"smartdeals/pkg/contextx"
	"smartdeals/pkg/errcodes"
	"smartdeals/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	SupportID string `json:"supportId"`
}

func (e *errorResponse) WithDefaultCode(code failure.ErrorCode) {
	if e.Code == "" {
		e.Code = code.String()
	}
}

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

func OK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
}

func Accepted(w http.ResponseWriter) {
	w.WriteHeader(http.StatusAccepted)
}

func JSON(ctx context.Context, w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger(ctx).Error("json.Encode", logx.Error(err))
	}
}

// Error maps failure kinds onto HTTP statuses. Client mistakes are logged as
// warnings, everything else as errors.
func Error(ctx context.Context, w http.ResponseWriter, err error) {
	status := failure.HTTPStatus(err)

	if status >= http.StatusInternalServerError {
		logger(ctx).Error("request failed", logx.Error(err))
	} else {
		logger(ctx).Warn("request rejected", logx.Error(err))
	}

	response := errorResponse{
		Code:      failure.Code(err).String(),
		Message:   failure.Description(err),
		SupportID: supportID(ctx),
	}

	switch {
	case failure.IsInvalidArgumentError(err):
		response.WithDefaultCode(errcodes.ValidationError)
	case failure.IsNotFoundError(err):
		response.WithDefaultCode(errcodes.NotFound)
	case failure.IsUnauthorizedError(err):
		response.WithDefaultCode(errcodes.AccessTokenInvalid)
	case failure.IsForbiddenError(err):
		response.WithDefaultCode(errcodes.Forbidden)
	case failure.IsTimeoutError(err):
		response.WithDefaultCode(errcodes.TimeoutExceeded)
	case failure.IsConflictError(err), failure.IsUnprocessableEntityError(err):
	default:
		response.WithDefaultCode(errcodes.InternalServerError)
	}

	JSON(ctx, w, status, response)
}

func supportID(ctx context.Context) string {
	traceID, err := contextx.TraceIDFromContext(ctx)
	if err != nil {
		return "unsupported"
	}

	return traceID.String()
}
