package req

import (
	"fmt"
	"net/http"
	"strconv"

	"git.appkode.ru/pub/go/failure"
	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"smartdeals/pkg/errcodes"
)

var (
	json     = jsoniter.ConfigCompatibleWithStandardLibrary         //nolint:gochecknoglobals // skip
	validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals // skip
)

func Read(r *http.Request, dest any) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return failure.NewInvalidArgumentError(
			fmt.Errorf("json.Decode: %w", err).Error(),
			failure.WithCode(errcodes.ValidationError),
			failure.WithDescription("Invalid JSON"),
		)
	}

	if err := validate.StructCtx(r.Context(), dest); err != nil {
		return failure.NewInvalidArgumentError(
			"validation error",
			failure.WithCode(errcodes.ValidationError),
			failure.WithDescription(err.Error()),
		)
	}

	return nil
}

// QueryInt64 parses an optional integer query parameter.
func QueryInt64(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil //nolint:nilnil
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, failure.NewInvalidArgumentError(
			fmt.Sprintf("strconv.ParseInt(%s): %v", name, err),
			failure.WithCode(errcodes.ValidationError),
			failure.WithDescription(fmt.Sprintf("query parameter %q must be an integer", name)),
		)
	}

	return &v, nil
}

// PathInt64 parses a mandatory integer route parameter.
func PathInt64(raw, name string, code failure.ErrorCode) (int64, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, failure.NewInvalidArgumentError(
			fmt.Sprintf("invalid %s %q", name, raw),
			failure.WithCode(code),
			failure.WithDescription(fmt.Sprintf("%s must be a positive integer", name)),
		)
	}

	return v, nil
}
