package server

import (
	"fmt"
	"net/http"

	"git.appkode.ru/pub/go/failure"
	jsoniter "github.com/json-iterator/go"

	"smartdeals/pkg/contextx"
	"smartdeals/pkg/errcodes"
	"smartdeals/pkg/httpx/reply"
	"smartdeals/pkg/logx"
)

// Документ настроек отдаётся как есть: его ключи и есть контракт API.
func (s Server) getV1Config(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return fmt.Errorf("settings.Get: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, settings)

	return nil
}

func (s Server) putV1Config(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var patch map[string]jsoniter.RawMessage

	if err := jsoniter.NewDecoder(r.Body).Decode(&patch); err != nil {
		return failure.NewInvalidArgumentError(
			fmt.Sprintf("json.Decode: %v", err),
			failure.WithCode(errcodes.ValidationError),
			failure.WithDescription("Invalid JSON"),
		)
	}

	settings, err := s.settings.Merge(ctx, patch)
	if err != nil {
		return fmt.Errorf("settings.Merge: %w", err)
	}

	operator, _ := contextx.OperatorFromContext(ctx)
	logger(ctx).Info("config updated", logx.FieldOperator, operator.String(), "keys", len(patch))

	reply.JSON(ctx, w, http.StatusOK, settings)

	return nil
}
