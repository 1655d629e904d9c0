// Package settings - единый документ настроек: чтение, частичное обновление
// и проверка.
package settings

import (
	"context"
	"fmt"
	"sync"

	"git.appkode.ru/pub/go/failure"
	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"smartdeals/internal/domain/entity"
	"smartdeals/pkg/errcodes"
	"smartdeals/pkg/logx"
)

// strict не принимает ключи, которых нет в документе настроек.
var strict = jsoniter.Config{ //nolint:gochecknoglobals
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	DisallowUnknownFields:  true,
}.Froze()

type Repository interface {
	// Get возвращает сохранённый документ или значения по умолчанию.
	Get(ctx context.Context) (entity.Settings, error)
	Save(ctx context.Context, s entity.Settings) error
}

type Service struct {
	repo     Repository
	validate *validator.Validate

	// mu сериализует read-modify-write документа.
	mu sync.Mutex
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (s *Service) Get(ctx context.Context) (entity.Settings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return entity.Settings{}, fmt.Errorf("repo.Get: %w", err)
	}

	return settings, nil
}

// Merge заменяет верхнеуровневые ключи документа значениями из patch.
// Вложенные объекты заменяются целиком.
func (s *Service) Merge(ctx context.Context, patch map[string]jsoniter.RawMessage) (entity.Settings, error) {
	return s.modify(ctx, func(current *entity.Settings) error {
		raw, err := strict.Marshal(current)
		if err != nil {
			return fmt.Errorf("json.Marshal: %w", err)
		}

		doc := make(map[string]jsoniter.RawMessage)
		if err = strict.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("json.Unmarshal: %w", err)
		}

		for k, v := range patch {
			doc[k] = v
		}

		if raw, err = strict.Marshal(doc); err != nil {
			return fmt.Errorf("json.Marshal: %w", err)
		}

		next := entity.DefaultSettings()
		if err = strict.Unmarshal(raw, &next); err != nil {
			return failure.NewInvalidArgumentError(
				err.Error(),
				failure.WithCode(errcodes.InvalidSettings),
				failure.WithDescription("Invalid settings document"),
			)
		}

		*current = next

		return nil
	})
}

func (s *Service) SetMode(ctx context.Context, mode entity.Mode) (entity.Settings, error) {
	return s.modify(ctx, func(current *entity.Settings) error {
		switch mode {
		case entity.ModeManual, entity.ModeAuto:
		default:
			return failure.NewInvalidArgumentError(
				fmt.Sprintf("unknown mode %q", mode),
				failure.WithCode(errcodes.InvalidMode),
				failure.WithDescription("Mode must be MANUAL or AUTO"),
			)
		}

		current.Mode = mode

		return nil
	})
}

func (s *Service) SetMinDiscount(ctx context.Context, percent float64) (entity.Settings, error) {
	return s.modify(ctx, func(current *entity.Settings) error {
		current.MinDiscountPercent = percent
		return nil
	})
}

func (s *Service) SetApprovalThreshold(ctx context.Context, threshold int) (entity.Settings, error) {
	return s.modify(ctx, func(current *entity.Settings) error {
		current.ApprovalThreshold = threshold
		return nil
	})
}

// SaveMercadoLivreTokens сохраняет токены, полученные при обновлении OAuth.
func (s *Service) SaveMercadoLivreTokens(ctx context.Context, accessToken, refreshToken string) error {
	_, err := s.modify(ctx, func(current *entity.Settings) error {
		current.MercadoLivre.AccessToken = accessToken
		if refreshToken != "" {
			current.MercadoLivre.RefreshToken = refreshToken
		}

		return nil
	})

	return err
}

func (s *Service) modify(ctx context.Context, fn func(*entity.Settings) error) (entity.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.repo.Get(ctx)
	if err != nil {
		return entity.Settings{}, fmt.Errorf("repo.Get: %w", err)
	}

	if err = fn(&current); err != nil {
		return entity.Settings{}, err
	}

	if err = s.Validate(ctx, current); err != nil {
		return entity.Settings{}, err
	}

	if err = s.repo.Save(ctx, current); err != nil {
		return entity.Settings{}, fmt.Errorf("repo.Save: %w", err)
	}

	logger(ctx).Info("settings updated", logx.FieldMode, current.Mode)

	return current, nil
}

func (s *Service) Validate(ctx context.Context, settings entity.Settings) error {
	if err := s.validate.StructCtx(ctx, settings); err != nil {
		return failure.NewInvalidArgumentError(
			"settings validation error",
			failure.WithCode(errcodes.InvalidSettings),
			failure.WithDescription(err.Error()),
		)
	}

	return nil
}
