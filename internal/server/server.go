package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	jsoniter "github.com/json-iterator/go"

	"smartdeals/internal/domain/entity"
	"smartdeals/internal/infrastructure/auth"
	"smartdeals/internal/worker"
	"smartdeals/pkg/logx"
	"smartdeals/pkg/middlewarex"
)

const logFieldMaxLen = 4096

type dealService interface {
	List(ctx context.Context, filter entity.DealFilter) ([]entity.Deal, error)
	Approve(ctx context.Context, id int64, s entity.Settings) (*entity.Deal, []entity.Post, error)
	Reject(ctx context.Context, id int64) (*entity.Deal, error)
	ForcePost(ctx context.Context, id int64, s entity.Settings) (*entity.Deal, []entity.Post, error)
}

type settingsService interface {
	Get(ctx context.Context) (entity.Settings, error)
	Merge(ctx context.Context, patch map[string]jsoniter.RawMessage) (entity.Settings, error)
}

type scanner interface {
	Tick(ctx context.Context) (entity.ScanRun, error)
	CheckSources(ctx context.Context) ([]worker.SourceCheck, error)
	Sources() []worker.SourceState
	SetSourceEnabled(name string, enabled bool) bool
}

type postLister interface {
	List(ctx context.Context, limit int) ([]entity.Post, error)
}

type runLister interface {
	List(ctx context.Context, limit int) ([]entity.ScanRun, error)
}

type authenticator interface {
	Login(username, password string) (auth.Token, error)
	Verify(token string) (string, error)
}

// Server объединяет обработчики admin API.
type Server struct {
	deals    dealService
	settings settingsService
	scanner  scanner
	posts    postLister
	runs     runLister
	auth     authenticator
}

func NewServer(
	deals dealService,
	settings settingsService,
	scanner scanner,
	posts postLister,
	runs runLister,
	auth authenticator,
) Server {
	return Server{
		deals:    deals,
		settings: settings,
		scanner:  scanner,
		posts:    posts,
		runs:     runs,
		auth:     auth,
	}
}

// Handler собирает роутер со стеком middleware.
func (s Server) Handler(serviceName string, corsOrigins []string) http.Handler {
	masker := logx.NewSensitiveDataMasker()

	r := chi.NewRouter()

	r.Use(
		middlewarex.TraceID,
		middlewarex.Recovery,
		middlewarex.Tracing(serviceName),
		cors.Handler(cors.Options{
			AllowedOrigins:   corsOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Trace-Id"},
			ExposedHeaders:   []string{"X-Trace-Id"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
		middlewarex.RequestLogging(masker, logFieldMaxLen),
		middlewarex.ResponseLogging(masker, logFieldMaxLen),
	)

	s.RegisterRoutes(r)

	return r
}
