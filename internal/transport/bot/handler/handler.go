package handler

import (
	"context"

	"smartdeals/internal/domain/entity"
	"smartdeals/internal/worker"
)

type dealService interface {
	List(ctx context.Context, filter entity.DealFilter) ([]entity.Deal, error)
	Approve(ctx context.Context, id int64, s entity.Settings) (*entity.Deal, []entity.Post, error)
	Reject(ctx context.Context, id int64) (*entity.Deal, error)
	ForcePost(ctx context.Context, id int64, s entity.Settings) (*entity.Deal, []entity.Post, error)
}

type settingsService interface {
	Get(ctx context.Context) (entity.Settings, error)
	SetMode(ctx context.Context, mode entity.Mode) (entity.Settings, error)
	SetMinDiscount(ctx context.Context, percent float64) (entity.Settings, error)
	SetApprovalThreshold(ctx context.Context, threshold int) (entity.Settings, error)
}

type scanner interface {
	Tick(ctx context.Context) (entity.ScanRun, error)
	Start(ctx context.Context) error
	Stop()
	IsRunning() bool
	Sources() []worker.SourceState
}

type Handler struct {
	deals    dealService
	settings settingsService
	scanner  scanner

	// scanCtx - контекст фонового сканера: он живёт дольше апдейта, который
	// его запустил.
	scanCtx context.Context //nolint:containedctx
}

func New(
	scanCtx context.Context,
	deals dealService,
	settings settingsService,
	scanner scanner,
) *Handler {
	return &Handler{
		deals:    deals,
		settings: settings,
		scanner:  scanner,
		scanCtx:  scanCtx,
	}
}
