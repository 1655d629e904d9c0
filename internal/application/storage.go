package application

import (
	"context"
	"fmt"

	"smartdeals/internal/config"
	"smartdeals/internal/domain/entity"
	"smartdeals/internal/domain/service/deal"
	"smartdeals/internal/domain/service/settings"
	"smartdeals/internal/infrastructure/memstore"
	"smartdeals/internal/infrastructure/persistence"
	"smartdeals/internal/worker"
	"smartdeals/pkg/application/connectors"
	"smartdeals/pkg/probe"
)

type dealStore interface {
	deal.Repository
	worker.DealRepository
}

type postStore interface {
	Create(ctx context.Context, p *entity.Post) error
	List(ctx context.Context, limit int) ([]entity.Post, error)
}

type runStore interface {
	worker.ScanRunRepository
	List(ctx context.Context, limit int) ([]entity.ScanRun, error)
}

// Storage - репозитории одного бэкенда: SQL (postgres, sqlite) или память.
type Storage struct {
	Deals    dealStore
	Prices   worker.PriceHistory
	Posts    postStore
	Runs     runStore
	Settings settings.Repository

	sql *connectors.SQL
}

// OpenStorage подключает хранилище по DB_DRIVER. migrate применяет миграции
// сразу после подключения.
func OpenStorage(ctx context.Context, cfg config.Database, migrate bool) (*Storage, error) {
	if cfg.Driver == config.DriverMemory {
		store := memstore.New()

		logger(ctx).Warn("in-memory storage, data is lost on restart")

		return &Storage{
			Deals:    store.Deals,
			Prices:   store.Prices,
			Posts:    store.Posts,
			Runs:     store.Runs,
			Settings: store.Settings,
		}, nil
	}

	conn := &connectors.SQL{
		Driver:          cfg.Driver,
		DSN:             cfg.DSN,
		MaxIdleConns:    cfg.MaxIdleConns,
		MaxOpenConns:    cfg.MaxOpenConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}

	db := conn.Client(ctx)

	if migrate {
		if err := persistence.Migrate(ctx, db); err != nil {
			conn.Close(ctx)
			return nil, fmt.Errorf("persistence.Migrate: %w", err)
		}
	}

	return &Storage{
		Deals:    persistence.NewDealRepository(db),
		Prices:   persistence.NewPriceHistoryRepository(db),
		Posts:    persistence.NewPostRepository(db),
		Runs:     persistence.NewScanRunRepository(db),
		Settings: persistence.NewSettingsRepository(db),
		sql:      conn,
	}, nil
}

// ReadinessChecks - проверки для /ready. У хранилища в памяти их нет.
func (s *Storage) ReadinessChecks() map[string]probe.ReadinessCheck {
	checks := make(map[string]probe.ReadinessCheck)

	if s.sql != nil {
		checks["database"] = func(ctx context.Context) error {
			return s.sql.Client(ctx).PingContext(ctx) //nolint:wrapcheck
		}
	}

	return checks
}

func (s *Storage) Close(ctx context.Context) {
	if s.sql != nil {
		s.sql.Close(ctx)
	}
}
