package connectors

import (
	"context"
	"log/slog"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // postgres driver, registered as "pgx"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // sqlite driver, registered as "sqlite3"
	"github.com/samber/lo"

	"smartdeals/pkg/logx"
)

// SQL lazily opens a sqlx pool for either postgres (Driver "pgx") or sqlite
// (Driver "sqlite3").
type SQL struct {
	value           *sqlx.DB
	Driver          string
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	init            sync.Once
}

func (p *SQL) Client(ctx context.Context) *sqlx.DB {
	p.init.Do(func() {
		p.value = lo.Must(sqlx.ConnectContext(ctx, p.Driver, p.DSN))

		maxOpen := p.MaxOpenConns
		if p.Driver == "sqlite3" {
			// sqlite serializes writers anyway; a single connection also
			// keeps ":memory:" databases shared.
			maxOpen = 1
		}

		p.value.SetMaxOpenConns(maxOpen)
		p.value.SetMaxIdleConns(p.MaxIdleConns)
		p.value.SetConnMaxLifetime(p.ConnMaxLifetime)

		logger(ctx).Info("database connected", slog.String("driver", p.Driver))
	})

	return p.value
}

func (p *SQL) Close(ctx context.Context) {
	if p.value == nil {
		return
	}

	if err := p.value.Close(); err != nil {
		logger(ctx).Error("sqlClient.Close", logx.Error(err))
	}

	logger(ctx).Info("database disconnected", slog.String("driver", p.Driver))
}
