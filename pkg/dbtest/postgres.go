package dbtest

import (
	"context"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // postgres driver
	"github.com/jmoiron/sqlx"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Postgres starts a disposable postgres container and returns a pool
// connected to it. Skipped with -short since it needs docker.
func Postgres(tb testing.TB) *sqlx.DB {
	tb.Helper()

	if testing.Short() {
		tb.Skip("postgres container tests are skipped in short mode")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("smartdeals"),
		postgres.WithUsername("smartdeals"),
		postgres.WithPassword("smartdeals"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		tb.Fatalf("postgres.Run: %v", err)
	}

	tb.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			tb.Logf("container.Terminate: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		tb.Fatalf("container.ConnectionString: %v", err)
	}

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		tb.Fatalf("sqlx.ConnectContext: %v", err)
	}

	tb.Cleanup(func() {
		_ = db.Close()
	})

	return db
}
