// Package persistence - хранилище сделок на sqlx. Один и тот же код работает
// с postgres (драйвер pgx) и sqlite (драйвер sqlite3): запросы пишутся с "?"
// и проходят через Rebind.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	"github.com/mattn/go-sqlite3"

	"smartdeals/internal/domain"
	"smartdeals/internal/infrastructure/persistence/migrations"
	"smartdeals/pkg/errcodes"
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"

	pgErrUniqueViolation = "23505"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

// withTx выполняет функцию в транзакции.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return domain.WrapError(
				fmt.Errorf("%w; rollback: %v", err, rbErr),
				errcodes.InternalServerError,
				"transaction failed",
			)
		}

		return err
	}

	if err = tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}

	return nil
}

// isUniqueViolation распознаёт нарушение уникального индекса в обоих
// драйверах.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgErrUniqueViolation
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	return false
}

// Migrate применяет встроенные миграции диалекта в лексическом порядке.
// Миграции идемпотентны.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	var (
		fsys fs.FS
		dir  string
	)

	switch db.DriverName() {
	case DriverPostgres, "postgres":
		fsys, dir = migrations.PostgresFS, "postgres"
	case DriverSQLite:
		fsys, dir = migrations.SQLiteFS, "sqlite"
	default:
		return fmt.Errorf("migrate: unsupported driver %q", db.DriverName())
	}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("fs.ReadDir: %w", err)
	}

	files := make([]string, 0, len(entries))

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}

	sort.Strings(files)

	for _, file := range files {
		data, err := fs.ReadFile(fsys, dir+"/"+file)
		if err != nil {
			return fmt.Errorf("fs.ReadFile(%s): %w", file, err)
		}

		if _, err = db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", file, err)
		}

		logger(ctx).Debug("migration applied", "file", file)
	}

	return nil
}
