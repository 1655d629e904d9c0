package dbtest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // sqlite driver
	"github.com/rs/xid"
)

// SQLite opens a private in-memory sqlite database and closes it when the
// test ends. The schema is left to the caller.
func SQLite(tb testing.TB) *sqlx.DB {
	tb.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_", "?", "_").Replace(tb.Name()) + "_" + xid.New().String()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)

	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		tb.Fatalf("sqlx.Open: %v", err)
	}

	db.SetMaxOpenConns(1)

	tb.Cleanup(func() {
		_ = db.Close()
	})

	return db
}
