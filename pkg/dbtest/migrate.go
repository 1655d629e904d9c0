package dbtest

import (
	"io/fs"
	"sort"
	"testing"

	"github.com/jmoiron/sqlx"
)

// ApplyMigrations executes every SQL file of fsys matching the glob patterns,
// in lexical order across all patterns. A pattern that matches nothing fails
// the test.
func ApplyMigrations(tb testing.TB, db *sqlx.DB, fsys fs.FS, patterns ...string) {
	tb.Helper()

	var files []string

	for _, pattern := range patterns {
		matches, err := fs.Glob(fsys, pattern)
		if err != nil {
			tb.Fatalf("fs.Glob(%s): %v", pattern, err)
		}

		if len(matches) == 0 {
			tb.Fatalf("no migrations match %q", pattern)
		}

		files = append(files, matches...)
	}

	sort.Strings(files)

	for _, file := range files {
		query, err := fs.ReadFile(fsys, file)
		if err != nil {
			tb.Fatalf("fs.ReadFile(%s): %v", file, err)
		}

		if _, err = db.Exec(string(query)); err != nil {
			tb.Fatalf("db.Exec(%s): %v", file, err)
		}
	}
}
