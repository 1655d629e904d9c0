// Package migrations хранит схему базы для обоих диалектов.
package migrations

import "embed"

//go:embed postgres/*.sql
var PostgresFS embed.FS

//go:embed sqlite/*.sql
var SQLiteFS embed.FS
