// Package migrations embeds the SQL schema migrations for each storage engine.
package migrations

import "embed"

// FS holds postgres/*.sql and sqlite/*.sql.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

// Directories inside FS, one per engine.
const (
	PostgresDir = "postgres"
	SQLiteDir   = "sqlite"
)
