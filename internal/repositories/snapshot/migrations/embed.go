package migrations

import "embed"

// FS contains embedded SQLite migrations for the local snapshot cache.
//
//go:embed *.sql
var FS embed.FS
