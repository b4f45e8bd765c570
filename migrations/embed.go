package migrations

import "embed"

// FS holds the schema migrations for every storage backend, one directory per backend.
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
