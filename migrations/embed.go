// Package migrations embeds the goose SQL migrations so the server binary
// can apply them without a migrations directory on disk.
package migrations

import "embed"

// FS holds the SQL migration files.
//
//go:embed *.sql
var FS embed.FS
