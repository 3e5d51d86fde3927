// Package migrations embeds the PostgreSQL schema files.
package migrations

import "embed"

// FS holds the numbered *.sql files, applied in name order
//
//go:embed *.sql
var FS embed.FS
