package migrations

import "embed"

// FS contains the fight history schema.
//
//go:embed *.sql
var FS embed.FS
