package migrations

import "embed"

// FS contains the embedded SQLite schema migrations, applied in filename order.
//
//go:embed *.sql
var FS embed.FS
