package migrations

import "embed"

// FS holds the numbered .sql files applied by Run, in filename order.
//
//go:embed *.sql
var FS embed.FS
