// Package migrations embeds the SQL schema files applied on startup.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
