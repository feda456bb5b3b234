// Package migrations embeds the SQL migrations of the usage store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
