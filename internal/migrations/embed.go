// Package migrations embeds the history store schema, applied with
// goose on open.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
