// Package migrations embeds the SQLite DDL migrations.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
