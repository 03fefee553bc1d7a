// Package migrations embeds the PostgreSQL DDL migrations.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
