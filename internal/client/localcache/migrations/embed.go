// Package migrations embeds the local cache schema migrations.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
