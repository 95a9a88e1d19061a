// Package migrations embeds the per-dialect schema migration files so the
// server binary carries its own schema.
package migrations

import "embed"

//go:embed sqlite postgres mysql
var Files embed.FS
