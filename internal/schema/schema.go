// Package schema declares the application's migrations.
//
// Files in sql/ are applied in numeric order by [migrations.Runner]. Never edit a file
// once it has shipped; add a new, higher-numbered file instead.
package schema

import (
	"embed"

	"github.com/desertthunder/spkr/internal/migrations"
)

//go:embed sql/*.sql
var files embed.FS

// Tables lists the tables the web layer reads once migrations have run.
var Tables = []string{"songs", "playlists", "users"}

// Migrations returns the declared migrations in the order they must be applied.
func Migrations() ([]migrations.Action, error) {
	return migrations.FromFS(files, "sql")
}
