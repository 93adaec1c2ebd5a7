package db

import (
	"embed"
	"io/fs"
)

//go:embed migrations/*.sql
var migrationsEmbed embed.FS

// getMigrationsFS returns the filesystem holding the migration SQL files.
// The files live under migrations/ inside the returned FS.
func getMigrationsFS() (fs.FS, error) {
	return migrationsEmbed, nil
}

// EmbeddedMigrations exposes the embedded migration files so serve startup
// can run the schema version check against them.
func EmbeddedMigrations() fs.FS {
	return migrationsEmbed
}
