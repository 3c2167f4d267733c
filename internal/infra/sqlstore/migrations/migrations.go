package migrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the catalog schema history. Files register themselves
// in init, ordered by their numeric file name prefix.
var Migrations = migrate.NewMigrations()
