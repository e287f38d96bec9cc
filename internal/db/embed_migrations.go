package db

import "embed"

// MigrationFS embebe los .sql de internal/db/migrations para cmd/migrate y
// MIGRATE_ON_START.
//
//go:embed migrations/*.sql
var MigrationFS embed.FS
