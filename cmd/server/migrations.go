package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
	"github.com/tasktrack/tasktrack-api/migrations"
)

// handleMigrations executes the requested goose migration command against
// the embedded migration files. It's called from run() when the -migrate
// flag is set; the process exits after the command completes.
func handleMigrations(db *sql.DB, migrateCmd string) error {
	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	slog.Info("Executing migrations", "command", migrateCmd)

	switch migrateCmd {
	case "up":
		if err := goose.Up(db, "."); err != nil {
			return fmt.Errorf("migration up failed: %w", err)
		}
	case "down":
		if err := goose.Down(db, "."); err != nil {
			return fmt.Errorf("migration down failed: %w", err)
		}
	case "status":
		if err := goose.Status(db, "."); err != nil {
			return fmt.Errorf("migration status failed: %w", err)
		}
	case "version":
		if err := goose.Version(db, "."); err != nil {
			return fmt.Errorf("migration version failed: %w", err)
		}
	default:
		return fmt.Errorf("unknown migration command: %q", migrateCmd)
	}

	slog.Info("Migration command completed", "command", migrateCmd)
	return nil
}
