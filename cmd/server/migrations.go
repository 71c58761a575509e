package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
)

// defaultMigrationsDir is where the goose SQL migrations live, relative to
// the working directory the server is launched from.
const defaultMigrationsDir = "migrations"

// runMigrations applies pending goose migrations before the server starts
// serving traffic.
func runMigrations(db *sql.DB, logger *slog.Logger, dir string) error {
	if dir == "" {
		dir = defaultMigrationsDir
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	logger.Info("applying database migrations", "dir", dir)
	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	logger.Info("database migrations applied", "version", version)
	return nil
}
