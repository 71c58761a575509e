// Package main implements the entry point for the practice API server:
// spaced-repetition scheduling, session composition and progress tracking
// for multiple-choice question practice.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"

	"github.com/praxisapp/praxis-api/internal/config"
	"github.com/praxisapp/praxis-api/internal/platform/logger"
)

func main() {
	migrationsDir := flag.String("migrations-dir", defaultMigrationsDir,
		"directory containing goose SQL migrations")
	skipMigrations := flag.Bool("skip-migrations", false,
		"start without applying pending migrations")
	flag.Parse()

	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if !*skipMigrations {
		if err := runMigrations(app.db, app.logger, *migrationsDir); err != nil {
			app.cleanup()
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	if err := app.startHTTPServer(context.Background(), app.setupRouter()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// initializeApp loads configuration, sets up logging and wires the
// application dependencies.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	app, err := newApplication(cfg, appLogger)
	if err != nil {
		return nil, err
	}
	return app, nil
}
