package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/praxisapp/praxis-api/internal/config"
	"github.com/praxisapp/praxis-api/internal/domain/srs"
	"github.com/praxisapp/praxis-api/internal/platform/postgres"
	"github.com/praxisapp/praxis-api/internal/service/auth"
	"github.com/praxisapp/praxis-api/internal/service/bookmark"
	"github.com/praxisapp/praxis-api/internal/service/progress"
	"github.com/praxisapp/praxis-api/internal/service/report"
	"github.com/praxisapp/praxis-api/internal/service/review"
	"github.com/praxisapp/praxis-api/internal/service/session"
	"github.com/praxisapp/praxis-api/internal/store"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// application bundles the wired dependencies of the server process.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore     store.UserStore
	questionStore store.QuestionStore
	stateStore    store.LearningStateStore
	attemptStore  store.AttemptStore
	bookmarkStore store.BookmarkStore

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	reviewService    review.ReviewService
	sessionService   *session.Service
	progressService  *progress.Service
	bookmarkService  *bookmark.Service
	reportService    *report.Service
}

// newApplication opens the database and wires stores, services and the
// scheduling algorithm from configuration.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.questionStore = postgres.NewPostgresQuestionStore(db, logger)
	app.stateStore = postgres.NewPostgresLearningStateStore(db, logger)
	app.attemptStore = postgres.NewPostgresAttemptStore(db, logger)
	app.bookmarkStore = postgres.NewPostgresBookmarkStore(db, logger)

	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		closeDB(db, logger)
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}
	app.passwordVerifier = auth.NewBcryptVerifier()

	app.reviewService = review.NewReviewService(
		db,
		app.userStore,
		app.questionStore,
		app.stateStore,
		app.attemptStore,
		srsServiceFromConfig(cfg.SRS),
		logger,
	)
	app.sessionService = session.NewService(
		app.questionStore,
		app.stateStore,
		app.attemptStore,
		app.bookmarkStore,
		session.NewComposer(rand.New(rand.NewSource(time.Now().UnixNano()))),
		logger,
	)
	app.progressService = progress.NewService(
		app.userStore,
		app.questionStore,
		app.stateStore,
		app.attemptStore,
		logger,
	)
	app.bookmarkService = bookmark.NewService(app.bookmarkStore, app.questionStore, logger)
	app.reportService = report.NewService(app.questionStore, logger)

	return app, nil
}

// srsServiceFromConfig builds the scheduling service from the configured
// box-movement knobs, keeping algorithm defaults for everything else.
func srsServiceFromConfig(cfg config.SRSConfig) srs.Service {
	return srs.NewServiceWithParams(srs.NewParams(srs.ParamsConfig{
		BoxPenaltyIncorrect: cfg.BoxPenaltyIncorrect,
		BoxResetOnDontKnow:  cfg.BoxResetOnDontKnow,
	}))
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	closeDB(app.db, app.logger)
}

func closeDB(db *sql.DB, logger *slog.Logger) {
	if err := db.Close(); err != nil {
		logger.Error("failed to close database", "error", err)
	}
}
