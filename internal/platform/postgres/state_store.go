package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/praxisapp/praxis-api/internal/domain"
	"github.com/praxisapp/praxis-api/internal/platform/logger"
	"github.com/praxisapp/praxis-api/internal/store"
)

// PostgresLearningStateStore implements the store.LearningStateStore interface
// using a PostgreSQL database as the storage backend.
type PostgresLearningStateStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresLearningStateStore creates a new PostgreSQL implementation of
// the LearningStateStore interface. If logger is nil, a default logger will
// be used.
func NewPostgresLearningStateStore(db store.DBTX, logger *slog.Logger) *PostgresLearningStateStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresLearningStateStore{
		db:     db,
		logger: logger.With(slog.String("component", "learning_state_store")),
	}
}

// Ensure PostgresLearningStateStore implements store.LearningStateStore interface
var _ store.LearningStateStore = (*PostgresLearningStateStore)(nil)

// WithTx implements store.LearningStateStore.WithTx
func (s *PostgresLearningStateStore) WithTx(tx *sql.Tx) store.LearningStateStore {
	return &PostgresLearningStateStore{db: tx, logger: s.logger}
}

const stateColumns = `user_id, question_id, topic_id, ease_factor, interval_days, box_number,
	total_attempts, correct_attempts, last_review_at, next_due_at, created_at, updated_at`

// Get implements store.LearningStateStore.Get
func (s *PostgresLearningStateStore) Get(
	ctx context.Context,
	userID, questionID uuid.UUID,
) (*domain.LearningState, error) {
	query := `SELECT ` + stateColumns + ` FROM learning_states WHERE user_id = $1 AND question_id = $2`
	return s.getOne(ctx, query, userID, questionID)
}

// GetForUpdate implements store.LearningStateStore.GetForUpdate
// The row lock serializes concurrent updates within a transaction.
func (s *PostgresLearningStateStore) GetForUpdate(
	ctx context.Context,
	userID, questionID uuid.UUID,
) (*domain.LearningState, error) {
	query := `SELECT ` + stateColumns + ` FROM learning_states
		WHERE user_id = $1 AND question_id = $2 FOR UPDATE`
	return s.getOne(ctx, query, userID, questionID)
}

func (s *PostgresLearningStateStore) getOne(
	ctx context.Context,
	query string,
	userID, questionID uuid.UUID,
) (*domain.LearningState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	state, err := scanState(s.db.QueryRowContext(ctx, query, userID, questionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("learning state not found",
				slog.String("user_id", userID.String()),
				slog.String("question_id", questionID.String()))
			return nil, store.ErrLearningStateNotFound
		}
		log.Error("failed to get learning state",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("question_id", questionID.String()))
		return nil, err
	}

	return state, nil
}

// Upsert implements store.LearningStateStore.Upsert
// The (user_id, question_id) primary key makes this an insert on first answer
// and a full-row replacement afterwards.
func (s *PostgresLearningStateStore) Upsert(ctx context.Context, state *domain.LearningState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := state.Validate(); err != nil {
		log.Warn("learning state validation failed during upsert",
			slog.String("error", err.Error()),
			slog.String("user_id", state.UserID.String()),
			slog.String("question_id", state.QuestionID.String()))
		return err
	}

	query := `
		INSERT INTO learning_states (` + stateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (user_id, question_id) DO UPDATE SET
			ease_factor = EXCLUDED.ease_factor,
			interval_days = EXCLUDED.interval_days,
			box_number = EXCLUDED.box_number,
			total_attempts = EXCLUDED.total_attempts,
			correct_attempts = EXCLUDED.correct_attempts,
			last_review_at = EXCLUDED.last_review_at,
			next_due_at = EXCLUDED.next_due_at,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		state.UserID,
		state.QuestionID,
		state.TopicID,
		state.EaseFactor,
		state.IntervalDays,
		state.BoxNumber,
		state.TotalAttempts,
		state.CorrectAttempts,
		state.LastReviewAt,
		state.NextDueAt,
		state.CreatedAt,
		state.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to upsert learning state",
			slog.String("error", err.Error()),
			slog.String("user_id", state.UserID.String()),
			slog.String("question_id", state.QuestionID.String()))
		return err
	}

	log.Debug("learning state upserted",
		slog.String("user_id", state.UserID.String()),
		slog.String("question_id", state.QuestionID.String()),
		slog.Int("box_number", state.BoxNumber),
		slog.Int("interval_days", state.IntervalDays))
	return nil
}

// ListByTopic implements store.LearningStateStore.ListByTopic
func (s *PostgresLearningStateStore) ListByTopic(
	ctx context.Context,
	userID, topicID uuid.UUID,
) ([]*domain.LearningState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + stateColumns + `
		FROM learning_states
		WHERE user_id = $1 AND topic_id = $2
	`
	rows, err := s.db.QueryContext(ctx, query, userID, topicID)
	if err != nil {
		log.Error("failed to query learning states by topic",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("topic_id", topicID.String()))
		return nil, err
	}
	defer closeRows(rows, log)

	var states []*domain.LearningState
	for rows.Next() {
		state, err := scanState(rows)
		if err != nil {
			log.Error("failed to scan learning state row", slog.String("error", err.Error()))
			return nil, err
		}
		states = append(states, state)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	if states == nil {
		states = []*domain.LearningState{}
	}
	return states, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanState(row rowScanner) (*domain.LearningState, error) {
	var state domain.LearningState
	var lastReview, nextDue sql.NullTime

	err := row.Scan(
		&state.UserID,
		&state.QuestionID,
		&state.TopicID,
		&state.EaseFactor,
		&state.IntervalDays,
		&state.BoxNumber,
		&state.TotalAttempts,
		&state.CorrectAttempts,
		&lastReview,
		&nextDue,
		&state.CreatedAt,
		&state.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastReview.Valid {
		t := lastReview.Time.UTC()
		state.LastReviewAt = &t
	}
	if nextDue.Valid {
		t := nextDue.Time.UTC()
		state.NextDueAt = &t
	}
	return &state, nil
}
