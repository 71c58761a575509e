package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/praxisapp/praxis-api/internal/domain"
	"github.com/praxisapp/praxis-api/internal/platform/logger"
	"github.com/praxisapp/praxis-api/internal/store"
)

// PostgresAttemptStore implements the store.AttemptStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAttemptStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAttemptStore creates a new PostgreSQL implementation of the
// AttemptStore interface. If logger is nil, a default logger will be used.
func NewPostgresAttemptStore(db store.DBTX, logger *slog.Logger) *PostgresAttemptStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAttemptStore{
		db:     db,
		logger: logger.With(slog.String("component", "attempt_store")),
	}
}

// Ensure PostgresAttemptStore implements store.AttemptStore interface
var _ store.AttemptStore = (*PostgresAttemptStore)(nil)

// WithTx implements store.AttemptStore.WithTx
func (s *PostgresAttemptStore) WithTx(tx *sql.Tx) store.AttemptStore {
	return &PostgresAttemptStore{db: tx, logger: s.logger}
}

// Create implements store.AttemptStore.Create
// The UNIQUE (user_id, attempt_id) constraint makes this insert the
// idempotency commit point: a conflicting insert returns
// store.ErrDuplicateAttempt and the caller must treat the submission as
// already processed.
func (s *PostgresAttemptStore) Create(ctx context.Context, attempt *domain.Attempt) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := attempt.Validate(); err != nil {
		log.Warn("attempt validation failed during create",
			slog.String("error", err.Error()),
			slog.String("attempt_id", attempt.AttemptID.String()))
		return err
	}

	query := `
		INSERT INTO attempts (id, user_id, question_id, topic_id, attempt_id,
			chosen_index, correct, dont_know, ease_after, interval_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		attempt.ID,
		attempt.UserID,
		attempt.QuestionID,
		attempt.TopicID,
		attempt.AttemptID,
		attempt.ChosenIndex,
		attempt.Correct,
		attempt.DontKnow,
		attempt.EaseAfter,
		attempt.IntervalAfter,
		attempt.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			log.Debug("duplicate attempt insert",
				slog.String("user_id", attempt.UserID.String()),
				slog.String("attempt_id", attempt.AttemptID.String()))
			return store.ErrDuplicateAttempt
		}
		log.Error("failed to create attempt",
			slog.String("error", err.Error()),
			slog.String("user_id", attempt.UserID.String()),
			slog.String("attempt_id", attempt.AttemptID.String()))
		return err
	}

	log.Debug("attempt recorded",
		slog.String("user_id", attempt.UserID.String()),
		slog.String("question_id", attempt.QuestionID.String()),
		slog.Bool("correct", attempt.Correct))
	return nil
}

// GetByAttemptID implements store.AttemptStore.GetByAttemptID
func (s *PostgresAttemptStore) GetByAttemptID(
	ctx context.Context,
	userID, attemptID uuid.UUID,
) (*domain.Attempt, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, question_id, topic_id, attempt_id, chosen_index,
			correct, dont_know, ease_after, interval_after, created_at, seq
		FROM attempts
		WHERE user_id = $1 AND attempt_id = $2
	`

	var attempt domain.Attempt
	var chosenIndex sql.NullInt32

	err := s.db.QueryRowContext(ctx, query, userID, attemptID).Scan(
		&attempt.ID,
		&attempt.UserID,
		&attempt.QuestionID,
		&attempt.TopicID,
		&attempt.AttemptID,
		&chosenIndex,
		&attempt.Correct,
		&attempt.DontKnow,
		&attempt.EaseAfter,
		&attempt.IntervalAfter,
		&attempt.CreatedAt,
		&attempt.Seq,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrAttemptNotFound
		}
		log.Error("failed to get attempt by idempotency key",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("attempt_id", attemptID.String()))
		return nil, err
	}

	if chosenIndex.Valid {
		v := int(chosenIndex.Int32)
		attempt.ChosenIndex = &v
	}
	return &attempt, nil
}

// LastOutcomesByTopic implements store.AttemptStore.LastOutcomesByTopic
// A window function ranks each user's attempts per question by recency
// (created_at descending, seq as tie-break) and keeps the newest n.
func (s *PostgresAttemptStore) LastOutcomesByTopic(
	ctx context.Context,
	userID, topicID uuid.UUID,
	n int,
) (map[uuid.UUID][]bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT question_id, correct
		FROM (
			SELECT question_id, correct,
				ROW_NUMBER() OVER (
					PARTITION BY question_id
					ORDER BY created_at DESC, seq DESC
				) AS rn
			FROM attempts
			WHERE user_id = $1 AND topic_id = $2
		) ranked
		WHERE rn <= $3
		ORDER BY question_id, rn
	`
	rows, err := s.db.QueryContext(ctx, query, userID, topicID, n)
	if err != nil {
		log.Error("failed to query recent outcomes",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("topic_id", topicID.String()))
		return nil, err
	}
	defer closeRows(rows, log)

	outcomes := make(map[uuid.UUID][]bool)
	for rows.Next() {
		var questionID uuid.UUID
		var correct bool
		if err := rows.Scan(&questionID, &correct); err != nil {
			log.Error("failed to scan outcome row", slog.String("error", err.Error()))
			return nil, err
		}
		outcomes[questionID] = append(outcomes[questionID], correct)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return outcomes, nil
}

// CountByDay implements store.AttemptStore.CountByDay
func (s *PostgresAttemptStore) CountByDay(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) (map[string]int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, COUNT(*)
		FROM attempts
		WHERE user_id = $1 AND created_at >= $2
		GROUP BY day
	`
	rows, err := s.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		log.Error("failed to count attempts by day",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer closeRows(rows, log)

	counts := make(map[string]int)
	for rows.Next() {
		var day string
		var count int
		if err := rows.Scan(&day, &count); err != nil {
			log.Error("failed to scan day count row", slog.String("error", err.Error()))
			return nil, err
		}
		counts[day] = count
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return counts, nil
}
