package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/praxisapp/praxis-api/internal/domain"
	"github.com/praxisapp/praxis-api/internal/platform/logger"
	"github.com/praxisapp/praxis-api/internal/store"
)

// PostgresQuestionStore implements the store.QuestionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresQuestionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresQuestionStore creates a new PostgreSQL implementation of the
// QuestionStore interface. If logger is nil, a default logger will be used.
func NewPostgresQuestionStore(db store.DBTX, logger *slog.Logger) *PostgresQuestionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresQuestionStore{
		db:     db,
		logger: logger.With(slog.String("component", "question_store")),
	}
}

// Ensure PostgresQuestionStore implements store.QuestionStore interface
var _ store.QuestionStore = (*PostgresQuestionStore)(nil)

// WithTx implements store.QuestionStore.WithTx
func (s *PostgresQuestionStore) WithTx(tx *sql.Tx) store.QuestionStore {
	return &PostgresQuestionStore{db: tx, logger: s.logger}
}

const questionColumns = `id, topic_id, stem, choices, answer_index, explanation, active, created_at`

// GetByID implements store.QuestionStore.GetByID
func (s *PostgresQuestionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	return s.getWhere(ctx, `id = $1`, id)
}

// GetActiveByID implements store.QuestionStore.GetActiveByID
// Inactive questions are reported as not found, matching what a learner with
// a stale session would observe.
func (s *PostgresQuestionStore) GetActiveByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	return s.getWhere(ctx, `id = $1 AND active`, id)
}

func (s *PostgresQuestionStore) getWhere(ctx context.Context, where string, id uuid.UUID) (*domain.Question, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + questionColumns + ` FROM questions WHERE ` + where

	var q domain.Question
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&q.ID,
		&q.TopicID,
		&q.Stem,
		&q.Choices,
		&q.AnswerIndex,
		&q.Explanation,
		&q.Active,
		&q.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("question not found", slog.String("question_id", id.String()))
			return nil, store.ErrQuestionNotFound
		}
		log.Error("failed to get question",
			slog.String("error", err.Error()),
			slog.String("question_id", id.String()))
		return nil, err
	}

	return &q, nil
}

// ListByIDs implements store.QuestionStore.ListByIDs
// Results preserve the order of the input IDs; missing or inactive questions
// are skipped without error.
func (s *PostgresQuestionStore) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Question, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(ids) == 0 {
		return []*domain.Question{}, nil
	}

	query := `
		SELECT ` + questionColumns + `
		FROM questions
		WHERE id = ANY($1) AND active
	`
	rows, err := s.db.QueryContext(ctx, query, idArray(ids))
	if err != nil {
		log.Error("failed to query questions by IDs", slog.String("error", err.Error()))
		return nil, err
	}
	defer closeRows(rows, log)

	byID := make(map[uuid.UUID]*domain.Question, len(ids))
	for rows.Next() {
		var q domain.Question
		err := rows.Scan(
			&q.ID,
			&q.TopicID,
			&q.Stem,
			&q.Choices,
			&q.AnswerIndex,
			&q.Explanation,
			&q.Active,
			&q.CreatedAt,
		)
		if err != nil {
			log.Error("failed to scan question row", slog.String("error", err.Error()))
			return nil, err
		}
		byID[q.ID] = &q
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	questions := make([]*domain.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			questions = append(questions, q)
		}
	}
	return questions, nil
}

// ListNewIDs implements store.QuestionStore.ListNewIDs
// "New" means the user has no attempt record for the question. Catalog order
// (created_at, id) keeps the selection deterministic.
func (s *PostgresQuestionStore) ListNewIDs(
	ctx context.Context,
	userID, topicID uuid.UUID,
	limit int,
) ([]uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		return []uuid.UUID{}, nil
	}

	query := `
		SELECT q.id
		FROM questions q
		WHERE q.topic_id = $1
		  AND q.active
		  AND NOT EXISTS (
			SELECT 1 FROM attempts a
			WHERE a.user_id = $2 AND a.question_id = q.id
		  )
		ORDER BY q.created_at, q.id
		LIMIT $3
	`
	rows, err := s.db.QueryContext(ctx, query, topicID, userID, limit)
	if err != nil {
		log.Error("failed to query new question IDs",
			slog.String("error", err.Error()),
			slog.String("topic_id", topicID.String()))
		return nil, err
	}
	defer closeRows(rows, log)

	return scanIDs(rows)
}

// CountActive implements store.QuestionStore.CountActive
func (s *PostgresQuestionStore) CountActive(ctx context.Context, topicID uuid.UUID) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var count int
	query := `SELECT COUNT(*) FROM questions WHERE topic_id = $1 AND active`
	if err := s.db.QueryRowContext(ctx, query, topicID).Scan(&count); err != nil {
		log.Error("failed to count active questions",
			slog.String("error", err.Error()),
			slog.String("topic_id", topicID.String()))
		return 0, err
	}
	return count, nil
}

// CreateReport implements store.QuestionStore.CreateReport
// Returns store.ErrInvalidEntity if the question does not exist.
func (s *PostgresQuestionStore) CreateReport(ctx context.Context, report *domain.QuestionReport) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO question_reports (id, user_id, question_id, issue_type, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		report.ID,
		report.UserID,
		report.QuestionID,
		report.IssueType,
		report.Message,
		report.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during report creation",
				slog.String("question_id", report.QuestionID.String()))
			return fmt.Errorf("%w: question with ID %s not found",
				store.ErrInvalidEntity, report.QuestionID)
		}
		log.Error("failed to create question report",
			slog.String("error", err.Error()),
			slog.String("question_id", report.QuestionID.String()))
		return err
	}

	log.Info("question report created",
		slog.String("question_id", report.QuestionID.String()),
		slog.String("issue_type", report.IssueType))
	return nil
}

// idArray converts UUIDs to the string form the pgx stdlib driver binds to
// a uuid[] parameter.
func idArray(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// scanIDs drains a single-column uuid result set.
func scanIDs(rows *sql.Rows) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return ids, nil
}

// closeRows closes a result set, logging close failures.
func closeRows(rows *sql.Rows, log *slog.Logger) {
	if err := rows.Close(); err != nil {
		log.Error("failed to close rows", slog.String("error", err.Error()))
	}
}
