package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/praxisapp/praxis-api/internal/domain"
)

// QuestionStore defines the interface for the question catalog.
// The catalog is read-mostly from the engine's point of view; authoring
// happens elsewhere.
type QuestionStore interface {
	// GetByID retrieves a question by its unique ID, active or not.
	// Returns ErrQuestionNotFound if the question does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error)

	// GetActiveByID retrieves an active question by its unique ID.
	// Returns ErrQuestionNotFound if the question does not exist or has
	// been deactivated since the caller last saw it.
	GetActiveByID(ctx context.Context, id uuid.UUID) (*domain.Question, error)

	// ListByIDs retrieves the active questions for the given IDs, preserving
	// the input order. Missing or inactive IDs are silently skipped.
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Question, error)

	// ListNewIDs returns up to limit IDs of active questions in the topic the
	// user has never attempted, in a stable catalog order.
	ListNewIDs(ctx context.Context, userID, topicID uuid.UUID, limit int) ([]uuid.UUID, error)

	// CountActive returns the number of active questions in the topic.
	CountActive(ctx context.Context, topicID uuid.UUID) (int, error)

	// CreateReport files a learner report against a question.
	CreateReport(ctx context.Context, report *domain.QuestionReport) error

	// WithTx returns a new QuestionStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) QuestionStore
}
