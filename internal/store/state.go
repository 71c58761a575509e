package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/praxisapp/praxis-api/internal/domain"
)

// LearningStateStore defines the interface for learning state persistence.
// One row exists per (user, question); the review outcome processor is the
// only writer.
type LearningStateStore interface {
	// Get retrieves the learning state for a user and question.
	// Returns ErrLearningStateNotFound if the state does not exist yet.
	// NOTE: This method does NOT provide any row locking, so it should not be
	// used when you plan to update the row and need concurrency protection.
	Get(ctx context.Context, userID, questionID uuid.UUID) (*domain.LearningState, error)

	// GetForUpdate retrieves the learning state with a row-level lock using
	// SELECT FOR UPDATE. Use within a transaction when updating the row.
	// Returns ErrLearningStateNotFound if the state does not exist yet.
	GetForUpdate(ctx context.Context, userID, questionID uuid.UUID) (*domain.LearningState, error)

	// Upsert creates the learning state on first answer or replaces the
	// existing row on subsequent ones. It handles domain validation internally.
	Upsert(ctx context.Context, state *domain.LearningState) error

	// ListByTopic retrieves all learning states for a user within a topic.
	ListByTopic(ctx context.Context, userID, topicID uuid.UUID) ([]*domain.LearningState, error)

	// WithTx returns a new LearningStateStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) LearningStateStore
}
