package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/praxisapp/praxis-api/internal/domain"
)

// AttemptStore defines the interface for the append-only attempt log.
type AttemptStore interface {
	// Create appends a new attempt record. The (user_id, attempt_id) pair is
	// covered by a unique constraint; a conflicting insert returns
	// ErrDuplicateAttempt and is the idempotency commit point for answer
	// submission.
	Create(ctx context.Context, attempt *domain.Attempt) error

	// GetByAttemptID retrieves the attempt recorded for the given user and
	// idempotency key. Returns ErrAttemptNotFound if none exists.
	GetByAttemptID(ctx context.Context, userID, attemptID uuid.UUID) (*domain.Attempt, error)

	// LastOutcomesByTopic returns, per question in the topic, the correctness
	// of the user's most recent attempts, newest first, at most n per
	// question. Ordering is by created_at descending with the sequence number
	// as tie-break.
	LastOutcomesByTopic(
		ctx context.Context,
		userID, topicID uuid.UUID,
		n int,
	) (map[uuid.UUID][]bool, error)

	// CountByDay returns the number of attempts per UTC calendar day
	// (formatted YYYY-MM-DD) since the given time.
	CountByDay(ctx context.Context, userID uuid.UUID, since time.Time) (map[string]int, error)

	// WithTx returns a new AttemptStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) AttemptStore
}
