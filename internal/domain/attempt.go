package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Attempt validation errors
var (
	ErrAttemptIDEmpty         = errors.New("attempt ID cannot be empty")
	ErrAttemptUserIDEmpty     = errors.New("attempt user ID cannot be empty")
	ErrAttemptQuestionIDEmpty = errors.New("attempt question ID cannot be empty")
)

// Attempt is an append-only record of a single processed answer. It carries
// the ease/interval snapshot taken after the state update and the caller's
// idempotency key (AttemptID). Rows are never mutated; the most recent three
// per question feed the mastery classifier.
type Attempt struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	QuestionID uuid.UUID `json:"question_id"`
	TopicID    uuid.UUID `json:"topic_id"`
	// AttemptID is the caller-supplied idempotency key, unique per user.
	AttemptID     uuid.UUID `json:"attempt_id"`
	ChosenIndex   *int      `json:"chosen_index"`
	Correct       bool      `json:"correct"`
	DontKnow      bool      `json:"dont_know"`
	EaseAfter     float64   `json:"ease_after"`
	IntervalAfter int       `json:"interval_after"`
	CreatedAt     time.Time `json:"created_at"`
	// Seq is a store-assigned monotonically increasing sequence number used to
	// break created_at ties when ordering attempts.
	Seq int64 `json:"seq"`
}

// Validate checks if the Attempt has valid data.
func (a *Attempt) Validate() error {
	if a.ID == uuid.Nil || a.AttemptID == uuid.Nil {
		return ErrAttemptIDEmpty
	}
	if a.UserID == uuid.Nil {
		return ErrAttemptUserIDEmpty
	}
	if a.QuestionID == uuid.Nil {
		return ErrAttemptQuestionIDEmpty
	}
	return nil
}
