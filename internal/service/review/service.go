// Package review implements the review outcome processor: it grades a
// submitted answer, advances the question's learning state through the
// scheduling algorithm, appends the attempt record and touches the user's
// practice streak, all within a single transaction keyed by the caller's
// idempotency token.
package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// AnswerSubmission is one submitted response for a question.
type AnswerSubmission struct {
	// AttemptID is the caller-supplied idempotency key. Replaying it returns
	// the originally recorded outcome without touching any state.
	AttemptID  uuid.UUID
	QuestionID uuid.UUID
	// ChosenIndex is the selected choice. Ignored when DontKnow is set.
	ChosenIndex int
	DontKnow    bool
}

// AnswerOutcome is the result of processing (or replaying) a submission.
type AnswerOutcome struct {
	Correct        bool
	CanonicalIndex int
	Explanation    string
	EaseFactor     float64
	IntervalDays   int
	// Replayed is true when the outcome was served from a previously
	// recorded attempt instead of a fresh state update.
	Replayed bool
}

// ReviewService processes answer submissions.
type ReviewService interface {
	// SubmitAnswer grades the submission for the user and applies the
	// scheduling update. Submitting the same (user, AttemptID) pair again
	// returns the stored outcome unchanged; the learning state is not
	// mutated a second time.
	//
	// Returns ErrQuestionNotFound if the question does not exist or is
	// inactive, and ErrUserDisabled if the account is blocked.
	SubmitAnswer(ctx context.Context, userID uuid.UUID, sub AnswerSubmission) (*AnswerOutcome, error)
}

// Common error types for ReviewService
var (
	// ErrQuestionNotFound indicates the question no longer exists or was
	// deactivated, e.g. removed after the session referencing it was
	// composed. Callers drop the question and continue.
	ErrQuestionNotFound = errors.New("question not found")

	// ErrUserDisabled indicates the account is blocked from practicing.
	ErrUserDisabled = errors.New("user account is disabled")

	// ErrInvalidSubmission indicates a malformed submission (missing
	// idempotency key or question ID).
	ErrInvalidSubmission = errors.New("invalid submission")
)

// ServiceError wraps errors from the review service with additional context,
// letting consumers differentiate failures with errors.As instead of string
// matching.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewSubmitAnswerError returns a new ServiceError for the submit_answer operation.
func NewSubmitAnswerError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "submit_answer",
		Message:   message,
		Err:       err,
	}
}
