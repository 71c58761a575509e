package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// AnswerGrade classifies a submitted response before scheduling.
type AnswerGrade string

// Possible answer grades
const (
	AnswerGradeCorrect   AnswerGrade = "correct"
	AnswerGradeIncorrect AnswerGrade = "incorrect"
	AnswerGradeDontKnow  AnswerGrade = "dont_know"
)

// Common validation errors for LearningState
var (
	ErrEmptyStateUserID     = errors.New("learning state user ID cannot be empty")
	ErrEmptyStateQuestionID = errors.New("learning state question ID cannot be empty")
	ErrInvalidInterval      = errors.New("interval must be greater than or equal to 0")
	ErrInvalidEaseFactor    = errors.New("ease factor must be within [1.3, 3.0]")
	ErrInvalidBoxNumber     = errors.New("box number must be within [1, 6]")
	ErrInvalidAttemptCounts = errors.New("correct attempts cannot exceed total attempts")
)

// Ease factor and box bounds enforced on every state update.
const (
	MinEaseFactor = 1.3
	MaxEaseFactor = 3.0
	MinBoxNumber  = 1
	MaxBoxNumber  = 6
)

// LearningState tracks a user's spaced repetition state for a single question.
// One row exists per (user, question), created on the first answer and updated
// on every subsequent one. NextDueAt and LastReviewAt are nil before the first
// review; whenever both are set, NextDueAt equals LastReviewAt plus the
// interval in days.
type LearningState struct {
	UserID          uuid.UUID  `json:"user_id"`
	QuestionID      uuid.UUID  `json:"question_id"`
	TopicID         uuid.UUID  `json:"topic_id"`
	EaseFactor      float64    `json:"ease_factor"`
	IntervalDays    int        `json:"interval_days"`
	BoxNumber       int        `json:"box_number"`
	TotalAttempts   int        `json:"total_attempts"`
	CorrectAttempts int        `json:"correct_attempts"`
	LastReviewAt    *time.Time `json:"last_review_at"`
	NextDueAt       *time.Time `json:"next_due_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NewLearningState creates the initial state for a user and question.
// The question starts in box 1 with the default ease factor and no schedule.
func NewLearningState(userID, questionID, topicID uuid.UUID) (*LearningState, error) {
	now := time.Now().UTC()
	s := &LearningState{
		UserID:       userID,
		QuestionID:   questionID,
		TopicID:      topicID,
		EaseFactor:   2.5,
		IntervalDays: 0,
		BoxNumber:    1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks if the LearningState has valid data.
func (s *LearningState) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrEmptyStateUserID
	}
	if s.QuestionID == uuid.Nil {
		return ErrEmptyStateQuestionID
	}
	if s.IntervalDays < 0 {
		return ErrInvalidInterval
	}
	if s.EaseFactor < MinEaseFactor || s.EaseFactor > MaxEaseFactor {
		return ErrInvalidEaseFactor
	}
	if s.BoxNumber < MinBoxNumber || s.BoxNumber > MaxBoxNumber {
		return ErrInvalidBoxNumber
	}
	if s.CorrectAttempts < 0 || s.CorrectAttempts > s.TotalAttempts {
		return ErrInvalidAttemptCounts
	}
	return nil
}

// IsDue reports whether the question's scheduled review time has passed.
// Unreviewed questions have no schedule and are never due.
func (s *LearningState) IsDue(now time.Time) bool {
	return s.NextDueAt != nil && !s.NextDueAt.After(now)
}
