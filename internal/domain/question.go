package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Question-specific validation errors
var (
	ErrQuestionIDEmpty      = errors.New("question ID cannot be empty")
	ErrQuestionTopicEmpty   = errors.New("question topic ID cannot be empty")
	ErrQuestionStemEmpty    = errors.New("question stem cannot be empty")
	ErrQuestionChoicesEmpty = errors.New("question must have at least two choices")
	ErrQuestionAnswerRange  = errors.New("question answer index is out of range")
)

// Question represents a single multiple-choice practice item belonging to a topic.
// Choices are stored as a JSONB array of strings, which keeps the catalog schema
// flexible for future choice formats.
type Question struct {
	ID          uuid.UUID       `json:"id"`
	TopicID     uuid.UUID       `json:"topic_id"`
	Stem        string          `json:"stem"`
	Choices     json.RawMessage `json:"choices"`
	AnswerIndex int             `json:"answer_index"`
	Explanation string          `json:"explanation"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ChoiceList decodes the JSONB choices into a string slice.
func (q *Question) ChoiceList() ([]string, error) {
	var choices []string
	if err := json.Unmarshal(q.Choices, &choices); err != nil {
		return nil, err
	}
	return choices, nil
}

// Validate checks if the Question has valid data.
func (q *Question) Validate() error {
	if q.ID == uuid.Nil {
		return ErrQuestionIDEmpty
	}
	if q.TopicID == uuid.Nil {
		return ErrQuestionTopicEmpty
	}
	if q.Stem == "" {
		return ErrQuestionStemEmpty
	}
	choices, err := q.ChoiceList()
	if err != nil || len(choices) < 2 {
		return ErrQuestionChoicesEmpty
	}
	if q.AnswerIndex < 0 || q.AnswerIndex >= len(choices) {
		return ErrQuestionAnswerRange
	}
	return nil
}
