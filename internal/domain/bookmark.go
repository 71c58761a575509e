package domain

import (
	"time"

	"github.com/google/uuid"
)

// Bookmark marks a question a user wants to revisit. Bookmarks feed the
// bookmarks session mode, most recently created first.
type Bookmark struct {
	UserID     uuid.UUID `json:"user_id"`
	QuestionID uuid.UUID `json:"question_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// QuestionReport is a learner-filed flag against a broken question.
// Reports are stored for review by content maintainers; no workflow is
// attached to them here.
type QuestionReport struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	QuestionID uuid.UUID `json:"question_id"`
	IssueType  string    `json:"issue_type"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}
