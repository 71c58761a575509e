package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Common request/response structures

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for the login endpoint.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`
}

// SubmitAnswerRequest defines the payload for answering a question.
// AttemptID is the client-generated idempotency key; resubmitting it returns
// the originally recorded outcome.
type SubmitAnswerRequest struct {
	AttemptID   string `json:"attempt_id"   validate:"required,uuid4"`
	ChosenIndex *int   `json:"chosen_index" validate:"omitempty,gte=0"`
	DontKnow    bool   `json:"dont_know"`
}

// SubmitAnswerResponse defines the graded outcome returned to the client.
type SubmitAnswerResponse struct {
	Correct      bool    `json:"correct"`
	CorrectIndex int     `json:"correct_index"`
	Explanation  string  `json:"explanation,omitempty"`
	EaseFactor   float64 `json:"ease_factor"`
	IntervalDays int     `json:"interval_days"`
	Replayed     bool    `json:"replayed,omitempty"`
}

// ComposeSessionRequest defines the payload for composing a practice session.
type ComposeSessionRequest struct {
	TopicID string `json:"topic_id" validate:"required,uuid4"`
	Mode    string `json:"mode"     validate:"required"`
	// Size defaults to 10 when omitted; out-of-range values are rejected.
	Size *int `json:"size" validate:"omitempty,gte=5,lte=30"`
}

// QuestionView is a question as shown during practice. The canonical answer
// index and explanation are deliberately absent; they are only revealed in
// the answer outcome.
type QuestionView struct {
	ID      string          `json:"id"`
	TopicID string          `json:"topic_id"`
	Stem    string          `json:"stem"`
	Choices json.RawMessage `json:"choices"`
}

// ComposeSessionResponse defines the composed session returned to the client.
type ComposeSessionResponse struct {
	SessionID string         `json:"session_id"`
	Mode      string         `json:"mode"`
	Questions []QuestionView `json:"questions"`
}

// TopicStatsResponse defines the per-topic progress breakdown.
type TopicStatsResponse struct {
	TopicID         string         `json:"topic_id"`
	TotalQuestions  int            `json:"total_questions"`
	SeenQuestions   int            `json:"seen_questions"`
	TotalAttempts   int            `json:"total_attempts"`
	CorrectAttempts int            `json:"correct_attempts"`
	AccuracyPercent float64        `json:"accuracy_percent"`
	DueCount        int            `json:"due_count"`
	Buckets         map[string]int `json:"buckets"`
	BoxDistribution map[int]int    `json:"box_distribution"`
}

// ActivityDayResponse is one day of the recent activity feed.
type ActivityDayResponse struct {
	Day      string `json:"day"`
	Attempts int    `json:"attempts"`
}

// HeatmapCellResponse is one day of the practice heatmap.
type HeatmapCellResponse struct {
	Day      string `json:"day"`
	Attempts int    `json:"attempts"`
	Level    int    `json:"level"`
}

// StreakResponse defines the streak summary.
type StreakResponse struct {
	Current         int    `json:"current"`
	Best            int    `json:"best"`
	LastPracticeDay string `json:"last_practice_day,omitempty"`
	TotalAnswered   int    `json:"total_answered"`
}

// BookmarkToggleResponse reports the bookmark state after a toggle.
type BookmarkToggleResponse struct {
	QuestionID string `json:"question_id"`
	Bookmarked bool   `json:"bookmarked"`
}

// BookmarkView is one entry in the bookmark listing.
type BookmarkView struct {
	QuestionID string    `json:"question_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// ReportQuestionRequest defines the payload for flagging a question.
type ReportQuestionRequest struct {
	IssueType string `json:"issue_type" validate:"required,oneof=wrong_answer unclear typo other"`
	Message   string `json:"message"    validate:"max=2000"`
}

// ReportQuestionResponse acknowledges a filed report.
type ReportQuestionResponse struct {
	ReportID string `json:"report_id"`
}
