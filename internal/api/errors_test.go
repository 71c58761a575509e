package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/praxisapp/praxis-api/internal/service/auth"
	"github.com/praxisapp/praxis-api/internal/service/bookmark"
	"github.com/praxisapp/praxis-api/internal/service/report"
	"github.com/praxisapp/praxis-api/internal/service/review"
	"github.com/praxisapp/praxis-api/internal/service/session"
	"github.com/praxisapp/praxis-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"invalid credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"disabled user", review.ErrUserDisabled, http.StatusForbidden},
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"question not found in store", store.ErrQuestionNotFound, http.StatusNotFound},
		{"question not found in review", review.ErrQuestionNotFound, http.StatusNotFound},
		{"question not found in bookmark", bookmark.ErrQuestionNotFound, http.StatusNotFound},
		{"question not found in report", report.ErrQuestionNotFound, http.StatusNotFound},
		{"email exists", store.ErrEmailExists, http.StatusConflict},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"invalid submission", review.ErrInvalidSubmission, http.StatusBadRequest},
		{"invalid session mode", session.ErrInvalidMode, http.StatusBadRequest},
		{"invalid issue type", report.ErrInvalidIssueType, http.StatusBadRequest},
		{"wrapped error keeps its mapping", fmt.Errorf("handling request: %w", review.ErrQuestionNotFound), http.StatusNotFound},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, "An unexpected error occurred"},
		{"expired token collapses to generic message", auth.ErrExpiredToken, "Invalid token"},
		{"invalid credentials", auth.ErrInvalidCredentials, "Invalid credentials"},
		{"question not found", review.ErrQuestionNotFound, "Question not found"},
		{"disabled user", review.ErrUserDisabled, "Account is disabled"},
		{"invalid session mode", session.ErrInvalidMode, "Invalid session mode"},
		{"submit answer service error", review.NewSubmitAnswerError("db down", errors.New("conn refused")), "Failed to submit answer"},
		{"unknown error hides detail", errors.New("pq: relation attempts does not exist"), "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, GetSafeErrorMessage(tt.err))
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := errors.New(
		"Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag",
	)
	assert.Equal(t, "Invalid Email: required field", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("something else")))
}
