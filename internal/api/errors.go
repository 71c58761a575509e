package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/praxisapp/praxis-api/internal/service/auth"
	"github.com/praxisapp/praxis-api/internal/service/bookmark"
	"github.com/praxisapp/praxis-api/internal/service/report"
	"github.com/praxisapp/praxis-api/internal/service/review"
	"github.com/praxisapp/praxis-api/internal/service/session"
	"github.com/praxisapp/praxis-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, review.ErrUserDisabled):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrQuestionNotFound),
		errors.Is(err, review.ErrQuestionNotFound),
		errors.Is(err, bookmark.ErrQuestionNotFound),
		errors.Is(err, report.ErrQuestionNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, review.ErrInvalidSubmission),
		errors.Is(err, session.ErrInvalidMode),
		errors.Is(err, report.ErrInvalidIssueType):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, review.ErrUserDisabled):
		return "Account is disabled"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrQuestionNotFound),
		errors.Is(err, review.ErrQuestionNotFound),
		errors.Is(err, bookmark.ErrQuestionNotFound),
		errors.Is(err, report.ErrQuestionNotFound):
		return "Question not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, review.ErrInvalidSubmission):
		return "Invalid answer submission"

	case errors.Is(err, session.ErrInvalidMode):
		return "Invalid session mode"

	case errors.Is(err, report.ErrInvalidIssueType):
		return "Invalid issue type"

	default:
		if strings.Contains(err.Error(), "submit_answer") {
			return "Failed to submit answer"
		}
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example format: "Key: 'LoginRequest.Email' Error:Field validation
		// for 'Email' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
