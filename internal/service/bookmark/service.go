// Package bookmark manages a user's saved questions: toggling a bookmark on
// or off and listing recent bookmarks. The saved set also feeds the
// bookmarks session mode through the store.
package bookmark

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/praxisapp/praxis-api/internal/domain"
	"github.com/praxisapp/praxis-api/internal/platform/logger"
	"github.com/praxisapp/praxis-api/internal/store"
)

// Listing page bounds
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ErrQuestionNotFound indicates the question being bookmarked does not exist
// or is inactive.
var ErrQuestionNotFound = errors.New("question not found")

// Service implements bookmark toggling and listing.
type Service struct {
	bookmarks store.BookmarkStore
	questions store.QuestionStore
	timeFunc  func() time.Time
	logger    *slog.Logger
}

// NewService creates a bookmark service.
func NewService(bookmarks store.BookmarkStore, questions store.QuestionStore, logger *slog.Logger) *Service {
	if bookmarks == nil || questions == nil {
		panic("stores cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		bookmarks: bookmarks,
		questions: questions,
		timeFunc:  time.Now,
		logger:    logger.With(slog.String("component", "bookmark_service")),
	}
}

// Toggle flips the bookmark for (user, question) and reports the resulting
// state: true when the call created the bookmark, false when it removed one.
// Concurrent toggles race benignly; the conflict errors from the store are
// absorbed into the state the other call produced.
func (s *Service) Toggle(ctx context.Context, userID, questionID uuid.UUID) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.questions.GetActiveByID(ctx, questionID); err != nil {
		if errors.Is(err, store.ErrQuestionNotFound) {
			return false, ErrQuestionNotFound
		}
		return false, fmt.Errorf("failed to get question: %w", err)
	}

	exists, err := s.bookmarks.Exists(ctx, userID, questionID)
	if err != nil {
		return false, fmt.Errorf("failed to check bookmark: %w", err)
	}

	if exists {
		if err := s.bookmarks.Delete(ctx, userID, questionID); err != nil {
			if errors.Is(err, store.ErrBookmarkNotFound) {
				return false, nil
			}
			return false, fmt.Errorf("failed to remove bookmark: %w", err)
		}
		log.Debug("bookmark removed",
			slog.String("user_id", userID.String()),
			slog.String("question_id", questionID.String()))
		return false, nil
	}

	err = s.bookmarks.Create(ctx, &domain.Bookmark{
		UserID:     userID,
		QuestionID: questionID,
		CreatedAt:  s.timeFunc().UTC(),
	})
	if err != nil {
		if store.IsDuplicateError(err) {
			return true, nil
		}
		return false, fmt.Errorf("failed to create bookmark: %w", err)
	}

	log.Debug("bookmark created",
		slog.String("user_id", userID.String()),
		slog.String("question_id", questionID.String()))
	return true, nil
}

// List returns the user's bookmarks, most recent first. Limit is clamped to
// the page bounds and offset floored at zero.
func (s *Service) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Bookmark, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	bookmarks, err := s.bookmarks.ListRecent(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	return bookmarks, nil
}
