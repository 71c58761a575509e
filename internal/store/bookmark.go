package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/praxisapp/praxis-api/internal/domain"
)

// BookmarkStore defines the interface for bookmark persistence.
type BookmarkStore interface {
	// Exists reports whether the user has bookmarked the question.
	Exists(ctx context.Context, userID, questionID uuid.UUID) (bool, error)

	// Create saves a new bookmark. Creating an existing bookmark returns
	// ErrDuplicate.
	Create(ctx context.Context, bookmark *domain.Bookmark) error

	// Delete removes a bookmark.
	// Returns ErrBookmarkNotFound if the bookmark does not exist.
	Delete(ctx context.Context, userID, questionID uuid.UUID) error

	// ListRecent retrieves the user's bookmarks, most recently created first,
	// with limit/offset paging.
	ListRecent(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Bookmark, error)

	// ListRecentIDsByTopic returns up to limit bookmarked question IDs within
	// a topic, most recently bookmarked first.
	ListRecentIDsByTopic(
		ctx context.Context,
		userID, topicID uuid.UUID,
		limit int,
	) ([]uuid.UUID, error)

	// WithTx returns a new BookmarkStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) BookmarkStore
}
