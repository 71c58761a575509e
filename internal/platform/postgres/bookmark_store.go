package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/praxisapp/praxis-api/internal/domain"
	"github.com/praxisapp/praxis-api/internal/platform/logger"
	"github.com/praxisapp/praxis-api/internal/store"
)

// PostgresBookmarkStore implements the store.BookmarkStore interface
// using a PostgreSQL database as the storage backend.
type PostgresBookmarkStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBookmarkStore creates a new PostgreSQL implementation of the
// BookmarkStore interface. If logger is nil, a default logger will be used.
func NewPostgresBookmarkStore(db store.DBTX, logger *slog.Logger) *PostgresBookmarkStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresBookmarkStore{
		db:     db,
		logger: logger.With(slog.String("component", "bookmark_store")),
	}
}

// Ensure PostgresBookmarkStore implements store.BookmarkStore interface
var _ store.BookmarkStore = (*PostgresBookmarkStore)(nil)

// WithTx implements store.BookmarkStore.WithTx
func (s *PostgresBookmarkStore) WithTx(tx *sql.Tx) store.BookmarkStore {
	return &PostgresBookmarkStore{db: tx, logger: s.logger}
}

// Exists implements store.BookmarkStore.Exists
func (s *PostgresBookmarkStore) Exists(ctx context.Context, userID, questionID uuid.UUID) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM bookmarks WHERE user_id = $1 AND question_id = $2)`
	if err := s.db.QueryRowContext(ctx, query, userID, questionID).Scan(&exists); err != nil {
		log.Error("failed to check bookmark existence",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("question_id", questionID.String()))
		return false, err
	}
	return exists, nil
}

// Create implements store.BookmarkStore.Create
func (s *PostgresBookmarkStore) Create(ctx context.Context, bookmark *domain.Bookmark) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `INSERT INTO bookmarks (user_id, question_id, created_at) VALUES ($1, $2, $3)`
	_, err := s.db.ExecContext(ctx, query, bookmark.UserID, bookmark.QuestionID, bookmark.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicate
		}
		log.Error("failed to create bookmark",
			slog.String("error", err.Error()),
			slog.String("user_id", bookmark.UserID.String()),
			slog.String("question_id", bookmark.QuestionID.String()))
		return err
	}
	return nil
}

// Delete implements store.BookmarkStore.Delete
func (s *PostgresBookmarkStore) Delete(ctx context.Context, userID, questionID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM bookmarks WHERE user_id = $1 AND question_id = $2`
	result, err := s.db.ExecContext(ctx, query, userID, questionID)
	if err != nil {
		log.Error("failed to delete bookmark",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("question_id", questionID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected", slog.String("error", err.Error()))
		return err
	}
	if rowsAffected == 0 {
		return store.ErrBookmarkNotFound
	}
	return nil
}

// ListRecent implements store.BookmarkStore.ListRecent
func (s *PostgresBookmarkStore) ListRecent(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.Bookmark, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT user_id, question_id, created_at
		FROM bookmarks
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := s.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		log.Error("failed to query bookmarks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer closeRows(rows, log)

	var bookmarks []*domain.Bookmark
	for rows.Next() {
		var b domain.Bookmark
		if err := rows.Scan(&b.UserID, &b.QuestionID, &b.CreatedAt); err != nil {
			log.Error("failed to scan bookmark row", slog.String("error", err.Error()))
			return nil, err
		}
		bookmarks = append(bookmarks, &b)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	if bookmarks == nil {
		bookmarks = []*domain.Bookmark{}
	}
	return bookmarks, nil
}

// ListRecentIDsByTopic implements store.BookmarkStore.ListRecentIDsByTopic
func (s *PostgresBookmarkStore) ListRecentIDsByTopic(
	ctx context.Context,
	userID, topicID uuid.UUID,
	limit int,
) ([]uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		return []uuid.UUID{}, nil
	}

	query := `
		SELECT b.question_id
		FROM bookmarks b
		JOIN questions q ON q.id = b.question_id
		WHERE b.user_id = $1 AND q.topic_id = $2 AND q.active
		ORDER BY b.created_at DESC
		LIMIT $3
	`
	rows, err := s.db.QueryContext(ctx, query, userID, topicID, limit)
	if err != nil {
		log.Error("failed to query bookmarked question IDs",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("topic_id", topicID.String()))
		return nil, err
	}
	defer closeRows(rows, log)

	return scanIDs(rows)
}
