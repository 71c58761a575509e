package session

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/praxisapp/praxis-api/internal/domain"
	"github.com/praxisapp/praxis-api/internal/domain/mastery"
	"github.com/praxisapp/praxis-api/internal/platform/logger"
	"github.com/praxisapp/praxis-api/internal/store"
)

// Selection is a composed practice session: an ordered, deduplicated set of
// questions plus the session identifier handed back to the client.
type Selection struct {
	SessionID   uuid.UUID
	Mode        Mode
	QuestionIDs []uuid.UUID
	Questions   []*domain.Question
}

// Service assembles candidate pools from the stores and delegates the draw
// to the Composer. Pool reads are not transactionally consistent with
// concurrent answer submissions; a slightly stale view is accepted.
type Service struct {
	questions store.QuestionStore
	states    store.LearningStateStore
	attempts  store.AttemptStore
	bookmarks store.BookmarkStore
	composer  *Composer
	timeFunc  func() time.Time
	logger    *slog.Logger
}

// NewService creates a session composition service.
func NewService(
	questions store.QuestionStore,
	states store.LearningStateStore,
	attempts store.AttemptStore,
	bookmarks store.BookmarkStore,
	composer *Composer,
	logger *slog.Logger,
) *Service {
	if questions == nil || states == nil || attempts == nil || bookmarks == nil {
		panic("stores cannot be nil")
	}
	if composer == nil {
		panic("composer cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		questions: questions,
		states:    states,
		attempts:  attempts,
		bookmarks: bookmarks,
		composer:  composer,
		timeFunc:  time.Now,
		logger:    logger.With(slog.String("component", "session_service")),
	}
}

// Compose builds a session of at most size questions for the user and topic.
// An exhausted pool yields a shorter (possibly empty) selection, never an
// error.
func (s *Service) Compose(
	ctx context.Context,
	userID, topicID uuid.UUID,
	mode Mode,
	size int,
) (*Selection, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	pools, err := s.buildPools(ctx, userID, topicID, mode, size)
	if err != nil {
		return nil, err
	}

	ids := s.composer.Compose(mode, size, *pools)

	questions, err := s.questions.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load selected questions: %w", err)
	}

	log.Debug("session composed",
		slog.String("user_id", userID.String()),
		slog.String("topic_id", topicID.String()),
		slog.String("mode", string(mode)),
		slog.Int("requested", size),
		slog.Int("selected", len(ids)),
		slog.Int("due_pool", len(pools.Due)),
		slog.Int("weak_pool", len(pools.Weak)))

	return &Selection{
		SessionID:   uuid.New(),
		Mode:        mode,
		QuestionIDs: ids,
		Questions:   questions,
	}, nil
}

// buildPools gathers the candidate pools a mode can draw from. Pools a mode
// never touches are left empty rather than queried.
func (s *Service) buildPools(
	ctx context.Context,
	userID, topicID uuid.UUID,
	mode Mode,
	size int,
) (*Pools, error) {
	now := s.timeFunc().UTC()
	pools := &Pools{}

	needsStates := mode != ModeNewOnly && mode != ModeBookmarks
	if needsStates {
		states, err := s.states.ListByTopic(ctx, userID, topicID)
		if err != nil {
			return nil, fmt.Errorf("failed to list learning states: %w", err)
		}

		var weakStates []*domain.LearningState
		if mode == ModeWeakFirst || mode == ModeDailyMix {
			lastThree, err := s.attempts.LastOutcomesByTopic(ctx, userID, topicID, mastery.MinAttempts)
			if err != nil {
				return nil, fmt.Errorf("failed to load recent outcomes: %w", err)
			}
			weakStates = filterWeak(states, lastThree)
		}

		type futureEntry struct {
			id  uuid.UUID
			due time.Time
		}
		var future []futureEntry
		for _, state := range states {
			if state.IsDue(now) {
				pools.Due = append(pools.Due, state.QuestionID)
			} else if state.NextDueAt != nil {
				future = append(future, futureEntry{state.QuestionID, *state.NextDueAt})
			}
		}
		sort.Slice(future, func(i, j int) bool {
			if future[i].due.Equal(future[j].due) {
				return future[i].id.String() < future[j].id.String()
			}
			return future[i].due.Before(future[j].due)
		})
		for _, entry := range future {
			pools.Future = append(pools.Future, entry.id)
		}

		for _, state := range weakStates {
			pools.Weak = append(pools.Weak, state.QuestionID)
		}
	}

	if mode == ModeNewOnly || mode == ModeDailyMix {
		newIDs, err := s.questions.ListNewIDs(ctx, userID, topicID, size)
		if err != nil {
			return nil, fmt.Errorf("failed to list new questions: %w", err)
		}
		pools.New = newIDs
	}

	if mode == ModeBookmarks {
		bookmarked, err := s.bookmarks.ListRecentIDsByTopic(ctx, userID, topicID, size)
		if err != nil {
			return nil, fmt.Errorf("failed to list bookmarks: %w", err)
		}
		pools.Bookmarked = bookmarked
	}

	return pools, nil
}

// filterWeak keeps the states whose mastery bucket is weak.
func filterWeak(
	states []*domain.LearningState,
	lastThree map[uuid.UUID][]bool,
) []*domain.LearningState {
	var weak []*domain.LearningState
	for _, state := range states {
		bucket := mastery.Classify(mastery.Signal{
			TotalAttempts:   state.TotalAttempts,
			CorrectAttempts: state.CorrectAttempts,
			BoxNumber:       state.BoxNumber,
			IntervalDays:    state.IntervalDays,
			LastThree:       lastThree[state.QuestionID],
		})
		if bucket == mastery.BucketWeak {
			weak = append(weak, state)
		}
	}
	return weak
}
