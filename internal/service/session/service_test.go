package session

import (
	"context"
	"database/sql"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/praxisapp/praxis-api/internal/domain"
	"github.com/praxisapp/praxis-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fakes cover only the read paths the session service uses; the write side
// of each interface is stubbed out.

type fakeQuestionStore struct {
	newIDs []uuid.UUID
}

func (f *fakeQuestionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	return nil, store.ErrQuestionNotFound
}

func (f *fakeQuestionStore) GetActiveByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	return nil, store.ErrQuestionNotFound
}

func (f *fakeQuestionStore) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Question, error) {
	questions := make([]*domain.Question, len(ids))
	for i, id := range ids {
		questions[i] = &domain.Question{ID: id, Active: true}
	}
	return questions, nil
}

func (f *fakeQuestionStore) ListNewIDs(ctx context.Context, userID, topicID uuid.UUID, limit int) ([]uuid.UUID, error) {
	if limit < len(f.newIDs) {
		return f.newIDs[:limit], nil
	}
	return f.newIDs, nil
}

func (f *fakeQuestionStore) CountActive(ctx context.Context, topicID uuid.UUID) (int, error) {
	return 0, nil
}

func (f *fakeQuestionStore) CreateReport(ctx context.Context, report *domain.QuestionReport) error {
	return nil
}

func (f *fakeQuestionStore) WithTx(tx *sql.Tx) store.QuestionStore { return f }

type fakeStateStore struct {
	states []*domain.LearningState
}

func (f *fakeStateStore) Get(ctx context.Context, userID, questionID uuid.UUID) (*domain.LearningState, error) {
	return nil, store.ErrLearningStateNotFound
}

func (f *fakeStateStore) GetForUpdate(ctx context.Context, userID, questionID uuid.UUID) (*domain.LearningState, error) {
	return nil, store.ErrLearningStateNotFound
}

func (f *fakeStateStore) Upsert(ctx context.Context, state *domain.LearningState) error {
	return nil
}

func (f *fakeStateStore) ListByTopic(ctx context.Context, userID, topicID uuid.UUID) ([]*domain.LearningState, error) {
	return f.states, nil
}

func (f *fakeStateStore) WithTx(tx *sql.Tx) store.LearningStateStore { return f }

type fakeAttemptStore struct {
	lastOutcomes map[uuid.UUID][]bool
}

func (f *fakeAttemptStore) Create(ctx context.Context, attempt *domain.Attempt) error {
	return nil
}

func (f *fakeAttemptStore) GetByAttemptID(ctx context.Context, userID, attemptID uuid.UUID) (*domain.Attempt, error) {
	return nil, store.ErrAttemptNotFound
}

func (f *fakeAttemptStore) LastOutcomesByTopic(ctx context.Context, userID, topicID uuid.UUID, n int) (map[uuid.UUID][]bool, error) {
	return f.lastOutcomes, nil
}

func (f *fakeAttemptStore) CountByDay(ctx context.Context, userID uuid.UUID, since time.Time) (map[string]int, error) {
	return nil, nil
}

func (f *fakeAttemptStore) WithTx(tx *sql.Tx) store.AttemptStore { return f }

type fakeBookmarkStore struct {
	recentIDs []uuid.UUID
}

func (f *fakeBookmarkStore) Exists(ctx context.Context, userID, questionID uuid.UUID) (bool, error) {
	return false, nil
}

func (f *fakeBookmarkStore) Create(ctx context.Context, bookmark *domain.Bookmark) error {
	return nil
}

func (f *fakeBookmarkStore) Delete(ctx context.Context, userID, questionID uuid.UUID) error {
	return nil
}

func (f *fakeBookmarkStore) ListRecent(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Bookmark, error) {
	return nil, nil
}

func (f *fakeBookmarkStore) ListRecentIDsByTopic(ctx context.Context, userID, topicID uuid.UUID, limit int) ([]uuid.UUID, error) {
	if limit < len(f.recentIDs) {
		return f.recentIDs[:limit], nil
	}
	return f.recentIDs, nil
}

func (f *fakeBookmarkStore) WithTx(tx *sql.Tx) store.BookmarkStore { return f }

type serviceFixture struct {
	service   *Service
	questions *fakeQuestionStore
	states    *fakeStateStore
	attempts  *fakeAttemptStore
	bookmarks *fakeBookmarkStore
	userID    uuid.UUID
	topicID   uuid.UUID
	now       time.Time
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	f := &serviceFixture{
		questions: &fakeQuestionStore{},
		states:    &fakeStateStore{},
		attempts:  &fakeAttemptStore{lastOutcomes: map[uuid.UUID][]bool{}},
		bookmarks: &fakeBookmarkStore{},
		userID:    uuid.New(),
		topicID:   uuid.New(),
		now:       time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	f.service = NewService(
		f.questions, f.states, f.attempts, f.bookmarks,
		NewComposer(rand.New(rand.NewSource(42))),
		slog.Default(),
	)
	f.service.timeFunc = func() time.Time { return f.now }
	return f
}

// addState registers a reviewed state due at the given time.
func (f *serviceFixture) addState(dueAt time.Time, box, interval, total, correct int) uuid.UUID {
	id := uuid.New()
	f.states.states = append(f.states.states, &domain.LearningState{
		UserID:          f.userID,
		QuestionID:      id,
		TopicID:         f.topicID,
		EaseFactor:      2.5,
		IntervalDays:    interval,
		BoxNumber:       box,
		TotalAttempts:   total,
		CorrectAttempts: correct,
		NextDueAt:       &dueAt,
	})
	return id
}

func TestCompose_DueOnlySelectsDueStates(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	dueA := f.addState(f.now.Add(-time.Hour), 3, 6, 5, 4)
	dueB := f.addState(f.now, 3, 6, 5, 4) // due exactly now counts
	future := f.addState(f.now.Add(time.Hour), 3, 6, 5, 4)

	sel, err := f.service.Compose(context.Background(), f.userID, f.topicID, ModeDueOnly, 5)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, sel.SessionID)
	assert.ElementsMatch(t, []uuid.UUID{dueA, dueB}, sel.QuestionIDs)
	assert.NotContains(t, sel.QuestionIDs, future)
	require.Len(t, sel.Questions, 2)
}

func TestCompose_FuturePoolSortedBySoonestDue(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	later := f.addState(f.now.Add(72*time.Hour), 3, 6, 5, 4)
	soon := f.addState(f.now.Add(24*time.Hour), 3, 6, 5, 4)
	middle := f.addState(f.now.Add(48*time.Hour), 3, 6, 5, 4)

	sel, err := f.service.Compose(context.Background(), f.userID, f.topicID, ModeReviewFree, 3)
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{soon, middle, later}, sel.QuestionIDs)
}

func TestCompose_WeakFirstPutsWeakStatesFirst(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	weak := f.addState(f.now.Add(-time.Hour), 1, 1, 6, 2)
	strong := f.addState(f.now.Add(-time.Hour), 5, 14, 6, 6)
	f.attempts.lastOutcomes = map[uuid.UUID][]bool{
		weak:   {false, false, true},
		strong: {true, true, true},
	}

	sel, err := f.service.Compose(context.Background(), f.userID, f.topicID, ModeWeakFirst, 2)
	require.NoError(t, err)

	require.Len(t, sel.QuestionIDs, 2)
	assert.Equal(t, weak, sel.QuestionIDs[0])
	assert.Contains(t, sel.QuestionIDs, strong)
}

func TestCompose_NewOnlyUsesCatalog(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	f.questions.newIDs = []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	sel, err := f.service.Compose(context.Background(), f.userID, f.topicID, ModeNewOnly, 2)
	require.NoError(t, err)

	assert.Equal(t, f.questions.newIDs[:2], sel.QuestionIDs)
	require.Len(t, sel.Questions, 2)
	assert.Equal(t, sel.QuestionIDs[0], sel.Questions[0].ID)
}

func TestCompose_BookmarksUsesBookmarkOrder(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	f.bookmarks.recentIDs = []uuid.UUID{uuid.New(), uuid.New()}

	sel, err := f.service.Compose(context.Background(), f.userID, f.topicID, ModeBookmarks, 5)
	require.NoError(t, err)

	assert.Equal(t, f.bookmarks.recentIDs, sel.QuestionIDs)
}

func TestCompose_EmptyTopicYieldsEmptySession(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)

	sel, err := f.service.Compose(context.Background(), f.userID, f.topicID, ModeDailyMix, 20)
	require.NoError(t, err)

	assert.Empty(t, sel.QuestionIDs)
	assert.Empty(t, sel.Questions)
}
