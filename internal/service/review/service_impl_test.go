package review

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/praxisapp/praxis-api/internal/domain"
	"github.com/praxisapp/praxis-api/internal/domain/srs"
	"github.com/praxisapp/praxis-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The store fakes below keep everything in maps and ignore the transaction
// handle; sqlmock supplies the Begin/Commit/Rollback lifecycle so the full
// SubmitAnswer flow runs unchanged.

type fakeUserStore struct {
	users   map[uuid.UUID]*domain.User
	updates int
}

func (f *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUserStore) Update(ctx context.Context, user *domain.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	f.users[user.ID] = user
	f.updates++
	return nil
}

func (f *fakeUserStore) WithTx(tx *sql.Tx) store.UserStore { return f }

type fakeQuestionStore struct {
	questions map[uuid.UUID]*domain.Question
}

func (f *fakeQuestionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	q, ok := f.questions[id]
	if !ok {
		return nil, store.ErrQuestionNotFound
	}
	return q, nil
}

func (f *fakeQuestionStore) GetActiveByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	q, ok := f.questions[id]
	if !ok || !q.Active {
		return nil, store.ErrQuestionNotFound
	}
	return q, nil
}

func (f *fakeQuestionStore) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Question, error) {
	var out []*domain.Question
	for _, id := range ids {
		if q, ok := f.questions[id]; ok && q.Active {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeQuestionStore) ListNewIDs(ctx context.Context, userID, topicID uuid.UUID, limit int) ([]uuid.UUID, error) {
	return nil, nil
}

func (f *fakeQuestionStore) CountActive(ctx context.Context, topicID uuid.UUID) (int, error) {
	return len(f.questions), nil
}

func (f *fakeQuestionStore) CreateReport(ctx context.Context, report *domain.QuestionReport) error {
	return nil
}

func (f *fakeQuestionStore) WithTx(tx *sql.Tx) store.QuestionStore { return f }

type stateKey struct {
	userID     uuid.UUID
	questionID uuid.UUID
}

type fakeStateStore struct {
	states  map[stateKey]*domain.LearningState
	upserts int
}

func (f *fakeStateStore) Get(ctx context.Context, userID, questionID uuid.UUID) (*domain.LearningState, error) {
	state, ok := f.states[stateKey{userID, questionID}]
	if !ok {
		return nil, store.ErrLearningStateNotFound
	}
	copied := *state
	return &copied, nil
}

func (f *fakeStateStore) GetForUpdate(ctx context.Context, userID, questionID uuid.UUID) (*domain.LearningState, error) {
	return f.Get(ctx, userID, questionID)
}

func (f *fakeStateStore) Upsert(ctx context.Context, state *domain.LearningState) error {
	f.states[stateKey{state.UserID, state.QuestionID}] = state
	f.upserts++
	return nil
}

func (f *fakeStateStore) ListByTopic(ctx context.Context, userID, topicID uuid.UUID) ([]*domain.LearningState, error) {
	return nil, nil
}

func (f *fakeStateStore) WithTx(tx *sql.Tx) store.LearningStateStore { return f }

type attemptKey struct {
	userID    uuid.UUID
	attemptID uuid.UUID
}

type fakeAttemptStore struct {
	attempts map[attemptKey]*domain.Attempt
	// hideNextLookup makes the next GetByAttemptID miss even when the attempt
	// exists, reproducing the race where two submissions pass the pre-check
	// before either inserts.
	hideNextLookup bool
}

func (f *fakeAttemptStore) Create(ctx context.Context, attempt *domain.Attempt) error {
	key := attemptKey{attempt.UserID, attempt.AttemptID}
	if _, ok := f.attempts[key]; ok {
		return store.ErrDuplicateAttempt
	}
	f.attempts[key] = attempt
	return nil
}

func (f *fakeAttemptStore) GetByAttemptID(ctx context.Context, userID, attemptID uuid.UUID) (*domain.Attempt, error) {
	if f.hideNextLookup {
		f.hideNextLookup = false
		return nil, store.ErrAttemptNotFound
	}
	attempt, ok := f.attempts[attemptKey{userID, attemptID}]
	if !ok {
		return nil, store.ErrAttemptNotFound
	}
	return attempt, nil
}

func (f *fakeAttemptStore) LastOutcomesByTopic(ctx context.Context, userID, topicID uuid.UUID, n int) (map[uuid.UUID][]bool, error) {
	return nil, nil
}

func (f *fakeAttemptStore) CountByDay(ctx context.Context, userID uuid.UUID, since time.Time) (map[string]int, error) {
	return nil, nil
}

func (f *fakeAttemptStore) WithTx(tx *sql.Tx) store.AttemptStore { return f }

type reviewFixture struct {
	service    ReviewService
	mock       sqlmock.Sqlmock
	users      *fakeUserStore
	questions  *fakeQuestionStore
	states     *fakeStateStore
	attempts   *fakeAttemptStore
	userID     uuid.UUID
	questionID uuid.UUID
	now        time.Time
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	userID := uuid.New()
	questionID := uuid.New()
	topicID := uuid.New()

	users := &fakeUserStore{users: map[uuid.UUID]*domain.User{
		userID: {
			ID:             userID,
			Email:          "learner@example.com",
			HashedPassword: "hashed",
		},
	}}
	questions := &fakeQuestionStore{questions: map[uuid.UUID]*domain.Question{
		questionID: {
			ID:          questionID,
			TopicID:     topicID,
			Stem:        "What does SM-2 adjust?",
			Choices:     json.RawMessage(`["ease","color","font"]`),
			AnswerIndex: 0,
			Explanation: "The ease factor controls interval growth.",
			Active:      true,
			CreatedAt:   time.Now().UTC(),
		},
	}}
	states := &fakeStateStore{states: map[stateKey]*domain.LearningState{}}
	attempts := &fakeAttemptStore{attempts: map[attemptKey]*domain.Attempt{}}

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := NewReviewService(
		db, users, questions, states, attempts,
		srs.NewDefaultService(),
		slog.Default(),
	).(*reviewServiceImpl)
	svc.timeFunc = func() time.Time { return now }

	return &reviewFixture{
		service:    svc,
		mock:       mock,
		users:      users,
		questions:  questions,
		states:     states,
		attempts:   attempts,
		userID:     userID,
		questionID: questionID,
		now:        now,
	}
}

func chosen(i int) AnswerSubmission {
	return AnswerSubmission{AttemptID: uuid.New(), ChosenIndex: i}
}

func TestSubmitAnswer_FirstCorrectAnswer(t *testing.T) {
	t.Parallel()

	f := newReviewFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	sub := chosen(0)
	sub.QuestionID = f.questionID

	outcome, err := f.service.SubmitAnswer(context.Background(), f.userID, sub)
	require.NoError(t, err)

	assert.True(t, outcome.Correct)
	assert.Equal(t, 0, outcome.CanonicalIndex)
	assert.Equal(t, 1, outcome.IntervalDays)
	assert.InDelta(t, 2.6, outcome.EaseFactor, 1e-9)
	assert.False(t, outcome.Replayed)

	state := f.states.states[stateKey{f.userID, f.questionID}]
	require.NotNil(t, state)
	assert.Equal(t, 2, state.BoxNumber)
	assert.Equal(t, 1, state.TotalAttempts)

	user := f.users.users[f.userID]
	assert.Equal(t, 1, user.StreakCurrent)
	assert.Equal(t, 1, user.TotalAnswered)

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestSubmitAnswer_IntervalProgression(t *testing.T) {
	t.Parallel()

	f := newReviewFixture(t)

	wantIntervals := []int{1, 6, 17}
	wantBoxes := []int{2, 3, 4}

	for i := range wantIntervals {
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		sub := chosen(0)
		sub.QuestionID = f.questionID

		outcome, err := f.service.SubmitAnswer(context.Background(), f.userID, sub)
		require.NoError(t, err)
		assert.Equal(t, wantIntervals[i], outcome.IntervalDays, "attempt %d", i+1)

		state := f.states.states[stateKey{f.userID, f.questionID}]
		assert.Equal(t, wantBoxes[i], state.BoxNumber, "attempt %d", i+1)
	}

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestSubmitAnswer_WrongAnswerRecordsOutcome(t *testing.T) {
	t.Parallel()

	f := newReviewFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	sub := chosen(2)
	sub.QuestionID = f.questionID

	outcome, err := f.service.SubmitAnswer(context.Background(), f.userID, sub)
	require.NoError(t, err)

	assert.False(t, outcome.Correct)
	assert.Equal(t, 0, outcome.CanonicalIndex)
	assert.Equal(t, "The ease factor controls interval growth.", outcome.Explanation)
	assert.Equal(t, 1, outcome.IntervalDays)

	state := f.states.states[stateKey{f.userID, f.questionID}]
	assert.Equal(t, 1, state.BoxNumber)
	assert.Equal(t, 0, state.CorrectAttempts)
}

func TestSubmitAnswer_DontKnowResetsBox(t *testing.T) {
	t.Parallel()

	f := newReviewFixture(t)

	// Climb to box 3 first.
	for i := 0; i < 2; i++ {
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()
		sub := chosen(0)
		sub.QuestionID = f.questionID
		_, err := f.service.SubmitAnswer(context.Background(), f.userID, sub)
		require.NoError(t, err)
	}

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	outcome, err := f.service.SubmitAnswer(context.Background(), f.userID, AnswerSubmission{
		AttemptID:  uuid.New(),
		QuestionID: f.questionID,
		DontKnow:   true,
	})
	require.NoError(t, err)

	assert.False(t, outcome.Correct)
	state := f.states.states[stateKey{f.userID, f.questionID}]
	assert.Equal(t, 1, state.BoxNumber)

	recorded := false
	for _, attempt := range f.attempts.attempts {
		if attempt.DontKnow {
			recorded = true
			assert.Nil(t, attempt.ChosenIndex)
		}
	}
	assert.True(t, recorded, "dont-know attempt not recorded")
}

func TestSubmitAnswer_ReplaySameAttemptID(t *testing.T) {
	t.Parallel()

	f := newReviewFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	sub := chosen(0)
	sub.QuestionID = f.questionID

	first, err := f.service.SubmitAnswer(context.Background(), f.userID, sub)
	require.NoError(t, err)

	// Same idempotency key again: the pre-check inside the transaction serves
	// the recorded outcome and nothing is written.
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	second, err := f.service.SubmitAnswer(context.Background(), f.userID, sub)
	require.NoError(t, err)

	assert.True(t, second.Replayed)
	assert.Equal(t, first.Correct, second.Correct)
	assert.Equal(t, first.EaseFactor, second.EaseFactor)
	assert.Equal(t, first.IntervalDays, second.IntervalDays)

	assert.Equal(t, 1, f.states.upserts, "replay must not touch learning state")
	assert.Equal(t, 1, f.users.updates, "replay must not touch the streak")
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestSubmitAnswer_InsertConflictReplaysAfterRollback(t *testing.T) {
	t.Parallel()

	f := newReviewFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	sub := chosen(0)
	sub.QuestionID = f.questionID

	first, err := f.service.SubmitAnswer(context.Background(), f.userID, sub)
	require.NoError(t, err)

	// Second submission races past the pre-check; the unique constraint on
	// the insert fires, the transaction rolls back and the stored outcome is
	// replayed.
	f.attempts.hideNextLookup = true
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	second, err := f.service.SubmitAnswer(context.Background(), f.userID, sub)
	require.NoError(t, err)

	assert.True(t, second.Replayed)
	assert.Equal(t, first.IntervalDays, second.IntervalDays)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestSubmitAnswer_QuestionNotFound(t *testing.T) {
	t.Parallel()

	f := newReviewFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	sub := chosen(0)
	sub.QuestionID = uuid.New()

	_, err := f.service.SubmitAnswer(context.Background(), f.userID, sub)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestSubmitAnswer_InactiveQuestion(t *testing.T) {
	t.Parallel()

	f := newReviewFixture(t)
	f.questions.questions[f.questionID].Active = false

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	sub := chosen(0)
	sub.QuestionID = f.questionID

	_, err := f.service.SubmitAnswer(context.Background(), f.userID, sub)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestSubmitAnswer_DisabledUser(t *testing.T) {
	t.Parallel()

	f := newReviewFixture(t)
	f.users.users[f.userID].Disabled = true

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	sub := chosen(0)
	sub.QuestionID = f.questionID

	_, err := f.service.SubmitAnswer(context.Background(), f.userID, sub)
	assert.ErrorIs(t, err, ErrUserDisabled)
}

func TestSubmitAnswer_InvalidSubmission(t *testing.T) {
	t.Parallel()

	f := newReviewFixture(t)

	_, err := f.service.SubmitAnswer(context.Background(), f.userID, AnswerSubmission{})
	assert.ErrorIs(t, err, ErrInvalidSubmission)
}
