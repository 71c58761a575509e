package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/praxisapp/praxis-api/internal/domain"
	"github.com/praxisapp/praxis-api/internal/domain/srs"
	"github.com/praxisapp/praxis-api/internal/platform/logger"
	"github.com/praxisapp/praxis-api/internal/store"
)

// Verify interface compliance at compile time
var _ ReviewService = (*reviewServiceImpl)(nil)

// reviewServiceImpl implements the ReviewService interface.
type reviewServiceImpl struct {
	db         *sql.DB
	users      store.UserStore
	questions  store.QuestionStore
	states     store.LearningStateStore
	attempts   store.AttemptStore
	srsService srs.Service
	timeFunc   func() time.Time
	logger     *slog.Logger
}

// NewReviewService creates a new ReviewService implementation.
func NewReviewService(
	db *sql.DB,
	users store.UserStore,
	questions store.QuestionStore,
	states store.LearningStateStore,
	attempts store.AttemptStore,
	srsService srs.Service,
	logger *slog.Logger,
) ReviewService {
	if db == nil {
		panic("db cannot be nil")
	}
	if users == nil || questions == nil || states == nil || attempts == nil {
		panic("stores cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &reviewServiceImpl{
		db:         db,
		users:      users,
		questions:  questions,
		states:     states,
		attempts:   attempts,
		srsService: srsService,
		timeFunc:   time.Now,
		logger:     logger.With(slog.String("component", "review_service")),
	}
}

// SubmitAnswer implements ReviewService.SubmitAnswer.
func (s *reviewServiceImpl) SubmitAnswer(
	ctx context.Context,
	userID uuid.UUID,
	sub AnswerSubmission,
) (*AnswerOutcome, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if userID == uuid.Nil || sub.AttemptID == uuid.Nil || sub.QuestionID == uuid.Nil {
		return nil, ErrInvalidSubmission
	}

	log.Debug("processing answer submission",
		slog.String("user_id", userID.String()),
		slog.String("question_id", sub.QuestionID.String()),
		slog.String("attempt_id", sub.AttemptID.String()))

	var outcome *AnswerOutcome
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		var txErr error
		outcome, txErr = s.submitInTx(ctx, tx, userID, sub)
		return txErr
	})

	// A duplicate-key conflict on the attempt insert means a concurrent (or
	// earlier) submission with the same key won the race. The transaction has
	// rolled back; serve the outcome that submission recorded.
	if errors.Is(err, store.ErrDuplicateAttempt) {
		return s.replayOutcome(ctx, userID, sub.AttemptID)
	}

	if err != nil {
		if errors.Is(err, ErrQuestionNotFound) || errors.Is(err, ErrUserDisabled) {
			return nil, err
		}
		log.Error("failed to submit answer",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("question_id", sub.QuestionID.String()))
		return nil, NewSubmitAnswerError("transaction failed", err)
	}

	log.Debug("answer processed",
		slog.String("user_id", userID.String()),
		slog.String("question_id", sub.QuestionID.String()),
		slog.Bool("correct", outcome.Correct),
		slog.Bool("replayed", outcome.Replayed),
		slog.Float64("ease_factor", outcome.EaseFactor),
		slog.Int("interval_days", outcome.IntervalDays))

	return outcome, nil
}

// submitInTx runs the full state update inside an open transaction.
func (s *reviewServiceImpl) submitInTx(
	ctx context.Context,
	tx *sql.Tx,
	userID uuid.UUID,
	sub AnswerSubmission,
) (*AnswerOutcome, error) {
	users := s.users.WithTx(tx)
	questions := s.questions.WithTx(tx)
	states := s.states.WithTx(tx)
	attempts := s.attempts.WithTx(tx)

	question, err := questions.GetActiveByID(ctx, sub.QuestionID)
	if err != nil {
		if errors.Is(err, store.ErrQuestionNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	user, err := users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user.Disabled {
		return nil, ErrUserDisabled
	}

	// Fast path for replays that already committed: return the recorded
	// outcome without touching state. The unique constraint on the attempt
	// insert below still guards the race where two submissions with the same
	// key pass this check concurrently.
	if prior, err := attempts.GetByAttemptID(ctx, userID, sub.AttemptID); err == nil {
		return outcomeFromAttempt(prior, question), nil
	} else if !errors.Is(err, store.ErrAttemptNotFound) {
		return nil, fmt.Errorf("failed to check idempotency key: %w", err)
	}

	state, err := states.GetForUpdate(ctx, userID, sub.QuestionID)
	if err != nil {
		if !errors.Is(err, store.ErrLearningStateNotFound) {
			return nil, fmt.Errorf("failed to get learning state: %w", err)
		}
		// First answer for this question creates the state.
		state, err = domain.NewLearningState(userID, sub.QuestionID, question.TopicID)
		if err != nil {
			return nil, fmt.Errorf("failed to create learning state: %w", err)
		}
	}

	now := s.timeFunc().UTC()
	grade := gradeSubmission(sub, question)

	newState, err := s.srsService.ApplyAnswer(state, grade, now)
	if err != nil {
		return nil, fmt.Errorf("failed to apply answer: %w", err)
	}

	if err := states.Upsert(ctx, newState); err != nil {
		return nil, fmt.Errorf("failed to save learning state: %w", err)
	}

	attempt := &domain.Attempt{
		ID:            uuid.New(),
		UserID:        userID,
		QuestionID:    sub.QuestionID,
		TopicID:       question.TopicID,
		AttemptID:     sub.AttemptID,
		Correct:       grade == domain.AnswerGradeCorrect,
		DontKnow:      sub.DontKnow,
		EaseAfter:     newState.EaseFactor,
		IntervalAfter: newState.IntervalDays,
		CreatedAt:     now,
	}
	if !sub.DontKnow {
		chosen := sub.ChosenIndex
		attempt.ChosenIndex = &chosen
	}
	if err := attempts.Create(ctx, attempt); err != nil {
		// store.ErrDuplicateAttempt propagates to the caller, which replays
		// the recorded outcome after rollback.
		return nil, err
	}

	if err := users.Update(ctx, user.TouchPractice(now)); err != nil {
		return nil, fmt.Errorf("failed to update streak: %w", err)
	}

	return &AnswerOutcome{
		Correct:        attempt.Correct,
		CanonicalIndex: question.AnswerIndex,
		Explanation:    question.Explanation,
		EaseFactor:     newState.EaseFactor,
		IntervalDays:   newState.IntervalDays,
	}, nil
}

// replayOutcome serves the outcome recorded by an earlier submission with the
// same idempotency key.
func (s *reviewServiceImpl) replayOutcome(
	ctx context.Context,
	userID, attemptID uuid.UUID,
) (*AnswerOutcome, error) {
	attempt, err := s.attempts.GetByAttemptID(ctx, userID, attemptID)
	if err != nil {
		return nil, NewSubmitAnswerError("failed to load recorded attempt", err)
	}

	question, err := s.questions.GetByID(ctx, attempt.QuestionID)
	if err != nil {
		if errors.Is(err, store.ErrQuestionNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, NewSubmitAnswerError("failed to load question for replay", err)
	}

	return outcomeFromAttempt(attempt, question), nil
}

// gradeSubmission converts a submission to an answer grade against the
// question's canonical index.
func gradeSubmission(sub AnswerSubmission, question *domain.Question) domain.AnswerGrade {
	if sub.DontKnow {
		return domain.AnswerGradeDontKnow
	}
	if sub.ChosenIndex == question.AnswerIndex {
		return domain.AnswerGradeCorrect
	}
	return domain.AnswerGradeIncorrect
}

// outcomeFromAttempt rebuilds the caller-visible outcome from a recorded
// attempt and its question.
func outcomeFromAttempt(attempt *domain.Attempt, question *domain.Question) *AnswerOutcome {
	return &AnswerOutcome{
		Correct:        attempt.Correct,
		CanonicalIndex: question.AnswerIndex,
		Explanation:    question.Explanation,
		EaseFactor:     attempt.EaseAfter,
		IntervalDays:   attempt.IntervalAfter,
		Replayed:       true,
	}
}
