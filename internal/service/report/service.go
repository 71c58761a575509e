// Package report lets learners flag broken questions. Reports are stored
// for content maintainers; no triage workflow lives in this service.
package report

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

// Issue types a learner can file.
const (
	IssueTypeWrongAnswer = "wrong_answer"
	IssueTypeUnclear     = "unclear"
	IssueTypeTypo        = "typo"
	IssueTypeOther       = "other"
)

// Service errors
var (
	// ErrQuestionNotFound indicates the reported question does not exist.
	ErrQuestionNotFound = errors.New("question not found")

	// ErrInvalidIssueType indicates an unrecognized issue type.
	ErrInvalidIssueType = errors.New("invalid issue type")
)

// Service files question reports.
type Service struct {
	questions store.QuestionStore
	timeFunc  func() time.Time
	logger    *slog.Logger
}

// NewService creates a report service.
func NewService(questions store.QuestionStore, logger *slog.Logger) *Service {
	if questions == nil {
		panic("questions store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		questions: questions,
		timeFunc:  time.Now,
		logger:    logger.With(slog.String("component", "report_service")),
	}
}

// File records a learner report against a question. Inactive questions can
// still be reported; a question that was pulled from rotation is exactly the
// kind a learner may want to flag.
func (s *Service) File(
	ctx context.Context,
	userID, questionID uuid.UUID,
	issueType, message string,
) (*domain.QuestionReport, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !validIssueType(issueType) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidIssueType, issueType)
	}

	if _, err := s.questions.GetByID(ctx, questionID); err != nil {
		if errors.Is(err, store.ErrQuestionNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	rpt := &domain.QuestionReport{
		ID:         uuid.New(),
		UserID:     userID,
		QuestionID: questionID,
		IssueType:  issueType,
		Message:    message,
		CreatedAt:  s.timeFunc().UTC(),
	}

	if err := s.questions.CreateReport(ctx, rpt); err != nil {
		if errors.Is(err, store.ErrInvalidEntity) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to save report: %w", err)
	}

	log.Info("question report filed",
		slog.String("report_id", rpt.ID.String()),
		slog.String("question_id", questionID.String()),
		slog.String("issue_type", issueType))

	return rpt, nil
}

func validIssueType(t string) bool {
	switch t {
	case IssueTypeWrongAnswer, IssueTypeUnclear, IssueTypeTypo, IssueTypeOther:
		return true
	}
	return false
}
