package srs

import (
	"errors"
	"time"

	"github.com/praxisapp/praxis-api/internal/domain"
)

// Common errors
var (
	ErrNilState     = errors.New("learning state cannot be nil")
	ErrInvalidGrade = errors.New("invalid answer grade")
)

// Service defines the interface for scheduling operations.
type Service interface {
	// ApplyAnswer computes the post-answer learning state for a graded
	// response submitted at now. The input state is never modified.
	ApplyAnswer(
		state *domain.LearningState,
		grade domain.AnswerGrade,
		now time.Time,
	) (*domain.LearningState, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a scheduling service with default parameters.
func NewDefaultService() Service {
	return &defaultService{params: NewDefaultParams()}
}

// NewServiceWithParams creates a scheduling service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{params: params}
}

// ApplyAnswer implements the Service interface.
func (s *defaultService) ApplyAnswer(
	state *domain.LearningState,
	grade domain.AnswerGrade,
	now time.Time,
) (*domain.LearningState, error) {
	if state == nil {
		return nil, ErrNilState
	}
	if !isValidGrade(grade) {
		return nil, ErrInvalidGrade
	}

	return calculateNextState(state, grade, now, s.params), nil
}

// isValidGrade checks if the given grade is one of the known variants.
func isValidGrade(grade domain.AnswerGrade) bool {
	switch grade {
	case domain.AnswerGradeCorrect,
		domain.AnswerGradeIncorrect,
		domain.AnswerGradeDontKnow:
		return true
	default:
		return false
	}
}
