package srs

import "github.com/praxisapp/praxis-api/internal/domain"

// Params defines all configurable parameters for the scheduling algorithm.
type Params struct {
	// Core limits
	MinEaseFactor float64
	MaxEaseFactor float64

	// Quality scores fed into the ease-adjustment curve per grade.
	Quality map[domain.AnswerGrade]int

	// Intervals used for the first two reviews of a question.
	FirstInterval       int
	SecondInterval      int
	LapseInterval       int
	MinGrowableInterval int

	// Box movement per grade. BoxPenaltyIncorrect is subtracted from the box
	// on a wrong answer; BoxResetOnDontKnow sends the box back to 1 when the
	// learner gives up. The observed production variants differed here, so
	// both knobs are explicit rather than hard-coded.
	BoxPenaltyIncorrect int
	BoxResetOnDontKnow  bool
}

// ParamsConfig allows overriding the default parameters.
type ParamsConfig struct {
	MinEaseFactor float64
	MaxEaseFactor float64

	FirstInterval  int
	SecondInterval int
	LapseInterval  int

	BoxPenaltyIncorrect int
	BoxResetOnDontKnow  *bool
}

// NewDefaultParams creates a Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor: domain.MinEaseFactor,
		MaxEaseFactor: domain.MaxEaseFactor,

		Quality: map[domain.AnswerGrade]int{
			domain.AnswerGradeDontKnow:  1,
			domain.AnswerGradeIncorrect: 2,
			domain.AnswerGradeCorrect:   5,
		},

		FirstInterval:       1,
		SecondInterval:      6,
		LapseInterval:       1,
		MinGrowableInterval: 1,

		BoxPenaltyIncorrect: 1,
		BoxResetOnDontKnow:  true,
	}
}

// NewParams creates a Params instance with custom configuration,
// falling back to defaults for unset fields.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.MaxEaseFactor > 0 {
		params.MaxEaseFactor = config.MaxEaseFactor
	}
	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}
	if config.LapseInterval > 0 {
		params.LapseInterval = config.LapseInterval
	}
	if config.BoxPenaltyIncorrect > 0 {
		params.BoxPenaltyIncorrect = config.BoxPenaltyIncorrect
	}
	if config.BoxResetOnDontKnow != nil {
		params.BoxResetOnDontKnow = *config.BoxResetOnDontKnow
	}

	return params
}
