package srs

import (
	"math"
	"time"

	"github.com/praxisapp/praxis-api/internal/domain"
)

// calculateNewEaseFactor applies the SM-2 diminishing-ease curve for the
// quality score of the given grade:
//
//	ease' = ease + (0.1 - (5-q) * (0.08 + (5-q) * 0.02))
//
// A perfect answer (q=5) nudges the ease up by 0.1; harsher scores pull it
// down progressively. The result is clamped to [MinEaseFactor, MaxEaseFactor].
func calculateNewEaseFactor(currentEF float64, grade domain.AnswerGrade, params *Params) float64 {
	q := float64(params.Quality[grade])
	newEF := currentEF + (0.1 - (5-q)*(0.08+(5-q)*0.02))

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}
	if newEF > params.MaxEaseFactor {
		newEF = params.MaxEaseFactor
	}

	return newEF
}

// calculateNewInterval determines the next interval in days.
//
// The first-ever attempt at a question always yields FirstInterval. The
// second attempt yields SecondInterval when correct, LapseInterval otherwise.
// From the third attempt on, a correct answer grows the interval by the new
// ease factor while any failure collapses it back to LapseInterval.
func calculateNewInterval(
	currentInterval int,
	totalAttempts int,
	newEaseFactor float64,
	grade domain.AnswerGrade,
	params *Params,
) int {
	if grade != domain.AnswerGradeCorrect {
		return params.LapseInterval
	}

	switch totalAttempts {
	case 0:
		return params.FirstInterval
	case 1:
		return params.SecondInterval
	default:
		base := currentInterval
		if base < params.MinGrowableInterval {
			base = params.MinGrowableInterval
		}
		return int(math.Round(float64(base) * newEaseFactor))
	}
}

// calculateNewBox moves the mastery box for the grade. Correct answers climb
// one rung up to box 6; wrong answers drop by BoxPenaltyIncorrect; a
// don't-know either resets to box 1 or takes the incorrect penalty,
// depending on BoxResetOnDontKnow.
func calculateNewBox(currentBox int, grade domain.AnswerGrade, params *Params) int {
	var box int
	switch grade {
	case domain.AnswerGradeCorrect:
		box = currentBox + 1
	case domain.AnswerGradeDontKnow:
		if params.BoxResetOnDontKnow {
			return domain.MinBoxNumber
		}
		box = currentBox - params.BoxPenaltyIncorrect
	default:
		box = currentBox - params.BoxPenaltyIncorrect
	}

	if box < domain.MinBoxNumber {
		box = domain.MinBoxNumber
	}
	if box > domain.MaxBoxNumber {
		box = domain.MaxBoxNumber
	}
	return box
}

// calculateNextState produces the post-answer LearningState. It follows the
// immutable update pattern: the input state is copied, never modified, so
// callers can still compare before and after.
func calculateNextState(
	state *domain.LearningState,
	grade domain.AnswerGrade,
	now time.Time,
	params *Params,
) *domain.LearningState {
	next := *state

	next.EaseFactor = calculateNewEaseFactor(state.EaseFactor, grade, params)
	next.IntervalDays = calculateNewInterval(
		state.IntervalDays,
		state.TotalAttempts,
		next.EaseFactor,
		grade,
		params,
	)
	next.BoxNumber = calculateNewBox(state.BoxNumber, grade, params)

	next.TotalAttempts++
	if grade == domain.AnswerGradeCorrect {
		next.CorrectAttempts++
	}

	reviewedAt := now.UTC()
	dueAt := reviewedAt.AddDate(0, 0, next.IntervalDays)
	next.LastReviewAt = &reviewedAt
	next.NextDueAt = &dueAt
	next.UpdatedAt = reviewedAt

	return &next
}
