// Package mastery implements the bucket classifier used for session
// composition and progress reporting. Classification is a pure function
// over a question's aggregate learning state and its most recent outcomes.
package mastery

// Bucket is the classification outcome for a single question.
type Bucket string

// Possible bucket values
const (
	BucketMastered     Bucket = "mastered"
	BucketAlmost       Bucket = "almost"
	BucketWeak         Bucket = "weak"
	BucketInsufficient Bucket = "insufficient"
)

// Classification thresholds. A question needs MinAttempts answers before it
// can be classified at all.
const (
	MinAttempts = 3

	masteredLastThreeAccuracy = 0.90
	masteredOverallAccuracy   = 0.85
	masteredMinBox            = 4
	masteredMinIntervalDays   = 7

	weakLastThreeAccuracy = 0.34
	weakOverallAccuracy   = 0.50
	weakMaxBox            = 1
	weakMaxIntervalDays   = 1
)

// Signal carries the inputs to a classification: aggregate counters from the
// learning state plus the correctness of the chronologically most recent
// attempts (newest first, at most three).
type Signal struct {
	TotalAttempts   int
	CorrectAttempts int
	BoxNumber       int
	IntervalDays    int
	LastThree       []bool
}

// Classify assigns a mastery bucket. Rules are evaluated in order:
// insufficient history first, then mastered (all criteria must hold), then
// weak (any criterion suffices), else almost.
func Classify(sig Signal) Bucket {
	if sig.TotalAttempts < MinAttempts {
		return BucketInsufficient
	}

	accuracy := float64(sig.CorrectAttempts) / float64(sig.TotalAttempts)

	// With fewer than one recent sample, fall back to the overall accuracy.
	// Unreachable once the insufficient guard passes, but defined for
	// robustness against callers with partial attempt history.
	lastThreeAccuracy := accuracy
	if len(sig.LastThree) > 0 {
		correct := 0
		for _, ok := range sig.LastThree {
			if ok {
				correct++
			}
		}
		lastThreeAccuracy = float64(correct) / float64(len(sig.LastThree))
	}

	if lastThreeAccuracy >= masteredLastThreeAccuracy &&
		accuracy >= masteredOverallAccuracy &&
		sig.BoxNumber >= masteredMinBox &&
		sig.IntervalDays >= masteredMinIntervalDays {
		return BucketMastered
	}

	if lastThreeAccuracy <= weakLastThreeAccuracy ||
		accuracy < weakOverallAccuracy ||
		sig.BoxNumber <= weakMaxBox ||
		sig.IntervalDays <= weakMaxIntervalDays {
		return BucketWeak
	}

	return BucketAlmost
}
