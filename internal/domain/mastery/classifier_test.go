package mastery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		sig      Signal
		expected Bucket
	}{
		{
			name:     "no attempts is insufficient",
			sig:      Signal{},
			expected: BucketInsufficient,
		},
		{
			name: "two attempts is still insufficient",
			sig: Signal{
				TotalAttempts:   2,
				CorrectAttempts: 2,
				BoxNumber:       3,
				IntervalDays:    6,
				LastThree:       []bool{true, true},
			},
			expected: BucketInsufficient,
		},
		{
			name: "all mastery criteria met",
			sig: Signal{
				TotalAttempts:   10,
				CorrectAttempts: 9,
				BoxNumber:       5,
				IntervalDays:    14,
				LastThree:       []bool{true, true, true},
			},
			expected: BucketMastered,
		},
		{
			name: "mastered at the exact thresholds",
			sig: Signal{
				TotalAttempts:   20,
				CorrectAttempts: 17, // 0.85 overall
				BoxNumber:       4,
				IntervalDays:    7,
				LastThree:       []bool{true, true, true},
			},
			expected: BucketMastered,
		},
		{
			name: "high box but short interval is not mastered",
			sig: Signal{
				TotalAttempts:   10,
				CorrectAttempts: 9,
				BoxNumber:       5,
				IntervalDays:    6,
				LastThree:       []bool{true, true, true},
			},
			expected: BucketAlmost,
		},
		{
			name: "recent miss blocks mastery",
			sig: Signal{
				TotalAttempts:   10,
				CorrectAttempts: 9,
				BoxNumber:       5,
				IntervalDays:    14,
				LastThree:       []bool{false, true, true},
			},
			expected: BucketAlmost,
		},
		{
			name: "one of three recent correct is weak",
			sig: Signal{
				TotalAttempts:   10,
				CorrectAttempts: 6,
				BoxNumber:       3,
				IntervalDays:    6,
				LastThree:       []bool{true, false, false},
			},
			expected: BucketWeak,
		},
		{
			name: "low overall accuracy is weak",
			sig: Signal{
				TotalAttempts:   10,
				CorrectAttempts: 4,
				BoxNumber:       3,
				IntervalDays:    6,
				LastThree:       []bool{true, true, false},
			},
			expected: BucketWeak,
		},
		{
			name: "box one is weak regardless of accuracy",
			sig: Signal{
				TotalAttempts:   10,
				CorrectAttempts: 8,
				BoxNumber:       1,
				IntervalDays:    6,
				LastThree:       []bool{true, true, true},
			},
			expected: BucketWeak,
		},
		{
			name: "one day interval is weak regardless of accuracy",
			sig: Signal{
				TotalAttempts:   10,
				CorrectAttempts: 8,
				BoxNumber:       3,
				IntervalDays:    1,
				LastThree:       []bool{true, true, true},
			},
			expected: BucketWeak,
		},
		{
			name: "middling question is almost",
			sig: Signal{
				TotalAttempts:   10,
				CorrectAttempts: 7,
				BoxNumber:       3,
				IntervalDays:    6,
				LastThree:       []bool{true, true, false},
			},
			expected: BucketAlmost,
		},
		{
			name: "missing recent outcomes fall back to overall accuracy",
			sig: Signal{
				TotalAttempts:   4,
				CorrectAttempts: 4,
				BoxNumber:       4,
				IntervalDays:    8,
			},
			expected: BucketMastered,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, Classify(tt.sig))
		})
	}
}
