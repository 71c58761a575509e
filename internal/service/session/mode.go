// Package session implements the session composer: it gathers a user's
// per-question pools (due, weak, new, bookmarked, future) for a topic and
// draws a bounded, deduplicated selection according to the requested mode's
// quotas and top-up rules.
package session

import (
	"errors"
	"fmt"
)

// Mode selects the composition strategy for a practice session.
type Mode string

// Possible session modes
const (
	ModeDailyMix   Mode = "daily_mix"
	ModeDueOnly    Mode = "due_only"
	ModeWeakFirst  Mode = "weak_first"
	ModeNewOnly    Mode = "new_only"
	ModeBookmarks  Mode = "bookmarks"
	ModeReviewFree Mode = "review_free"
)

// Session size bounds
const (
	MinSize     = 5
	MaxSize     = 30
	DefaultSize = 10
)

// ErrInvalidMode indicates an unrecognized session mode.
var ErrInvalidMode = errors.New("invalid session mode")

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeDailyMix, ModeDueOnly, ModeWeakFirst, ModeNewOnly, ModeBookmarks, ModeReviewFree:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}
