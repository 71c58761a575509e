package session

import (
	"math"
	"math/rand"

	"github.com/google/uuid"
)

// Daily-mix quota ratios. The new-question share shrinks when the due
// backlog is large so reviews are not starved.
const (
	dailyMixWeakRatio       = 0.25
	dailyMixNewRatio        = 0.15
	dailyMixNewRatioBacklog = 0.05
	dailyMixBacklogLimit    = 50
)

// Pools are the candidate question IDs a selection is drawn from. The
// builder is responsible for membership: Due holds questions whose review
// time has passed, Weak the weak-bucket questions, New the never-attempted
// ones in catalog order, Bookmarked most-recently-bookmarked first and
// Future the scheduled-but-not-yet-due questions soonest first.
type Pools struct {
	Due        []uuid.UUID
	Weak       []uuid.UUID
	New        []uuid.UUID
	Bookmarked []uuid.UUID
	Future     []uuid.UUID
}

// Composer draws session selections from pools. The random source is
// injected so tests can seed it for deterministic assertions.
type Composer struct {
	rng *rand.Rand
}

// NewComposer creates a composer drawing randomness from rng.
func NewComposer(rng *rand.Rand) *Composer {
	if rng == nil {
		panic("rng cannot be nil")
	}
	return &Composer{rng: rng}
}

// Compose produces an ordered, deduplicated selection of at most size
// question IDs for the mode. Empty pools shrink the result instead of
// erroring; a pool's unfilled quota is only redistributed through the
// explicit top-up step each mode defines.
func (c *Composer) Compose(mode Mode, size int, pools Pools) []uuid.UUID {
	sel := newSelection(size)

	switch mode {
	case ModeDueOnly:
		sel.takeRandom(c.rng, pools.Due, size)

	case ModeWeakFirst:
		sel.takeRandom(c.rng, pools.Weak, size)
		sel.takeRandom(c.rng, pools.Due, sel.remaining())

	case ModeNewOnly:
		sel.takeOrdered(pools.New, size)

	case ModeBookmarks:
		sel.takeOrdered(pools.Bookmarked, size)

	case ModeReviewFree:
		sel.takeOrdered(pools.Future, size)
		sel.takeRandom(c.rng, pools.Due, sel.remaining())

	case ModeDailyMix:
		newRatio := dailyMixNewRatio
		if len(pools.Due) > dailyMixBacklogLimit {
			newRatio = dailyMixNewRatioBacklog
		}
		dueRatio := 1 - newRatio - dailyMixWeakRatio

		// Due-first rounding: the remainder after the due and weak quotas
		// is absorbed into the new quota so the three always sum to size.
		dueNeed := int(math.Round(float64(size) * dueRatio))
		weakNeed := int(math.Round(float64(size) * dailyMixWeakRatio))
		newNeed := size - dueNeed - weakNeed

		sel.takeRandom(c.rng, pools.Due, dueNeed)
		sel.takeRandom(c.rng, pools.Weak, weakNeed)
		sel.takeOrdered(pools.New, newNeed)
		sel.takeOrdered(pools.Future, sel.remaining())
	}

	return sel.ids
}

// selection accumulates picked IDs, enforcing the size cap and uniqueness.
type selection struct {
	ids  []uuid.UUID
	seen map[uuid.UUID]struct{}
	size int
}

func newSelection(size int) *selection {
	return &selection{
		ids:  make([]uuid.UUID, 0, size),
		seen: make(map[uuid.UUID]struct{}, size),
		size: size,
	}
}

func (s *selection) remaining() int {
	return s.size - len(s.ids)
}

func (s *selection) add(id uuid.UUID) bool {
	if len(s.ids) >= s.size {
		return false
	}
	if _, dup := s.seen[id]; dup {
		return true
	}
	s.seen[id] = struct{}{}
	s.ids = append(s.ids, id)
	return true
}

// takeOrdered picks up to n IDs from the pool in its given order.
func (s *selection) takeOrdered(pool []uuid.UUID, n int) {
	taken := 0
	for _, id := range pool {
		if taken >= n || len(s.ids) >= s.size {
			return
		}
		before := len(s.ids)
		if !s.add(id) {
			return
		}
		if len(s.ids) > before {
			taken++
		}
	}
}

// takeRandom picks up to n IDs from the pool by uniform sampling without
// replacement (a Fisher-Yates shuffle of a copy).
func (s *selection) takeRandom(rng *rand.Rand, pool []uuid.UUID, n int) {
	if n <= 0 || len(pool) == 0 {
		return
	}
	shuffled := make([]uuid.UUID, len(pool))
	copy(shuffled, pool)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	s.takeOrdered(shuffled, n)
}
