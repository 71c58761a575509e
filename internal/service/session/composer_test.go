package session

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestComposer() *Composer {
	return NewComposer(rand.New(rand.NewSource(42)))
}

func makeIDs(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
	}
	return ids
}

func toSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func countIn(selection []uuid.UUID, pool []uuid.UUID) int {
	set := toSet(pool)
	n := 0
	for _, id := range selection {
		if _, ok := set[id]; ok {
			n++
		}
	}
	return n
}

func assertNoDuplicates(t *testing.T, ids []uuid.UUID) {
	t.Helper()
	assert.Len(t, toSet(ids), len(ids), "selection contains duplicates")
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{
		"daily_mix", "due_only", "weak_first", "new_only", "bookmarks", "review_free",
	} {
		mode, err := ParseMode(valid)
		require.NoError(t, err)
		assert.Equal(t, Mode(valid), mode)
	}

	_, err := ParseMode("cram")
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestCompose_DailyMixQuotas(t *testing.T) {
	t.Parallel()

	pools := Pools{
		Due:  makeIDs(30),
		Weak: makeIDs(15),
		New:  makeIDs(10),
	}

	got := newTestComposer().Compose(ModeDailyMix, 20, pools)

	// 60% due, 25% weak, remainder new: 12 + 5 + 3.
	require.Len(t, got, 20)
	assertNoDuplicates(t, got)
	assert.Equal(t, 12, countIn(got, pools.Due))
	assert.Equal(t, 5, countIn(got, pools.Weak))
	assert.Equal(t, 3, countIn(got, pools.New))
}

func TestCompose_DailyMixBacklogShrinksNewQuota(t *testing.T) {
	t.Parallel()

	pools := Pools{
		Due:  makeIDs(60),
		Weak: makeIDs(15),
		New:  makeIDs(10),
	}

	got := newTestComposer().Compose(ModeDailyMix, 20, pools)

	// Backlog over 50 due: 70% due, 25% weak, 5% new: 14 + 5 + 1.
	require.Len(t, got, 20)
	assertNoDuplicates(t, got)
	assert.Equal(t, 14, countIn(got, pools.Due))
	assert.Equal(t, 5, countIn(got, pools.Weak))
	assert.Equal(t, 1, countIn(got, pools.New))
}

func TestCompose_DailyMixTopsUpFromFuture(t *testing.T) {
	t.Parallel()

	pools := Pools{
		Due:    makeIDs(2),
		Weak:   makeIDs(1),
		New:    makeIDs(1),
		Future: makeIDs(30),
	}

	got := newTestComposer().Compose(ModeDailyMix, 10, pools)

	require.Len(t, got, 10)
	assertNoDuplicates(t, got)
	assert.Equal(t, 2, countIn(got, pools.Due))
	assert.Equal(t, 1, countIn(got, pools.Weak))
	assert.Equal(t, 1, countIn(got, pools.New))
	// The remaining slots come from the soonest-due future questions in order.
	assert.Equal(t, pools.Future[:6], got[4:])
}

func TestCompose_ShrinksOnExhaustedPools(t *testing.T) {
	t.Parallel()

	pools := Pools{
		Due:  makeIDs(3),
		Weak: makeIDs(1),
	}

	got := newTestComposer().Compose(ModeDailyMix, 20, pools)

	require.Len(t, got, 4)
	assertNoDuplicates(t, got)
}

func TestCompose_DueOnly(t *testing.T) {
	t.Parallel()

	pools := Pools{Due: makeIDs(8), Weak: makeIDs(5), New: makeIDs(5)}

	got := newTestComposer().Compose(ModeDueOnly, 5, pools)

	require.Len(t, got, 5)
	assertNoDuplicates(t, got)
	assert.Equal(t, 5, countIn(got, pools.Due))
}

func TestCompose_WeakFirstFallsBackToDue(t *testing.T) {
	t.Parallel()

	pools := Pools{
		Due:  makeIDs(10),
		Weak: makeIDs(3),
	}

	got := newTestComposer().Compose(ModeWeakFirst, 8, pools)

	require.Len(t, got, 8)
	assertNoDuplicates(t, got)
	assert.Equal(t, 3, countIn(got, pools.Weak))
	assert.Equal(t, 5, countIn(got, pools.Due))
}

func TestCompose_WeakFirstDeduplicatesOverlap(t *testing.T) {
	t.Parallel()

	// Every weak question is also due; the overlap must not produce repeats.
	due := makeIDs(10)
	pools := Pools{
		Due:  due,
		Weak: due[:4],
	}

	got := newTestComposer().Compose(ModeWeakFirst, 10, pools)

	require.Len(t, got, 10)
	assertNoDuplicates(t, got)
}

func TestCompose_NewOnlyPreservesCatalogOrder(t *testing.T) {
	t.Parallel()

	pools := Pools{New: makeIDs(10)}

	got := newTestComposer().Compose(ModeNewOnly, 5, pools)

	assert.Equal(t, pools.New[:5], got)
}

func TestCompose_BookmarksPreservesRecencyOrder(t *testing.T) {
	t.Parallel()

	pools := Pools{Bookmarked: makeIDs(7)}

	got := newTestComposer().Compose(ModeBookmarks, 5, pools)

	assert.Equal(t, pools.Bookmarked[:5], got)
}

func TestCompose_ReviewFreePrefersFuture(t *testing.T) {
	t.Parallel()

	pools := Pools{
		Due:    makeIDs(10),
		Future: makeIDs(3),
	}

	got := newTestComposer().Compose(ModeReviewFree, 6, pools)

	require.Len(t, got, 6)
	assertNoDuplicates(t, got)
	assert.Equal(t, pools.Future, got[:3])
	assert.Equal(t, 3, countIn(got, pools.Due))
}

func TestCompose_EmptyPoolsYieldEmptySelection(t *testing.T) {
	t.Parallel()

	for _, mode := range []Mode{
		ModeDailyMix, ModeDueOnly, ModeWeakFirst, ModeNewOnly, ModeBookmarks, ModeReviewFree,
	} {
		got := newTestComposer().Compose(mode, 10, Pools{})
		assert.Empty(t, got, "mode %s", mode)
	}
}
