package topk

import (
	"TopSpectra/internal/core/multiset"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func items(s *multiset.OrderedMultiset[int]) []multiset.Item[int] {
	return s.Items()
}

func TestHoppingAddBoundsCurrentGeneration(t *testing.T) {
	h := NewHoppingState(3, intFactory())

	values := []int{5, 1, 9, 2, 8, 7, 3}
	for _, v := range values {
		require.NoError(t, h.Add(v, 10))
		require.LessOrEqual(t, h.current.TotalCount(), 3)
	}

	// Only the three highest-ranked values of the generation survive.
	require.Equal(t, []multiset.Item[int]{{Value: 7, Count: 1}, {Value: 8, Count: 1}, {Value: 9, Count: 1}}, items(h.current))
}

func TestHoppingAddEvictsFullMinMultiplicity(t *testing.T) {
	h := NewHoppingState(2, intFactory())

	require.NoError(t, h.Add(5, 0))
	require.NoError(t, h.Add(5, 0))
	// 9 overflows the bound by one; one unit of the worst value goes.
	require.NoError(t, h.Add(9, 0))
	require.Equal(t, []multiset.Item[int]{{Value: 5, Count: 1}, {Value: 9, Count: 1}}, items(h.current))

	// Another 9 evicts the last 5 entirely.
	require.NoError(t, h.Add(9, 0))
	require.Equal(t, []multiset.Item[int]{{Value: 9, Count: 2}}, items(h.current))
}

func TestHoppingAddAdvancesGeneration(t *testing.T) {
	h := NewHoppingState(3, intFactory())

	require.NoError(t, h.Add(10, 1))
	require.NoError(t, h.Add(20, 1))
	require.NoError(t, h.Add(30, 2))

	require.Equal(t, int64(2), h.currentTimestamp)
	require.Equal(t, 1, h.current.TotalCount())
	require.Equal(t, 2, h.previous.TotalCount())
	require.Equal(t, 3, h.Count())
}

func TestHoppingAddOutOfOrderFails(t *testing.T) {
	h := NewHoppingState(3, intFactory())
	require.NoError(t, h.Add(10, 5))
	require.ErrorIs(t, h.Add(20, 4), ErrOutOfOrderTimestamp)
}

func TestHoppingRemoveRoutesByTimestamp(t *testing.T) {
	h := NewHoppingState(5, intFactory())
	require.NoError(t, h.Add(10, 1))
	require.NoError(t, h.Add(20, 2))

	// Older than the current generation: retract from previous.
	require.NoError(t, h.Remove(10, 1))
	require.True(t, h.previous.IsEmpty())

	// Current generation: retract from current.
	require.NoError(t, h.Remove(20, 2))
	require.True(t, h.current.IsEmpty())

	// The future is not retractable.
	require.ErrorIs(t, h.Remove(20, 3), ErrOutOfOrderTimestamp)
}

func TestHoppingSnapshotFoldsAndIsIdempotent(t *testing.T) {
	h := NewHoppingState(5, intFactory())
	require.NoError(t, h.Add(10, 1))
	require.NoError(t, h.Add(20, 2))
	require.NoError(t, h.Add(20, 2))

	first := h.Snapshot().Items()
	require.Equal(t, []multiset.Item[int]{{Value: 10, Count: 1}, {Value: 20, Count: 2}}, first)

	// The fold happened: everything now lives in one buffer.
	require.True(t, h.current.IsEmpty())

	second := h.Snapshot().Items()
	require.Equal(t, first, second)
}

func TestHoppingSnapshotWithoutPreviousReturnsCurrent(t *testing.T) {
	h := NewHoppingState(5, intFactory())
	require.NoError(t, h.Add(10, 1))
	require.Equal(t, []multiset.Item[int]{{Value: 10, Count: 1}}, h.Snapshot().Items())
}

func TestHoppingMergeFoldsSmallerIntoLarger(t *testing.T) {
	h := NewHoppingState(10, intFactory())

	// Generation 1 has more unique keys than generation 2, so the fold at
	// the boundary must swap buffer identities before merging.
	for _, v := range []int{1, 2, 3, 4} {
		require.NoError(t, h.Add(v, 1))
	}
	require.NoError(t, h.Add(9, 2))

	require.Equal(t, 4, h.previous.UniqueCount())
	require.Equal(t, 1, h.current.UniqueCount())
	require.Equal(t, []multiset.Item[int]{{Value: 1, Count: 1}, {Value: 2, Count: 1}, {Value: 3, Count: 1}, {Value: 4, Count: 1}, {Value: 9, Count: 1}}, h.Snapshot().Items())
}

func TestHoppingRemoveAllContracts(t *testing.T) {
	h := NewHoppingState(5, intFactory())
	require.NoError(t, h.Add(10, 2))

	empty := NewHoppingState(5, intFactory())
	// Empty retraction is a no-op even though its generation is not older.
	require.NoError(t, h.RemoveAll(empty))

	same := NewHoppingState(5, intFactory())
	require.NoError(t, same.Add(10, 2))
	require.ErrorIs(t, h.RemoveAll(same), ErrOutOfOrderTimestamp)

	newer := NewHoppingState(5, intFactory())
	require.NoError(t, newer.Add(10, 3))
	require.ErrorIs(t, h.RemoveAll(newer), ErrOutOfOrderTimestamp)

	require.ErrorIs(t, h.RemoveAll(NewSimpleState(intFactory())), ErrIncompatibleStateVariant)
}

func TestHoppingRemoveAllSubtractsFromPrevious(t *testing.T) {
	h := NewHoppingState(5, intFactory())
	require.NoError(t, h.Add(10, 1))
	require.NoError(t, h.Add(20, 1))
	require.NoError(t, h.Add(30, 2))

	old := NewHoppingState(5, intFactory())
	require.NoError(t, old.Add(10, 1))

	require.NoError(t, h.RemoveAll(old))
	require.Equal(t, []multiset.Item[int]{{Value: 20, Count: 1}, {Value: 30, Count: 1}}, h.Snapshot().Items())
}

func TestHoppingAddAllSameGenerationTrimsToBound(t *testing.T) {
	a := NewHoppingState(3, intFactory())
	b := NewHoppingState(3, intFactory())
	for _, v := range []int{5, 6} {
		require.NoError(t, a.Add(v, 1))
	}
	for _, v := range []int{4, 7} {
		require.NoError(t, b.Add(v, 1))
	}

	require.NoError(t, a.AddAll(b))
	require.Equal(t, []multiset.Item[int]{{Value: 5, Count: 1}, {Value: 6, Count: 1}, {Value: 7, Count: 1}}, items(a.current))
	// b keeps its content.
	require.Equal(t, 2, b.Count())
}

// Pins the reconciliation semantics of merging an older state: its content
// is subtracted from previous, mirroring RemoveAll, not added. Downstream
// combine protocols rely on this exact behavior.
func TestHoppingAddAllOlderGenerationSubtracts(t *testing.T) {
	h := NewHoppingState(5, intFactory())
	require.NoError(t, h.Add(10, 1))
	require.NoError(t, h.Add(20, 1))
	require.NoError(t, h.Add(30, 2))

	old := NewHoppingState(5, intFactory())
	require.NoError(t, old.Add(20, 1))

	require.NoError(t, h.AddAll(old))
	require.Equal(t, []multiset.Item[int]{{Value: 10, Count: 1}, {Value: 30, Count: 1}}, h.Snapshot().Items())
}

func TestHoppingAddAllNewerGenerationAdopts(t *testing.T) {
	a := NewHoppingState(3, intFactory())
	require.NoError(t, a.Add(10, 1))

	b := NewHoppingState(3, intFactory())
	require.NoError(t, b.Add(40, 1))
	require.NoError(t, b.Add(50, 2))

	require.NoError(t, a.AddAll(b))

	require.Equal(t, int64(2), a.currentTimestamp)
	// a's old current folded into previous; b's previous (the 40 at ts 1)
	// is discarded, only b's newest generation carries forward.
	require.Equal(t, []multiset.Item[int]{{Value: 50, Count: 1}}, items(a.current))
	require.Equal(t, []multiset.Item[int]{{Value: 10, Count: 1}}, items(a.previous))
}

func TestHoppingAddAllRejectsOtherVariant(t *testing.T) {
	h := NewHoppingState(3, intFactory())
	require.ErrorIs(t, h.AddAll(NewSimpleState(intFactory())), ErrIncompatibleStateVariant)
}

// The combine/retract round trip used by window operators: merge a delta at
// the same generation, advance past it, then retract it. The receiver ends
// Snapshot-equivalent to its pre-merge content.
func TestHoppingAddAllRemoveAllRoundTrip(t *testing.T) {
	a := NewHoppingState(10, intFactory())
	require.NoError(t, a.Add(10, 1))
	require.NoError(t, a.Add(20, 1))

	b := NewHoppingState(10, intFactory())
	require.NoError(t, b.Add(30, 1))
	require.NoError(t, b.Add(30, 1))

	require.NoError(t, a.AddAll(b))
	require.NoError(t, a.Add(40, 2)) // advance a past b's generation
	require.NoError(t, a.RemoveAll(b))

	require.Equal(t, []multiset.Item[int]{{Value: 10, Count: 1}, {Value: 20, Count: 1}, {Value: 40, Count: 1}}, a.Snapshot().Items())
}

// TestHoppingBoundHoldsUnderRandomStream checks the capacity invariant on
// the open generation for arbitrary time-ordered insertions.
func TestHoppingBoundHoldsUnderRandomStream(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const k = 8

	h := NewHoppingState(k, intFactory())
	ts := int64(0)
	for i := 0; i < 5000; i++ {
		if rng.Intn(10) == 0 {
			ts += int64(rng.Intn(3) + 1)
		}
		require.NoError(t, h.Add(rng.Intn(50), ts))
		require.LessOrEqual(t, h.current.TotalCount(), k)
	}
}
