package window

import (
	"TopSpectra/internal/core/container"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func intFactory() container.Factory[int] {
	return container.NewBTreeFactory(func(a, b int) bool { return a < b })
}

func collect(t *testing.T, op *Operator[int], events [][2]int) []Ranking[int] {
	t.Helper()
	var out []Ranking[int]
	for _, ev := range events {
		rs, err := op.Process(ev[0], int64(ev[1]))
		require.NoError(t, err)
		out = append(out, rs...)
	}
	rs, err := op.Flush()
	require.NoError(t, err)
	return append(out, rs...)
}

// The classic hop-5 window-10 walkthrough: each 10-wide window's best value,
// emitted at every 5-unit hop boundary.
func TestHoppingWindowScenario(t *testing.T) {
	op, err := NewOperator[int](Config{Hop: 5, Window: 10, K: 3}, intFactory())
	require.NoError(t, err)

	events := [][2]int{{10, 1}, {20, 3}, {10, 6}, {30, 8}, {20, 12}, {10, 18}}
	rankings := collect(t, op, events)

	require.Len(t, rankings, 5)
	wantBoundaries := []int64{5, 10, 15, 20, 25}
	wantTop := []int{20, 30, 30, 20, 10}
	for i, r := range rankings {
		require.Equal(t, wantBoundaries[i], r.Boundary)
		require.Equal(t, wantTop[i], r.Entries[0].Value, "boundary %d", r.Boundary)
	}
}

func TestOperatorRejectsBadConfig(t *testing.T) {
	_, err := NewOperator[int](Config{Hop: 0, Window: 10, K: 3}, intFactory())
	require.Error(t, err)
	_, err = NewOperator[int](Config{Hop: 10, Window: 5, K: 3}, intFactory())
	require.Error(t, err)
	_, err = NewOperator[int](Config{Hop: 5, Window: 10, K: 0}, intFactory())
	require.Error(t, err)
}

func TestOperatorRejectsOutOfOrderEvent(t *testing.T) {
	op, err := NewOperator[int](Config{Hop: 5, Window: 10, K: 3}, intFactory())
	require.NoError(t, err)

	_, err = op.Process(1, 12)
	require.NoError(t, err)
	_, err = op.Process(2, 4)
	require.Error(t, err)
}

func TestTumblingWindow(t *testing.T) {
	op, err := NewOperator[int](Config{Hop: 10, Window: 10, K: 2}, intFactory())
	require.NoError(t, err)

	events := [][2]int{{5, 1}, {9, 4}, {5, 8}, {7, 12}, {3, 15}}
	rankings := collect(t, op, events)

	require.Len(t, rankings, 2)
	require.Equal(t, int64(10), rankings[0].Boundary)
	require.Equal(t, []Entry[int]{{Value: 9, Count: 1}, {Value: 5, Count: 2}}, rankings[0].Entries)
	require.Equal(t, int64(20), rankings[1].Boundary)
	require.Equal(t, []Entry[int]{{Value: 7, Count: 1}, {Value: 3, Count: 1}}, rankings[1].Entries)
}

func TestWindowWithGap(t *testing.T) {
	op, err := NewOperator[int](Config{Hop: 5, Window: 10, K: 3}, intFactory())
	require.NoError(t, err)

	// A long quiet period between the two bursts: the empty boundaries in
	// between must emit nothing and must not disturb later windows.
	events := [][2]int{{10, 1}, {20, 100}}
	rankings := collect(t, op, events)

	require.Len(t, rankings, 4)
	require.Equal(t, int64(5), rankings[0].Boundary)
	require.Equal(t, 10, rankings[0].Entries[0].Value)
	require.Equal(t, int64(10), rankings[1].Boundary)
	require.Equal(t, 10, rankings[1].Entries[0].Value)
	require.Equal(t, int64(105), rankings[2].Boundary)
	require.Equal(t, 20, rankings[2].Entries[0].Value)
	require.Equal(t, int64(110), rankings[3].Boundary)
	require.Equal(t, 20, rankings[3].Entries[0].Value)
}

// referenceRankings recomputes every window's top-K by full rescan: group
// units by hop, clamp each hop to its k highest units (the per-generation
// capacity bound), union the hops inside the window, project the K highest
// distinct values.
func referenceRankings(events [][2]int, cfg Config) []Ranking[int] {
	if len(events) == 0 {
		return nil
	}
	hops := make(map[int64][]int)
	firstGen := int64(1<<62 - 1)
	lastGen := int64(-(1 << 62))
	for _, ev := range events {
		gen := (int64(ev[1]) / cfg.Hop) * cfg.Hop
		hops[gen] = append(hops[gen], ev[0])
		if gen < firstGen {
			firstGen = gen
		}
		if gen > lastGen {
			lastGen = gen
		}
	}

	// Per-generation capacity bound: only the k highest units survive.
	for gen, values := range hops {
		sort.Sort(sort.Reverse(sort.IntSlice(values)))
		if len(values) > cfg.K {
			values = values[:cfg.K]
		}
		hops[gen] = values
	}

	var out []Ranking[int]
	for b := firstGen + cfg.Hop; b <= lastGen+cfg.Window; b += cfg.Hop {
		counts := make(map[int]int)
		for gen, values := range hops {
			if gen >= b-cfg.Window && gen < b {
				for _, v := range values {
					counts[v]++
				}
			}
		}
		if len(counts) == 0 {
			continue
		}
		distinct := make([]int, 0, len(counts))
		for v := range counts {
			distinct = append(distinct, v)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(distinct)))
		if len(distinct) > cfg.K {
			distinct = distinct[:cfg.K]
		}
		entries := make([]Entry[int], 0, len(distinct))
		for _, v := range distinct {
			entries = append(entries, Entry[int]{Value: v, Count: counts[v]})
		}
		out = append(out, Ranking[int]{Boundary: b, Entries: entries})
	}
	return out
}

// TestDifferentialAgainstRescan replays random streams through the
// incremental operator and the naive full-rescan reference, including
// configurations where the window is not a multiple of the hop, and demands
// identical rankings at every boundary.
func TestDifferentialAgainstRescan(t *testing.T) {
	configs := []Config{
		{Hop: 5, Window: 10, K: 3},
		{Hop: 3, Window: 7, K: 2},
		{Hop: 4, Window: 13, K: 5},
		{Hop: 2, Window: 9, K: 1},
	}
	rng := rand.New(rand.NewSource(42))

	for _, cfg := range configs {
		for trial := 0; trial < 30; trial++ {
			var events [][2]int
			ts := 0
			for i := 0; i < 200; i++ {
				// Cycling values stress repeated keys and ties.
				events = append(events, [2]int{rng.Intn(8) * 10, ts})
				ts += rng.Intn(5)
			}

			op, err := NewOperator[int](cfg, intFactory())
			require.NoError(t, err)
			got := collect(t, op, events)
			want := referenceRankings(events, cfg)

			require.Equal(t, want, got, "cfg %+v trial %d", cfg, trial)
		}
	}
}
