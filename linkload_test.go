package jellyfish

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sumCounts totals a counter
func sumCounts(counter map[Link]int) int {
	total := 0
	for _, cnt := range counter {
		total += cnt
	}
	return total
}

func TestRecordSingleShortestPath(t *testing.T) {
	g := pathGraph(t, 3)
	lla := NewLinkLoadAnalyzer()
	lla.Record(EnumeratePaths(g, 0, 2, AnalysisPathLimit))

	want := map[Link]int{NewLink(0, 1): 1, NewLink(1, 2): 1}
	loads := lla.Snapshot()
	assert.Equal(t, want, loads.ECMP8)
	assert.Equal(t, want, loads.ECMP64)
	assert.Equal(t, want, loads.KSP8)
	assert.Equal(t, 1, lla.Pairs())
}

func TestRecordSeparatesPolicies(t *testing.T) {
	// three shortest paths 0-x-99 followed by six three-link paths 0-y-(y+1)-99
	paths := []Path{{0, 1, 99}, {0, 2, 99}, {0, 3, 99}}
	for y := 10; y < 22; y += 2 {
		paths = append(paths, Path{0, y, y + 1, 99})
	}

	lla := NewLinkLoadAnalyzer()
	lla.Record(paths)
	loads := lla.Snapshot()

	// ECMP only takes the three shortest
	assert.Equal(t, 6, sumCounts(loads.ECMP8))
	assert.Equal(t, 6, sumCounts(loads.ECMP64))
	assert.Equal(t, 1, loads.ECMP8[NewLink(0, 2)])
	assert.Zero(t, loads.ECMP8[NewLink(0, 10)])

	// KSP takes the three shortest and the first five longer ones
	assert.Equal(t, 3*2+5*3, sumCounts(loads.KSP8))
	assert.Equal(t, 1, loads.KSP8[NewLink(18, 19)])
	assert.Zero(t, loads.KSP8[NewLink(20, 21)])
}

func TestRecordECMPWidths(t *testing.T) {
	// seventy two-link paths through distinct middle switches
	paths := make([]Path, 0, 70)
	for mid := 1; mid <= 70; mid++ {
		paths = append(paths, Path{0, mid, 1000})
	}
	lla := NewLinkLoadAnalyzer()
	lla.Record(paths)
	loads := lla.Snapshot()

	assert.Equal(t, 8*2, sumCounts(loads.ECMP8))
	assert.Equal(t, 64*2, sumCounts(loads.ECMP64))
	assert.Equal(t, 8*2, sumCounts(loads.KSP8))
	assert.Equal(t, 1, loads.ECMP64[NewLink(64, 1000)])
	assert.Zero(t, loads.ECMP64[NewLink(65, 1000)])
}

func TestRecordAccumulatesSharedLinks(t *testing.T) {
	lla := NewLinkLoadAnalyzer()
	lla.Record([]Path{{0, 1, 2}})
	lla.Record([]Path{{2, 1, 0}})
	lla.Record([]Path{{1, 2}})
	loads := lla.Snapshot()
	assert.Equal(t, 2, loads.KSP8[NewLink(0, 1)])
	assert.Equal(t, 3, loads.KSP8[NewLink(1, 2)])
	assert.Equal(t, 3, lla.Pairs())
}

func TestRecordEmptyAndInvalid(t *testing.T) {
	lla := NewLinkLoadAnalyzer()
	lla.Record(nil)
	assert.Zero(t, lla.Pairs())
	assert.Empty(t, lla.Snapshot().KSP8)

	assert.Panics(t, func() { lla.Record([]Path{{3}}) }, "same-switch pair")
	assert.Panics(t, func() { lla.Record([]Path{{0, 1}, {2, 1}}) }, "paths of different pairs")
	assert.Panics(t, func() { lla.Record([]Path{{0, 0, 1}}) }, "self-link")
}

func TestSnapshotIsCopy(t *testing.T) {
	lla := NewLinkLoadAnalyzer()
	lla.Record([]Path{{0, 1}})
	snap := lla.Snapshot()
	snap.ECMP8[NewLink(0, 1)] = 100
	assert.Equal(t, 1, lla.Snapshot().ECMP8[NewLink(0, 1)])
}

func TestMergeAddsCounters(t *testing.T) {
	a := NewLinkLoadAnalyzer()
	b := NewLinkLoadAnalyzer()
	a.Record([]Path{{0, 1, 2}})
	b.Record([]Path{{1, 2, 3}})
	a.Merge(b)

	loads := a.Snapshot()
	assert.Equal(t, map[Link]int{{0, 1}: 1, {1, 2}: 2, {2, 3}: 1}, loads.ECMP64)
	assert.Equal(t, 2, a.Pairs())
	assert.Equal(t, 1, b.Pairs(), "merge leaves its argument alone")
}

func TestRecordCountsEveryQualifyingPath(t *testing.T) {
	g, err := Build(24, 5, WithSeed(31))
	require.NoError(t, err)
	rng := SeededSource(31, 1)
	pe := NewPathEnumerator(DefaultStepBudget)
	lla := NewLinkLoadAnalyzer()

	wantECMP8, wantECMP64, wantKSP8 := 0, 0, 0
	for i := 0; i < 60; i++ {
		src, dst := randPair(rng, g.NumSwitches())
		paths, err := pe.Enumerate(context.Background(), g, src, dst, AnalysisPathLimit)
		require.NoError(t, err)
		require.NotEmpty(t, paths)

		shortest := 0
		for _, p := range paths {
			if p.Len() == paths[0].Len() {
				shortest += 1
			}
		}
		wantECMP8 += min(shortest, ECMP8Width) * paths[0].Len()
		wantECMP64 += min(shortest, ECMP64Width) * paths[0].Len()
		for _, p := range paths[:min(len(paths), KSP8Width)] {
			wantKSP8 += p.Len()
		}
		lla.Record(paths)
	}

	loads := lla.Snapshot()
	assert.Equal(t, wantECMP8, sumCounts(loads.ECMP8))
	assert.Equal(t, wantECMP64, sumCounts(loads.ECMP64))
	assert.Equal(t, wantKSP8, sumCounts(loads.KSP8))
	for lnk := range loads.KSP8 {
		assert.True(t, g.Connected(lnk.A, lnk.B), "counted link %s is in the graph", lnk)
	}
}
