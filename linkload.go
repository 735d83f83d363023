package jellyfish

// linkload.go accumulates, per link, how many routed paths cross it under three routing policies:
// 8-way ECMP, 64-way ECMP, and 8 shortest paths (KSP).

import (
	"fmt"
	"golang.org/x/exp/maps"
)

// routing widths of the three policies, and the enumeration limit that feeds them
const (
	ECMP8Width        = 8
	ECMP64Width       = 64
	KSP8Width         = 8
	AnalysisPathLimit = 64
)

// policy names used in reports
const (
	ECMP8Policy  = "ecmp8"
	ECMP64Policy = "ecmp64"
	KSP8Policy   = "ksp8"
)

// Policies lists the policy names in report order
var Policies []string = []string{KSP8Policy, ECMP64Policy, ECMP8Policy}

// LinkLoads holds one counter per policy. A link missing from a map has count zero.
type LinkLoads struct {
	ECMP8  map[Link]int
	ECMP64 map[Link]int
	KSP8   map[Link]int
}

// ByPolicy returns the counter associated with a policy name
func (ll LinkLoads) ByPolicy(policy string) map[Link]int {
	switch policy {
	case ECMP8Policy:
		return ll.ECMP8
	case ECMP64Policy:
		return ll.ECMP64
	case KSP8Policy:
		return ll.KSP8
	}
	panic(fmt.Errorf("unknown routing policy %q", policy))
}

// LinkLoadAnalyzer owns one set of counters. Analyzers are independent of one another;
// a single analyzer is not safe for concurrent use.
type LinkLoadAnalyzer struct {
	ecmp8  map[Link]int
	ecmp64 map[Link]int
	ksp8   map[Link]int
	pairs  int // number of Record calls with at least one path
}

// NewLinkLoadAnalyzer returns an analyzer with all counts zero
func NewLinkLoadAnalyzer() *LinkLoadAnalyzer {
	return &LinkLoadAnalyzer{
		ecmp8:  make(map[Link]int),
		ecmp64: make(map[Link]int),
		ksp8:   make(map[Link]int),
	}
}

// addLinkCounts credits every link of path once
func addLinkCounts(path Path, counter map[Link]int) {
	for idx := 1; idx < len(path); idx++ {
		counter[NewLink(path[idx-1], path[idx])] += 1
	}
}

// Record folds the enumerated paths of one traffic pair into the counters. paths must be
// in non-decreasing length order, as Enumerate produces them. ECMP counters take the first
// 8 (or 64) paths of minimum length; KSP takes the first 8 paths whatever their length.
// Paths that begin and end on the same switch panic: such pairs are filtered upstream.
func (lla *LinkLoadAnalyzer) Record(paths []Path) {
	if len(paths) == 0 {
		return
	}
	src, dst := paths[0][0], paths[0][len(paths[0])-1]
	if src == dst {
		panic(fmt.Errorf("link load recorded for traffic from switch %d to itself", src))
	}

	shortest := paths[0].Len()
	for _, path := range paths[1:] {
		shortest = min(shortest, path.Len())
	}

	processed := 0
	for idx, path := range paths {
		if path[0] != src || path[len(path)-1] != dst {
			panic(fmt.Errorf("path %v does not join %d and %d", path, src, dst))
		}
		if path.Len() == shortest {
			if processed < ECMP8Width {
				addLinkCounts(path, lla.ecmp8)
			}
			if processed < ECMP64Width {
				addLinkCounts(path, lla.ecmp64)
			}
			processed += 1
		}
		if idx < KSP8Width {
			addLinkCounts(path, lla.ksp8)
		}
	}
	lla.pairs += 1
}

// Pairs returns the number of traffic pairs folded in with at least one path
func (lla *LinkLoadAnalyzer) Pairs() int {
	return lla.pairs
}

// Merge adds the counts of other into lla. other is left unchanged.
func (lla *LinkLoadAnalyzer) Merge(other *LinkLoadAnalyzer) {
	for lnk, cnt := range other.ecmp8 {
		lla.ecmp8[lnk] += cnt
	}
	for lnk, cnt := range other.ecmp64 {
		lla.ecmp64[lnk] += cnt
	}
	for lnk, cnt := range other.ksp8 {
		lla.ksp8[lnk] += cnt
	}
	lla.pairs += other.pairs
}

// Snapshot returns copies of the three counters
func (lla *LinkLoadAnalyzer) Snapshot() LinkLoads {
	return LinkLoads{
		ECMP8:  maps.Clone(lla.ecmp8),
		ECMP64: maps.Clone(lla.ecmp64),
		KSP8:   maps.Clone(lla.ksp8),
	}
}
