package jellyfish

// graph.go holds the switch graph produced by the topology builder.
// A Graph is a symmetric adjacency structure over switch ids 0..N-1. Only code in this
// package mutates it, through connect and disconnect; what Build returns is read-only.

import (
	"fmt"
	"golang.org/x/exp/slices"
	"strconv"
)

// A Link is an undirected edge between two adjacent switches. NewLink puts the
// smaller id in A, so (a,b) and (b,a) give the same key.
type Link struct {
	A int `json:"a" yaml:"a"`
	B int `json:"b" yaml:"b"`
}

// NewLink returns the canonical key for the link between a and b.
// A link from a switch to itself is a caller defect and panics.
func NewLink(a, b int) Link {
	if a == b {
		panic(fmt.Errorf("link cannot be between switch %d and itself", a))
	}
	if a > b {
		a, b = b, a
	}
	return Link{A: a, B: b}
}

// String gives the "a-b" name used in reports
func (lnk Link) String() string {
	return strconv.Itoa(lnk.A) + "-" + strconv.Itoa(lnk.B)
}

// compareLinks orders links by A, then B
func compareLinks(x, y Link) int {
	if x.A != y.A {
		return x.A - y.A
	}
	return x.B - y.B
}

// Graph is the switch-level topology
type Graph struct {
	adj []*switchSet // adj[i] holds the neighbors of switch i
	numEdges int
}

// createGraph is a constructor for an edgeless graph on n switches
func createGraph(n int) *Graph {
	g := new(Graph)
	g.adj = make([]*switchSet, n)
	for idx := 0; idx < n; idx++ {
		g.adj[idx] = createSwitchSet(4)
	}
	return g
}

// GraphFromEdges builds a read-only graph on n switches from an edge list.
// It is meant for topologies that come from somewhere other than Build,
// e.g., fixed test fixtures or externally described networks.
func GraphFromEdges(n int, edges []Link) (*Graph, error) {
	if n < 1 {
		return nil, fmt.Errorf("graph needs at least one switch, got %d: %w", n, ErrConfiguration)
	}
	g := createGraph(n)
	for _, lnk := range edges {
		if lnk.A < 0 || lnk.A >= n || lnk.B < 0 || lnk.B >= n {
			return nil, fmt.Errorf("link %s names a switch outside [0,%d): %w", lnk, n, ErrConfiguration)
		}
		if lnk.A == lnk.B {
			return nil, fmt.Errorf("self-loop on switch %d: %w", lnk.A, ErrConfiguration)
		}
		if g.Connected(lnk.A, lnk.B) {
			return nil, fmt.Errorf("duplicated link %s: %w", lnk, ErrConfiguration)
		}
		g.connect(lnk.A, lnk.B)
	}
	return g, nil
}

// NumSwitches returns the number of switches, connected or not
func (g *Graph) NumSwitches() int {
	return len(g.adj)
}

// NumEdges returns the number of links
func (g *Graph) NumEdges() int {
	return g.numEdges
}

// Degree returns the number of neighbors of switch s
func (g *Graph) Degree(s int) int {
	return g.adj[s].len()
}

// Neighbors returns a copy of the neighbor list of switch s. The order is
// stable for a given graph but otherwise unspecified.
func (g *Graph) Neighbors(s int) []int {
	return g.adj[s].items()
}

// Connected reports whether a and b are adjacent. A one-sided adjacency means
// the graph is corrupt and panics.
func (g *Graph) Connected(a, b int) bool {
	if g.adj[b].contains(a) {
		if !g.adj[a].contains(b) {
			panic(fmt.Errorf("%w: switch %d lists %d as neighbor but not the reverse", ErrInvariantViolation, b, a))
		}
		return true
	}
	return false
}

// Edges returns every link once, sorted
func (g *Graph) Edges() []Link {
	rtn := make([]Link, 0, g.numEdges)
	for s, nbrs := range g.adj {
		for _, nbr := range nbrs.members {
			if s < nbr {
				rtn = append(rtn, Link{A: s, B: nbr})
			}
		}
	}
	slices.SortFunc(rtn, compareLinks)
	return rtn
}

// Adjacency returns a copy of the graph as switch id -> sorted neighbor ids,
// the form export and introspection code consumes
func (g *Graph) Adjacency() map[int][]int {
	rtn := make(map[int][]int, len(g.adj))
	for s := range g.adj {
		nbrs := g.Neighbors(s)
		slices.Sort(nbrs)
		rtn[s] = nbrs
	}
	return rtn
}

// Validate checks the whole graph against its invariants: symmetric adjacency,
// no self-loops, and no switch with more than ports neighbors (ports < 0 skips that check)
func (g *Graph) Validate(ports int) error {
	endpoints := 0
	for s, nbrs := range g.adj {
		if ports >= 0 && nbrs.len() > ports {
			return fmt.Errorf("%w: switch %d has degree %d above %d ports", ErrInvariantViolation, s, nbrs.len(), ports)
		}
		for _, nbr := range nbrs.members {
			if nbr == s {
				return fmt.Errorf("%w: self-loop on switch %d", ErrInvariantViolation, s)
			}
			if nbr < 0 || nbr >= len(g.adj) {
				return fmt.Errorf("%w: switch %d has neighbor %d outside the graph", ErrInvariantViolation, s, nbr)
			}
			if !g.adj[nbr].contains(s) {
				return fmt.Errorf("%w: link %d-%d is one-sided", ErrInvariantViolation, s, nbr)
			}
		}
		endpoints += nbrs.len()
	}
	if endpoints != 2*g.numEdges {
		return fmt.Errorf("%w: %d link endpoints for %d links", ErrInvariantViolation, endpoints, g.numEdges)
	}
	return nil
}

// connect adds the link a-b. Adding a self-loop or an existing link is a defect in the caller.
func (g *Graph) connect(a, b int) {
	if a == b {
		panic(fmt.Errorf("%w: connect of switch %d to itself", ErrInvariantViolation, a))
	}
	addedA := g.adj[a].add(b)
	addedB := g.adj[b].add(a)
	if !addedA || !addedB {
		panic(fmt.Errorf("%w: connect of already linked switches %d and %d", ErrInvariantViolation, a, b))
	}
	g.numEdges += 1
}

// disconnect removes the link a-b, which must exist
func (g *Graph) disconnect(a, b int) {
	removedA := g.adj[a].remove(b)
	removedB := g.adj[b].remove(a)
	if !removedA || !removedB {
		panic(fmt.Errorf("%w: disconnect of unlinked switches %d and %d", ErrInvariantViolation, a, b))
	}
	g.numEdges -= 1
}
