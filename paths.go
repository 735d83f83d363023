package jellyfish

// paths.go enumerates simple paths between two switches in order of non-decreasing length.
//
// The enumerator is a breadth-first search over partial paths rather than over nodes:
// a FIFO queue starts with [src], and every dequeued partial path either ends at dst
// (and is emitted) or is extended by each neighbor of its last switch that it does not
// already visit. Because partial paths are dequeued in order of length, the first
// paths emitted are exactly the shortest ones, followed by the next-shortest, and so on.
// The number of partial paths grows exponentially with depth, so the search is bounded
// by the result limit and by a step budget.

import (
	"context"
	"fmt"
	"golang.org/x/exp/slices"
)

// A Path is a sequence of distinct switches, src first and dst last
type Path []int

// Len returns the number of links on the path
func (p Path) Len() int {
	return len(p) - 1
}

// Links returns the canonical keys of the links the path crosses, in order
func (p Path) Links() []Link {
	rtn := make([]Link, 0, p.Len())
	for idx := 1; idx < len(p); idx++ {
		rtn = append(rtn, NewLink(p[idx-1], p[idx]))
	}
	return rtn
}

// ctxCheckInterval is the number of dequeued partial paths between context checks
const ctxCheckInterval = 1024

// PathEnumerator finds simple paths on a Graph. One enumerator may be reused for
// any number of pairs but is not safe for concurrent use.
type PathEnumerator struct {
	stepBudget int // partial paths dequeued before giving up
	queue      []Path
}

// NewPathEnumerator returns an enumerator that dequeues at most stepBudget partial paths per call
func NewPathEnumerator(stepBudget int) *PathEnumerator {
	if stepBudget < 1 {
		panic(fmt.Sprintf("jellyfish: path enumerator step budget %d", stepBudget))
	}
	return &PathEnumerator{stepBudget: stepBudget}
}

// Enumerate returns up to limit simple paths from src to dst in non-decreasing order of length.
// The order among paths of equal length follows the graph's neighbor order.
//
// Finding fewer than limit paths, or none at all, is a normal outcome with a nil error.
// If the step budget runs out first the paths found so far are returned along with
// ErrBudgetExhausted; cancellation of ctx likewise returns the partial result and ctx.Err().
// src == dst, or a switch outside the graph, is a caller defect and panics.
func (pe *PathEnumerator) Enumerate(ctx context.Context, g *Graph, src, dst, limit int) ([]Path, error) {
	if src == dst {
		panic(fmt.Errorf("path enumeration from switch %d to itself", src))
	}
	if src < 0 || src >= g.NumSwitches() || dst < 0 || dst >= g.NumSwitches() {
		panic(fmt.Errorf("path enumeration %d -> %d outside graph of %d switches", src, dst, g.NumSwitches()))
	}

	if limit < 1 {
		return []Path{}, nil
	}
	paths := make([]Path, 0, limit)

	pe.queue = append(pe.queue[:0], Path{src})
	defer func() {
		clear(pe.queue)
		pe.queue = pe.queue[:0]
	}()

	steps := 0
	var partial Path
	for len(pe.queue) > 0 {
		if steps >= pe.stepBudget {
			return paths, fmt.Errorf("%d -> %d: %d paths after %d steps: %w", src, dst, len(paths), steps, ErrBudgetExhausted)
		}
		if steps%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return paths, err
			}
		}
		steps += 1

		partial, pe.queue = pe.queue[0], pe.queue[1:]
		node := partial[len(partial)-1]
		if node == dst {
			paths = append(paths, partial)
			if len(paths) >= limit {
				break
			}
			continue
		}
		for _, nbr := range g.adj[node].members {
			if slices.Contains(partial, nbr) {
				continue
			}
			extended := make(Path, len(partial)+1)
			copy(extended, partial)
			extended[len(partial)] = nbr
			pe.queue = append(pe.queue, extended)
		}
	}

	return paths, nil
}

// EnumeratePaths is a convenience wrapper running a fresh enumerator with the default step budget
func EnumeratePaths(g *Graph, src, dst, limit int) []Path {
	paths, _ := NewPathEnumerator(DefaultStepBudget).Enumerate(context.Background(), g, src, dst, limit)
	return paths
}
