package jellyfish

// errors.go holds the sentinel errors reported by topology construction and path analysis.
// Callers branch on them with errors.Is; context is attached with %w where they are returned.

import (
	"errors"
)

// ErrConfiguration reports a parameter combination that cannot produce a valid topology
// or placement, e.g., ports >= switches, fewer than two switches, more servers than
// server ports, or a build whose stalls exhausted the retry bound.
var ErrConfiguration = errors.New("jellyfish: invalid configuration")

// ErrBuildStall reports that the rewire phase could not locate a valid candidate pair,
// or that one attempt spent its rewire bound. Build retries these internally.
var ErrBuildStall = errors.New("jellyfish: topology build stalled")

// ErrInvariantViolation marks a broken graph invariant (asymmetric adjacency, self-loop,
// or a degree above the port count). It is only ever delivered through panic.
var ErrInvariantViolation = errors.New("jellyfish: graph invariant violated")

// ErrBudgetExhausted is returned with the partial result when path enumeration
// runs out of its step budget before finding 'limit' paths.
var ErrBudgetExhausted = errors.New("jellyfish: path enumeration budget exhausted")
