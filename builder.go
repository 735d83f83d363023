package jellyfish

// builder.go constructs the random switch topology.
//
// The construction alternates two phases. In the matching phase pairs of open switches
// (switches with a free port) are drawn at random and linked whenever they are not
// already neighbors. When every remaining open switch is already linked to every other
// one, matching cannot make progress and the builder enters the rewire phase: an open
// switch sw takes over a link other1-other2 between two switches it does not yet
// neighbor, becoming sw-other1 and sw-other2. That leaves other1 and other2 at the same
// degree and spends two of sw's ports. If sw has a single free port, one of its links
// is broken first. Construction ends when no open switch remains, or when exactly
// one switch has exactly one free port (the only possibility for an odd port total).
//
// The rewire phase has no proven termination bound, so each attempt may rewire only
// a bounded number of times, and Build restarts a stalled attempt from scratch a
// bounded number of times before giving up with ErrConfiguration.

import (
	"errors"
	"fmt"
	"go.uber.org/zap"
)

// buildPhase identifies the state of the construction state machine
type buildPhase int

const (
	matchingPhase buildPhase = iota
	rewirePhase
	completePhase
)

var phaseToStr map[buildPhase]string = map[buildPhase]string{matchingPhase: "matching",
	rewirePhase: "rewire", completePhase: "complete"}

func (bp buildPhase) String() string {
	return phaseToStr[bp]
}

// topologyBuilder holds the state of one build attempt
type topologyBuilder struct {
	numSwitches int
	ports       int        // ports per switch used for switch-switch links
	graph       *Graph     // graph under construction
	open        *switchSet // switches with at least one free port
	rng         RandSource

	attempt    int // 1-based attempt number, for tracing
	rewires    int // rewires performed in this attempt
	maxRewires int

	trace   *BuildTrace
	metrics *Metrics
	logger  *zap.Logger
}

// createTopologyBuilder is a constructor. All switches start open.
func createTopologyBuilder(numSwitches, ports, attempt int, rng RandSource, cfg *runConfig) *topologyBuilder {
	tb := new(topologyBuilder)
	tb.numSwitches = numSwitches
	tb.ports = ports
	tb.graph = createGraph(numSwitches)
	tb.open = createSwitchSet(numSwitches)
	for s := 0; s < numSwitches; s++ {
		tb.open.add(s)
	}
	tb.rng = rng
	tb.attempt = attempt
	tb.maxRewires = cfg.rewireBound(numSwitches, ports)
	tb.trace = cfg.trace
	tb.metrics = cfg.metrics
	tb.logger = cfg.logger
	return tb
}

// checkTopologyParams rejects switch/port combinations no graph can satisfy
func checkTopologyParams(numSwitches, ports int) error {
	if numSwitches < 2 {
		return fmt.Errorf("need at least 2 switches, got %d: %w", numSwitches, ErrConfiguration)
	}
	if ports < 1 {
		return fmt.Errorf("need at least 1 port per switch, got %d: %w", ports, ErrConfiguration)
	}
	if ports >= numSwitches {
		return fmt.Errorf("%d ports per switch needs more than %d switches: %w", ports, numSwitches, ErrConfiguration)
	}
	return nil
}

// Build returns a random graph on numSwitches switches in which every switch uses at most
// portsPerSwitch ports and no two switches with free ports are left unlinked
// (apart from a single free port when the port total is odd).
//
// A stalled attempt is retried with the same random stream, which has advanced and so
// gives fresh randomness. When every attempt stalls the error wraps both
// ErrConfiguration and ErrBuildStall. The returned graph always satisfies Validate.
func Build(numSwitches, portsPerSwitch int, opts ...Option) (*Graph, error) {
	if err := checkTopologyParams(numSwitches, portsPerSwitch); err != nil {
		return nil, err
	}
	cfg := resolveOptions(opts)
	rng := cfg.randFor("jellyfish-build", 0)

	var lastErr error
	for attempt := 1; attempt <= cfg.maxAttempts; attempt++ {
		cfg.metrics.buildAttempt()
		tb := createTopologyBuilder(numSwitches, portsPerSwitch, attempt, rng, cfg)
		g, err := tb.run()
		if err == nil {
			if verr := g.Validate(portsPerSwitch); verr != nil {
				panic(verr)
			}
			cfg.logger.Info("topology built",
				zap.Int("switches", numSwitches),
				zap.Int("ports", portsPerSwitch),
				zap.Int("links", g.NumEdges()),
				zap.Int("attempt", attempt),
				zap.Int("rewires", tb.rewires))
			return g, nil
		}
		if !errors.Is(err, ErrBuildStall) {
			return nil, err
		}
		cfg.metrics.buildStall()
		cfg.logger.Warn("topology build stalled, restarting",
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", cfg.maxAttempts),
			zap.Error(err))
		lastErr = err
	}

	return nil, fmt.Errorf("%w: %d switches with %d ports stalled in all %d build attempts: %w",
		ErrConfiguration, numSwitches, portsPerSwitch, cfg.maxAttempts, lastErr)
}

// run drives the matching/rewire state machine to completion or to a stall
func (tb *topologyBuilder) run() (*Graph, error) {
	phase := matchingPhase
	for phase != completePhase {
		switch phase {
		case matchingPhase:
			tb.matchOpenSwitches()
			if tb.satisfied() {
				phase = completePhase
			} else {
				phase = rewirePhase
			}

		case rewirePhase:
			if tb.rewires >= tb.maxRewires {
				tb.trace.AddEvent(tb.attempt, StallOp, -1, -1)
				return nil, fmt.Errorf("attempt %d used all %d rewires with %d switches still open: %w",
					tb.attempt, tb.maxRewires, tb.open.len(), ErrBuildStall)
			}
			if err := tb.rewire(); err != nil {
				tb.trace.AddEvent(tb.attempt, StallOp, -1, -1)
				return nil, err
			}
			tb.rewires += 1
			tb.metrics.rewire()
			phase = matchingPhase
		}
	}
	return tb.graph, nil
}

// openPorts returns the number of free ports on switch s
func (tb *topologyBuilder) openPorts(s int) int {
	return tb.ports - tb.graph.Degree(s)
}

// updateOpen brings the open set in line with the degree of each named switch
func (tb *topologyBuilder) updateOpen(switches ...int) {
	for _, s := range switches {
		free := tb.openPorts(s)
		if free < 0 {
			panic(fmt.Errorf("%w: switch %d has degree %d above %d ports", ErrInvariantViolation,
				s, tb.graph.Degree(s), tb.ports))
		}
		if free > 0 {
			tb.open.add(s)
		} else {
			tb.open.remove(s)
		}
	}
}

// connect links a and b and refreshes the open set for both
func (tb *topologyBuilder) connect(a, b int) {
	tb.graph.connect(a, b)
	tb.updateOpen(a, b)
	if !tb.graph.Connected(a, b) {
		panic(fmt.Errorf("%w: link %d-%d missing after connect", ErrInvariantViolation, a, b))
	}
	tb.trace.AddEvent(tb.attempt, ConnectOp, a, b)
}

// disconnect breaks the link a-b and refreshes the open set for both
func (tb *topologyBuilder) disconnect(a, b int) {
	tb.graph.disconnect(a, b)
	tb.updateOpen(a, b)
	if tb.graph.Connected(a, b) {
		panic(fmt.Errorf("%w: link %d-%d present after disconnect", ErrInvariantViolation, a, b))
	}
	tb.trace.AddEvent(tb.attempt, DisconnectOp, a, b)
}

// matchOpenSwitches is the matching phase. It returns when fewer than two switches
// are open, or when the open switches are already pairwise linked.
func (tb *topologyBuilder) matchOpenSwitches() {
	for tb.open.len() >= 2 {
		i, j := randPair(tb.rng, tb.open.len())
		s1, s2 := tb.open.at(i), tb.open.at(j)
		if !tb.graph.Connected(s1, s2) {
			tb.connect(s1, s2)
			continue
		}
		if tb.openSaturated() {
			return
		}
	}
}

// openSaturated reports whether every pair of open switches is already linked
func (tb *topologyBuilder) openSaturated() bool {
	for i := 0; i < tb.open.len(); i++ {
		for j := i + 1; j < tb.open.len(); j++ {
			if !tb.graph.Connected(tb.open.at(i), tb.open.at(j)) {
				return false
			}
		}
	}
	return true
}

// satisfied is the stop condition: nothing open, or one switch with one free port
func (tb *topologyBuilder) satisfied() bool {
	if tb.open.len() == 0 {
		return true
	}
	return tb.open.len() == 1 && tb.openPorts(tb.open.at(0)) == 1
}

// rewirePartners lists the neighbors of other1 that sw could take over the link to
func (tb *topologyBuilder) rewirePartners(sw, other1 int) []int {
	partners := make([]int, 0)
	for _, nbr := range tb.graph.adj[other1].members {
		if nbr == sw || tb.graph.adj[sw].contains(nbr) {
			continue
		}
		partners = append(partners, nbr)
	}
	return partners
}

// rewire is the rewire phase. It splices an open switch into an existing link.
func (tb *topologyBuilder) rewire() error {
	sw := tb.open.pick(tb.rng)

	// sw needs two free ports to take both ends of the link it splices into
	if tb.openPorts(sw) < 2 {
		if tb.graph.Degree(sw) == 0 {
			return fmt.Errorf("attempt %d: switch %d has %d free port and no links to break: %w",
				tb.attempt, sw, tb.openPorts(sw), ErrBuildStall)
		}
		dropped := tb.graph.adj[sw].pick(tb.rng)
		tb.disconnect(sw, dropped)
	}

	// other1 must be saturated, not sw, not already a neighbor of sw,
	// and have a neighbor sw could link to in its place
	candidates := make([]int, 0)
	for s := 0; s < tb.numSwitches; s++ {
		if s == sw || tb.open.contains(s) || tb.graph.adj[sw].contains(s) {
			continue
		}
		if len(tb.rewirePartners(sw, s)) > 0 {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		return fmt.Errorf("attempt %d: no saturated switch can give up a link to switch %d: %w",
			tb.attempt, sw, ErrBuildStall)
	}

	other1 := candidates[randIndex(tb.rng, len(candidates))]
	partners := tb.rewirePartners(sw, other1)
	other2 := partners[randIndex(tb.rng, len(partners))]

	tb.logger.Debug("rewire",
		zap.Int("attempt", tb.attempt),
		zap.Int("open", sw),
		zap.Int("other1", other1),
		zap.Int("other2", other2))

	tb.disconnect(other1, other2)
	tb.connect(sw, other1)
	tb.connect(sw, other2)
	tb.trace.AddEvent(tb.attempt, RewireOp, other1, other2)
	return nil
}
