package jellyfish

// traffic.go places servers on switches and turns server-level traffic patterns into the
// switch-level (source, destination) pairs the link-load analysis consumes.

import (
	"fmt"
)

// A TrafficPair is a flow between the switches hosting its sending and receiving servers
type TrafficPair struct {
	Src int `json:"src" yaml:"src"`
	Dst int `json:"dst" yaml:"dst"`
}

// SameSwitch reports whether both ends sit on one switch, in which case the flow crosses no link
func (tp TrafficPair) SameSwitch() bool {
	return tp.Src == tp.Dst
}

// traffic pattern names accepted in an ExperimentDesc
const (
	PermutationPattern = "permutation"
	AllToAllPattern    = "all-to-all"
)

// Placement records which switch each server is attached to
type Placement struct {
	NumSwitches int
	ServerPorts int   // servers a switch can host
	SwitchOf    []int // SwitchOf[server] is the hosting switch
	Hosted      []int // Hosted[switch] is the number of servers attached
}

// NumServers returns the number of placed servers
func (pl *Placement) NumServers() int {
	return len(pl.SwitchOf)
}

// AttachServers assigns each of numServers servers to a uniformly chosen free server port
// among numSwitches switches with serverPorts ports each. More servers than ports is ErrConfiguration.
func AttachServers(numServers, numSwitches, serverPorts int, rng RandSource) (*Placement, error) {
	if numServers < 0 || numSwitches < 1 || serverPorts < 0 {
		return nil, fmt.Errorf("placement of %d servers on %d switches with %d server ports: %w",
			numServers, numSwitches, serverPorts, ErrConfiguration)
	}
	if numServers > numSwitches*serverPorts {
		return nil, fmt.Errorf("%d servers exceed the %d server ports of %d switches: %w",
			numServers, numSwitches*serverPorts, numSwitches, ErrConfiguration)
	}

	// one slot per server port; draw slots without replacement
	slots := make([]int, 0, numSwitches*serverPorts)
	for s := 0; s < numSwitches; s++ {
		for p := 0; p < serverPorts; p++ {
			slots = append(slots, s)
		}
	}

	pl := new(Placement)
	pl.NumSwitches = numSwitches
	pl.ServerPorts = serverPorts
	pl.SwitchOf = make([]int, numServers)
	pl.Hosted = make([]int, numSwitches)
	free := len(slots)
	for server := 0; server < numServers; server++ {
		idx := randIndex(rng, free)
		sw := slots[idx]
		free -= 1
		slots[idx], slots[free] = slots[free], slots[idx]

		pl.SwitchOf[server] = sw
		pl.Hosted[sw] += 1
		if pl.Hosted[sw] > serverPorts {
			panic(fmt.Errorf("switch %d is oversubscribed with %d servers", sw, pl.Hosted[sw]))
		}
	}
	return pl, nil
}

// PermutationTraffic has every server send to exactly one other server and receive from
// exactly one, drawn as a random cyclic permutation (Sattolo's algorithm), so no server
// is asked to send to itself.
func PermutationTraffic(pl *Placement, rng RandSource) []TrafficPair {
	n := pl.NumServers()
	if n < 2 {
		return []TrafficPair{}
	}
	receiver := make([]int, n)
	for idx := range receiver {
		receiver[idx] = idx
	}
	for idx := n - 1; idx > 0; idx-- {
		jdx := rng.RandInt(0, idx-1)
		receiver[idx], receiver[jdx] = receiver[jdx], receiver[idx]
	}

	pairs := make([]TrafficPair, 0, n)
	for sender := 0; sender < n; sender++ {
		pairs = append(pairs, TrafficPair{Src: pl.SwitchOf[sender], Dst: pl.SwitchOf[receiver[sender]]})
	}
	return pairs
}

// AllToAllTraffic has every server send to every other server
func AllToAllTraffic(pl *Placement) []TrafficPair {
	n := pl.NumServers()
	pairs := make([]TrafficPair, 0, n*max(n-1, 0))
	for sender := 0; sender < n; sender++ {
		for rcvr := 0; rcvr < n; rcvr++ {
			if sender == rcvr {
				continue
			}
			pairs = append(pairs, TrafficPair{Src: pl.SwitchOf[sender], Dst: pl.SwitchOf[rcvr]})
		}
	}
	return pairs
}

// GenerateTraffic dispatches on a traffic pattern name
func GenerateTraffic(pattern string, pl *Placement, rng RandSource) ([]TrafficPair, error) {
	switch pattern {
	case PermutationPattern, "":
		return PermutationTraffic(pl, rng), nil
	case AllToAllPattern:
		return AllToAllTraffic(pl), nil
	}
	return nil, fmt.Errorf("unknown traffic pattern %q: %w", pattern, ErrConfiguration)
}
