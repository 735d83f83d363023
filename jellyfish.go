// Package jellyfish builds Jellyfish topologies, random graphs of switches in which every
// switch uses a fixed number of ports for switch-switch links, and measures how traffic
// loads their links when routed by 8-way ECMP, 64-way ECMP, or 8 shortest paths.
//
// Build produces the switch graph; a PathEnumerator lists simple paths between two switches
// in order of length; a LinkLoadAnalyzer folds those paths into per-link counters.
// AnalyzeTraffic runs the latter two over many traffic pairs in parallel, and
// RunExperiment chains everything from an ExperimentDesc to a LinkLoadReport.
package jellyfish

// jellyfish.go has the code that runs a whole experiment

import (
	"context"
	"go.uber.org/zap"
)

// RunExperiment is called from the command that runs an experiment. It validates the
// description, builds the topology, places servers, generates traffic, analyses the link
// loads, and returns the report. Options given here are applied after those the
// description implies, so they take precedence.
func RunExperiment(ctx context.Context, xd *ExperimentDesc, opts ...Option) (*LinkLoadReport, error) {
	if err := xd.Validate(); err != nil {
		return nil, err
	}
	opts = append(xd.Options(), opts...)
	cfg := resolveOptions(opts)

	cfg.logger.Info("experiment starting",
		zap.String("name", xd.Name),
		zap.Int("switches", xd.Switches),
		zap.Int("switchPorts", xd.SwitchPorts),
		zap.Int("servers", xd.Servers),
		zap.Int("serverPorts", xd.ServerPorts),
		zap.String("traffic", xd.Traffic))

	g, err := Build(xd.Switches, xd.SwitchPorts, opts...)
	if err != nil {
		return nil, err
	}

	// placement and traffic draw from their own stream so the topology
	// does not depend on the traffic parameters
	rng := cfg.randFor(xd.Name+"-traffic", 1)
	placement, err := AttachServers(xd.Servers, xd.Switches, xd.ServerPorts, rng)
	if err != nil {
		return nil, err
	}
	pairs, err := GenerateTraffic(xd.Traffic, placement, rng)
	if err != nil {
		return nil, err
	}

	ar, err := AnalyzeTraffic(ctx, g, pairs, opts...)
	if err != nil {
		return nil, err
	}

	return BuildLinkLoadReport(xd.Name, g, ar), nil
}
