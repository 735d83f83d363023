package jellyfish

// metrics.go exposes counters for topology builds and link-load analysis.
// A nil *Metrics is valid and counts nothing, so components call it unconditionally.

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of one registry
type Metrics struct {
	BuildAttempts        prometheus.Counter
	BuildStalls          prometheus.Counter
	Rewires              prometheus.Counter
	PairsAnalyzed        prometheus.Counter
	PairsSkipped         prometheus.Counter
	PathsEnumerated      prometheus.Counter
	TruncatedEnumeration prometheus.Counter
}

// NewMetrics creates the collectors and registers them on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BuildAttempts: factory.NewCounter(prometheus.CounterOpts{
			Name: "jellyfish_build_attempts_total",
			Help: "Topology build attempts started",
		}),
		BuildStalls: factory.NewCounter(prometheus.CounterOpts{
			Name: "jellyfish_build_stalls_total",
			Help: "Topology build attempts abandoned after a stall",
		}),
		Rewires: factory.NewCounter(prometheus.CounterOpts{
			Name: "jellyfish_rewires_total",
			Help: "Link rewires performed to escape a saturated open set",
		}),
		PairsAnalyzed: factory.NewCounter(prometheus.CounterOpts{
			Name: "jellyfish_pairs_analyzed_total",
			Help: "Traffic pairs whose paths were folded into the link counters",
		}),
		PairsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "jellyfish_pairs_skipped_total",
			Help: "Traffic pairs skipped because source and destination share a switch",
		}),
		PathsEnumerated: factory.NewCounter(prometheus.CounterOpts{
			Name: "jellyfish_paths_enumerated_total",
			Help: "Simple paths produced by the path enumerator",
		}),
		TruncatedEnumeration: factory.NewCounter(prometheus.CounterOpts{
			Name: "jellyfish_enumerations_truncated_total",
			Help: "Path enumerations stopped by their step budget",
		}),
	}
}

func (m *Metrics) buildAttempt() {
	if m != nil {
		m.BuildAttempts.Inc()
	}
}

func (m *Metrics) buildStall() {
	if m != nil {
		m.BuildStalls.Inc()
	}
}

func (m *Metrics) rewire() {
	if m != nil {
		m.Rewires.Inc()
	}
}

// pairDone counts one analysed pair and the paths found for it
func (m *Metrics) pairDone(paths int, truncated bool) {
	if m == nil {
		return
	}
	m.PairsAnalyzed.Inc()
	m.PathsEnumerated.Add(float64(paths))
	if truncated {
		m.TruncatedEnumeration.Inc()
	}
}

func (m *Metrics) pairSkipped() {
	if m != nil {
		m.PairsSkipped.Inc()
	}
}
