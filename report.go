package jellyfish

// report.go turns the link counters of an analysis into the rank-vs-load series
// a plotting tool consumes: for each policy, the count of every link, sorted ascending.

import (
	"golang.org/x/exp/slices"
)

// LinkLoadReport is the serializable outcome of an experiment
type LinkLoadReport struct {
	ExpName string `json:"expname" yaml:"expname"`

	Topology TopoStats `json:"topology" yaml:"topology"`

	Pairs       int `json:"pairs" yaml:"pairs"`
	Analyzed    int `json:"analyzed" yaml:"analyzed"`
	Skipped     int `json:"skipped" yaml:"skipped"`
	Unreachable int `json:"unreachable" yaml:"unreachable"`
	Truncated   int `json:"truncated" yaml:"truncated"`

	// Series maps a policy name to the ascending per-link counts. Every link of the
	// topology appears once in every series, with zero if no path used it.
	Series map[string][]int `json:"series" yaml:"series"`

	// Loads maps a policy name to the count of every link by its "a-b" name
	Loads map[string]map[string]int `json:"loads" yaml:"loads"`
}

// BuildLinkLoadReport assembles a report from a graph and the result of analysing traffic on it
func BuildLinkLoadReport(expName string, g *Graph, ar *AnalysisResult) *LinkLoadReport {
	llr := new(LinkLoadReport)
	llr.ExpName = expName
	llr.Topology = TopologyStats(g)
	llr.Pairs = ar.Pairs
	llr.Analyzed = ar.Analyzed
	llr.Skipped = ar.Skipped
	llr.Unreachable = ar.Unreachable
	llr.Truncated = ar.Truncated
	llr.Series = make(map[string][]int)
	llr.Loads = make(map[string]map[string]int)

	links := g.Edges()
	for _, policy := range Policies {
		counter := ar.Loads.ByPolicy(policy)
		series := make([]int, 0, len(links))
		named := make(map[string]int, len(links))
		for _, lnk := range links {
			cnt := counter[lnk]
			series = append(series, cnt)
			named[lnk.String()] = cnt
		}
		slices.Sort(series)
		llr.Series[policy] = series
		llr.Loads[policy] = named
	}
	return llr
}

// WriteToFile stores the report to the file whose name is given.
// Serialization to json or to yaml is selected based on the extension of this name.
func (llr *LinkLoadReport) WriteToFile(filename string) error {
	return writeDescFile(filename, llr)
}
