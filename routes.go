package jellyfish

// routes.go provides shortest-path routes and summary statistics over a finished switch graph.
//
// The switch graph is converted into the data structures of a graph package that has
// built-in path discovery algorithms. With every link weighted 1, a shortest path minimizes
// the number of hops. The Dijkstra algorithm called computes a tree of shortest paths from
// a named switch, so a route from src to dst is read out of a tree rooted in src, or, by
// symmetry, reversed out of a tree already computed for dst.

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"math"
)

// Undirected returns a gonum view of the graph, one node per switch id
func (g *Graph) Undirected() *simple.UndirectedGraph {
	ug := simple.NewUndirectedGraph()
	for s := 0; s < g.NumSwitches(); s++ {
		ug.AddNode(simple.Node(s))
	}
	for _, lnk := range g.Edges() {
		ug.SetEdge(simple.Edge{F: simple.Node(lnk.A), T: simple.Node(lnk.B)})
	}
	return ug
}

// RouteTable answers hop-count shortest path queries, caching one shortest-path tree per source
type RouteTable struct {
	connGraph *simple.UndirectedGraph
	cachedSP  map[int]path.Shortest
}

// NewRouteTable is a constructor
func NewRouteTable(g *Graph) *RouteTable {
	rt := new(RouteTable)
	rt.connGraph = g.Undirected()
	rt.cachedSP = make(map[int]path.Shortest)
	return rt
}

// getSPTree returns the shortest path tree rooted in 'from', computing and caching it if needed
func (rt *RouteTable) getSPTree(from int) path.Shortest {
	spTree, present := rt.cachedSP[from]
	if present {
		return spTree
	}
	spTree = path.DijkstraFrom(simple.Node(from), rt.connGraph)
	rt.cachedSP[from] = spTree
	return spTree
}

// convertNodeSeq extracts the switch ids from a sequence of graph nodes
func convertNodeSeq(nsQ []graph.Node) []int {
	rtn := make([]int, 0, len(nsQ))
	for _, node := range nsQ {
		rtn = append(rtn, int(node.ID()))
	}
	return rtn
}

// Route returns one shortest path from src to dst as a sequence of switch ids,
// or nil when dst cannot be reached
func (rt *RouteTable) Route(src, dst int) []int {
	// a tree rooted in the destination already gives the route, reversed
	spTree, present := rt.cachedSP[dst]
	if present {
		if _, cached := rt.cachedSP[src]; !cached {
			revNodeSeq, _ := spTree.To(int64(src))
			revRoute := convertNodeSeq(revNodeSeq)
			if len(revRoute) == 0 {
				return nil
			}
			lenR := len(revRoute)
			route := make([]int, lenR)
			for idx := 0; idx < lenR; idx++ {
				route[idx] = revRoute[lenR-idx-1]
			}
			return route
		}
	}

	nodeSeq, _ := rt.getSPTree(src).To(int64(dst))
	route := convertNodeSeq(nodeSeq)
	if len(route) == 0 {
		return nil
	}
	return route
}

// Hops returns the length of a shortest path from src to dst, -1 when unreachable
func (rt *RouteTable) Hops(src, dst int) int {
	if src == dst {
		return 0
	}
	weight := rt.getSPTree(src).WeightTo(int64(dst))
	if math.IsInf(weight, 1) {
		return -1
	}
	return int(weight)
}

// TopoStats summarizes a switch graph
type TopoStats struct {
	Switches   int     `json:"switches" yaml:"switches"`
	Links      int     `json:"links" yaml:"links"`
	MinDegree  int     `json:"mindegree" yaml:"mindegree"`
	MaxDegree  int     `json:"maxdegree" yaml:"maxdegree"`
	Components int     `json:"components" yaml:"components"`
	Diameter   int     `json:"diameter" yaml:"diameter"`   // longest shortest path within a component
	MeanHops   float64 `json:"meanhops" yaml:"meanhops"` // over ordered pairs of mutually reachable switches
}

// TopologyStats computes TopoStats. Every switch is used as a shortest-path root once.
func TopologyStats(g *Graph) TopoStats {
	ts := TopoStats{Switches: g.NumSwitches(), Links: g.NumEdges(), MinDegree: math.MaxInt}
	for s := 0; s < g.NumSwitches(); s++ {
		ts.MinDegree = min(ts.MinDegree, g.Degree(s))
		ts.MaxDegree = max(ts.MaxDegree, g.Degree(s))
	}

	rt := NewRouteTable(g)
	ts.Components = len(topo.ConnectedComponents(rt.connGraph))

	totalHops, reachable := 0, 0
	for src := 0; src < g.NumSwitches(); src++ {
		for dst := 0; dst < g.NumSwitches(); dst++ {
			if src == dst {
				continue
			}
			hops := rt.Hops(src, dst)
			if hops < 0 {
				continue
			}
			ts.Diameter = max(ts.Diameter, hops)
			totalHops += hops
			reachable += 1
		}
	}
	if reachable > 0 {
		ts.MeanHops = float64(totalHops) / float64(reachable)
	}
	return ts
}
