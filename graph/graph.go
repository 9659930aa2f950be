package graph

import (
	"math"

	"github.com/sitegui/ptolemy/geo"
)

// NodeID is the dense index of a node in the arena.
type NodeID int32

// EdgeID is the dense index of an edge in the arena.
type EdgeID int32

// NodeInfo is the payload of a node.
type NodeInfo struct {
	Point geo.Point
}

// EdgeInfo is the payload of an edge. Distance is in meters; RoadLevel is 0
// for the trunk network through 5 for local streets and synthesized bridges.
type EdgeInfo struct {
	RoadLevel uint8
	Distance  uint32
}

// Edge is a directed arc between two nodes.
type Edge struct {
	From NodeID
	To   NodeID
	EdgeInfo
}

// Graph is the arena-based directed road graph. It is not safe for
// concurrent mutation; once surgery is done it is read-only and can be shared
// freely.
type Graph struct {
	nodes []NodeInfo
	edges []Edge
	out   [][]EdgeID
	in    [][]EdgeID
}

// New creates an empty graph with room pre-allocated for numNodes nodes.
func New(numNodes int) *Graph {
	return &Graph{
		nodes: make([]NodeInfo, 0, numNodes),
		out:   make([][]EdgeID, 0, numNodes),
		in:    make([][]EdgeID, 0, numNodes),
	}
}

// AddNode appends a node and returns its id. Ids are assigned densely in
// insertion order.
func (g *Graph) AddNode(info NodeInfo) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, info)
	g.out = append(g.out, nil)
	g.in = append(g.in, nil)
	return id
}

// PushArc inserts the arc from → to. If that ordered pair already has an
// edge, the existing edge keeps the highest road level and the shortest
// distance instead; this collapses mistagged roundabouts and parallel ways.
func (g *Graph) PushArc(from, to NodeID, info EdgeInfo) {
	for _, edgeID := range g.out[from] {
		edge := &g.edges[edgeID]
		if edge.To == to {
			edge.RoadLevel = max(edge.RoadLevel, info.RoadLevel)
			edge.Distance = min(edge.Distance, info.Distance)
			return
		}
	}

	edgeID := EdgeID(len(g.edges))
	g.edges = append(g.edges, Edge{From: from, To: to, EdgeInfo: info})
	g.out[from] = append(g.out[from], edgeID)
	g.in[to] = append(g.in[to], edgeID)
}

// NumNodes returns the number of nodes.
func (g *Graph) NumNodes() int {
	return len(g.nodes)
}

// NumEdges returns the number of edges.
func (g *Graph) NumEdges() int {
	return len(g.edges)
}

// Node returns the payload of id.
func (g *Graph) Node(id NodeID) NodeInfo {
	return g.nodes[id]
}

// Edge returns the edge with the given id.
func (g *Graph) Edge(id EdgeID) Edge {
	return g.edges[id]
}

// OutEdges returns the ids of the edges leaving node. The slice is owned by
// the graph and must not be mutated.
func (g *Graph) OutEdges(node NodeID) []EdgeID {
	return g.out[node]
}

// InEdges returns the ids of the edges arriving at node. The slice is owned
// by the graph and must not be mutated.
func (g *Graph) InEdges(node NodeID) []EdgeID {
	return g.in[node]
}

// SaturatingDistance converts a floating-point meter count to the u32 meter
// scale of EdgeInfo, rounding to the nearest meter and capping at the
// maximum instead of overflowing.
func SaturatingDistance(meters float64) uint32 {
	rounded := math.Round(meters)
	if rounded >= math.MaxUint32 {
		return math.MaxUint32
	}
	if rounded <= 0 {
		return 0
	}
	return uint32(rounded)
}
