package graph

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/tidwall/rtree"
)

// bridgeRoadLevel is the road level of arcs synthesized by StronglyConnect.
const bridgeRoadLevel = 5

// RetainReachable discards every node that cannot be reached by following
// edges forward from the arterial skeleton: the endpoints of all edges whose
// road level is at most maxRootLevel. Incident edges of discarded nodes go
// with them, and the surviving nodes and edges are renumbered densely.
//
// This removes the dangling service roads and private-driveway clusters that
// are mapped but never attached to the road network proper. Running it twice
// is the same as running it once.
func (g *Graph) RetainReachable(maxRootLevel uint8) {
	visited := bitset.New(uint(len(g.nodes)))
	var work []NodeID

	push := func(node NodeID) {
		if !visited.Test(uint(node)) {
			visited.Set(uint(node))
			work = append(work, node)
		}
	}

	for _, edge := range g.edges {
		if edge.RoadLevel <= maxRootLevel {
			push(edge.From)
			push(edge.To)
		}
	}

	for len(work) > 0 {
		node := work[len(work)-1]
		work = work[:len(work)-1]
		for _, edgeID := range g.out[node] {
			push(g.edges[edgeID].To)
		}
	}

	g.retainNodes(visited)
}

// retainNodes keeps exactly the marked nodes, dropping every edge that
// touches a dropped node, and compacts the arena.
func (g *Graph) retainNodes(keep *bitset.BitSet) {
	remap := make([]NodeID, len(g.nodes))
	newNodes := make([]NodeInfo, 0, keep.Count())
	for i, info := range g.nodes {
		if keep.Test(uint(i)) {
			remap[i] = NodeID(len(newNodes))
			newNodes = append(newNodes, info)
		} else {
			remap[i] = -1
		}
	}

	newEdges := make([]Edge, 0, len(g.edges))
	for _, edge := range g.edges {
		from := remap[edge.From]
		to := remap[edge.To]
		if from >= 0 && to >= 0 {
			newEdges = append(newEdges, Edge{From: from, To: to, EdgeInfo: edge.EdgeInfo})
		}
	}

	g.nodes = newNodes
	g.edges = newEdges
	g.rebuildAdjacency()
}

func (g *Graph) rebuildAdjacency() {
	g.out = make([][]EdgeID, len(g.nodes))
	g.in = make([][]EdgeID, len(g.nodes))
	for i, edge := range g.edges {
		g.out[edge.From] = append(g.out[edge.From], EdgeID(i))
		g.in[edge.To] = append(g.in[edge.To], EdgeID(i))
	}
}

// FixDeadEnds doubles every edge whose endpoints lie in different strongly
// connected components, adding the reverse edge with the same payload. A
// weakly connected one-way spur — a chain of residential one-ways hanging off
// the network — becomes round-trip accessible without inventing geometry.
// Components may remain after this, but no edge connects them.
func (g *Graph) FixDeadEnds() {
	componentOf := g.componentIDs()

	type reversal struct {
		from, to NodeID
		info     EdgeInfo
	}
	var reversals []reversal
	for _, edge := range g.edges {
		if componentOf[edge.From] != componentOf[edge.To] {
			reversals = append(reversals, reversal{from: edge.To, to: edge.From, info: edge.EdgeInfo})
		}
	}

	for _, r := range reversals {
		g.PushArc(r.from, r.to, r.info)
	}
}

// StronglyConnect joins every minor strongly connected component to the
// largest one. The largest component's nodes are spatially indexed in the
// projected plane; for each other component the closest (node, base node)
// pair by haversine distance gets a pair of synthesized bridge arcs, one in
// each direction, at bridgeRoadLevel (5, the least important level).
// Afterwards the graph is a single
// strongly connected component.
func (g *Graph) StronglyConnect() {
	components := g.SCC()
	if len(components) <= 1 {
		return
	}

	largest := 0
	for i, component := range components {
		if len(component) > len(components[largest]) {
			largest = i
		}
	}

	// Index the base component in Web-Mercator coordinates: nearest neighbor
	// on the projected plane is a good proxy for nearest on the sphere at
	// bridge-able distances.
	var base rtree.RTreeG[NodeID]
	for _, node := range components[largest] {
		x, y := g.nodes[node].Point.WebMercator()
		base.Insert([2]float64{x, y}, [2]float64{x, y}, node)
	}

	for i, component := range components {
		if i == largest {
			continue
		}

		bestDistance := -1.0
		var bestNode, bestBase NodeID
		for _, node := range component {
			point := g.nodes[node].Point
			x, y := point.WebMercator()
			base.Nearby(
				rtree.BoxDist[float64, NodeID]([2]float64{x, y}, [2]float64{x, y}, nil),
				func(_, _ [2]float64, baseNode NodeID, _ float64) bool {
					distance := point.HaversineDistance(g.nodes[baseNode].Point)
					if bestDistance < 0 || distance < bestDistance {
						bestDistance = distance
						bestNode = node
						bestBase = baseNode
					}
					return false
				},
			)
		}

		info := EdgeInfo{RoadLevel: bridgeRoadLevel, Distance: SaturatingDistance(bestDistance)}
		g.PushArc(bestNode, bestBase, info)
		g.PushArc(bestBase, bestNode, info)
	}
}

// componentIDs maps every node to the index of its strongly connected
// component.
func (g *Graph) componentIDs() []int {
	ids := make([]int, len(g.nodes))
	for componentID, component := range g.SCC() {
		for _, node := range component {
			ids[node] = componentID
		}
	}
	return ids
}
