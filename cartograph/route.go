package cartograph

import (
	"container/heap"
	"math"

	"github.com/bits-and-blooms/bitset"

	"github.com/sitegui/ptolemy/geo"
	"github.com/sitegui/ptolemy/graph"
)

// ShortestPath finds the shortest route between two projected points with an
// A* search, using the haversine distance to the goal as the admissible
// heuristic. The returned path carries the full geometry and the distance in
// meters, including the partial stretches of the two projected edges.
func (c *Cartograph) ShortestPath(from, to ProjectedPoint) (Path, error) {
	start := c.graph.Edge(from.Edge).To
	end := c.graph.Edge(to.Edge).From
	endPoint := c.graph.Node(end).Point

	numNodes := c.graph.NumNodes()
	scores := newScoreTable(numNodes)
	parents := make([]graph.NodeID, numNodes)
	visited := bitset.New(uint(numNodes))

	pq := nodePQ{{node: start, estimate: heuristic(c.graph.Node(start).Point, endPoint)}}
	scores.set(start, 0)
	parents[start] = -1

	for pq.Len() > 0 {
		item := heap.Pop(&pq).(queueItem)
		node := item.node

		if node == end {
			distance, _ := scores.get(end)
			return c.assemblePath(from, to, parents, end, distance), nil
		}
		// A popped node that was already expanded is a stale heap entry left
		// behind by the lazy decrease-key strategy.
		if visited.Test(uint(node)) {
			continue
		}
		visited.Set(uint(node))

		nodeScore, _ := scores.get(node)
		for _, edgeID := range c.graph.OutEdges(node) {
			edge := c.graph.Edge(edgeID)
			next := edge.To
			if visited.Test(uint(next)) {
				continue
			}

			nextScore := saturatingAdd(nodeScore, edge.Distance)
			if old, ok := scores.get(next); ok && nextScore >= old {
				continue
			}
			scores.set(next, nextScore)
			parents[next] = node

			estimate := saturatingAdd(nextScore, heuristic(c.graph.Node(next).Point, endPoint))
			heap.Push(&pq, queueItem{node: next, estimate: estimate})
		}
	}

	return Path{}, ErrNoPath
}

// ShortestPathMulti finds the shortest distance from one source to every
// target, sharing a single search frontier instead of running one A* per
// target. Only distances are computed; the heuristic at any node is the
// smallest haversine distance to a still-unsettled target, which stays
// admissible throughout. Results are indexed like the targets.
func (c *Cartograph) ShortestPathMulti(from ProjectedPoint, tos []ProjectedPoint) ([]uint32, error) {
	if len(tos) == 0 {
		return nil, nil
	}

	start := c.graph.Edge(from.Edge).To
	extraStart := partialEdgeCost(c.graph.Edge(from.Edge).Distance, 1-from.EdgePos)

	// One entry per unsettled target.
	type target struct {
		index    int
		extraEnd uint32
		end      graph.NodeID
		endPoint geo.Point
	}
	remaining := make([]target, len(tos))
	for i, to := range tos {
		end := c.graph.Edge(to.Edge).From
		remaining[i] = target{
			index:    i,
			extraEnd: partialEdgeCost(c.graph.Edge(to.Edge).Distance, to.EdgePos),
			end:      end,
			endPoint: c.graph.Node(end).Point,
		}
	}

	estimate := func(point geo.Point) uint32 {
		best := uint32(math.MaxUint32)
		for _, t := range remaining {
			if h := heuristic(point, t.endPoint); h < best {
				best = h
			}
		}
		return best
	}

	numNodes := c.graph.NumNodes()
	scores := newScoreTable(numNodes)
	visited := bitset.New(uint(numNodes))
	results := make([]uint32, len(tos))

	scores.set(start, 0)
	pq := nodePQ{{node: start, estimate: estimate(c.graph.Node(start).Point)}}

	for pq.Len() > 0 {
		item := heap.Pop(&pq).(queueItem)
		node := item.node

		// Settle every target that lives on this node.
		for i := 0; i < len(remaining); {
			if remaining[i].end != node {
				i++
				continue
			}
			score, _ := scores.get(node)
			results[remaining[i].index] = saturatingAdd(saturatingAdd(extraStart, score), remaining[i].extraEnd)
			remaining = append(remaining[:i], remaining[i+1:]...)
			if len(remaining) == 0 {
				return results, nil
			}
		}

		if visited.Test(uint(node)) {
			continue
		}
		visited.Set(uint(node))

		nodeScore, _ := scores.get(node)
		for _, edgeID := range c.graph.OutEdges(node) {
			edge := c.graph.Edge(edgeID)
			next := edge.To
			if visited.Test(uint(next)) {
				continue
			}

			nextScore := saturatingAdd(nodeScore, edge.Distance)
			if old, ok := scores.get(next); ok && nextScore >= old {
				nextScore = old
			} else {
				scores.set(next, nextScore)
			}

			heap.Push(&pq, queueItem{
				node:     next,
				estimate: saturatingAdd(nextScore, estimate(c.graph.Node(next).Point)),
			})
		}
	}

	return nil, ErrNoPath
}

// assemblePath walks the parent chain back from end and attaches the
// projected endpoints and their partial edge costs.
func (c *Cartograph) assemblePath(from, to ProjectedPoint, parents []graph.NodeID, end graph.NodeID, astarDistance uint32) Path {
	var nodes []graph.NodeID
	for node := end; node >= 0; node = parents[node] {
		nodes = append(nodes, node)
	}

	points := make([]geo.Point, 0, len(nodes)+2)
	points = append(points, from.Projected)
	for i := len(nodes) - 1; i >= 0; i-- {
		points = append(points, c.graph.Node(nodes[i]).Point)
	}
	points = append(points, to.Projected)

	distance := saturatingAdd(astarDistance, partialEdgeCost(c.graph.Edge(from.Edge).Distance, 1-from.EdgePos))
	distance = saturatingAdd(distance, partialEdgeCost(c.graph.Edge(to.Edge).Distance, to.EdgePos))

	return Path{Distance: distance, Points: points}
}

// partialEdgeCost is the length of the stretch of a projected point's edge
// that a route actually travels, rounded to whole meters.
func partialEdgeCost(edgeDistance uint32, fraction float64) uint32 {
	return uint32(math.Round(float64(edgeDistance) * fraction))
}

// heuristic is the admissible A* estimate: the great-circle distance to the
// goal can never exceed the road distance. Truncation keeps it a lower bound
// after the cast.
func heuristic(from, to geo.Point) uint32 {
	return uint32(from.HaversineDistance(to))
}

func saturatingAdd(a, b uint32) uint32 {
	sum := uint64(a) + uint64(b)
	if sum > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(sum)
}

// scoreTable is a dense map from node to best known distance.
type scoreTable struct {
	scores []uint32
	known  *bitset.BitSet
}

func newScoreTable(numNodes int) *scoreTable {
	return &scoreTable{
		scores: make([]uint32, numNodes),
		known:  bitset.New(uint(numNodes)),
	}
}

func (t *scoreTable) get(node graph.NodeID) (uint32, bool) {
	if !t.known.Test(uint(node)) {
		return 0, false
	}
	return t.scores[node], true
}

func (t *scoreTable) set(node graph.NodeID, score uint32) {
	t.scores[node] = score
	t.known.Set(uint(node))
}

// queueItem pairs a node with its estimated total cost through it.
type queueItem struct {
	node     graph.NodeID
	estimate uint32
}

// nodePQ is a min-heap of queueItems with the lazy decrease-key strategy:
// better scores push duplicates, stale entries are dropped when popped.
type nodePQ []queueItem

func (pq nodePQ) Len() int            { return len(pq) }
func (pq nodePQ) Less(i, j int) bool  { return pq[i].estimate < pq[j].estimate }
func (pq nodePQ) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *nodePQ) Push(x interface{}) { *pq = append(*pq, x.(queueItem)) }
func (pq *nodePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}
