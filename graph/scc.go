package graph

import "github.com/bits-and-blooms/bitset"

// SCC computes the strongly connected components with Kosaraju's algorithm:
// one forward pass recording post-order, one backward pass carving components
// in reverse post-order. Both passes use explicit stacks, so component count
// and chain depth are bounded only by memory.
//
// The result is deterministic for a given graph; every node appears in
// exactly one component.
func (g *Graph) SCC() [][]NodeID {
	n := len(g.nodes)

	// Pass 1: post-order over the forward edges.
	visited := bitset.New(uint(n))
	order := make([]NodeID, 0, n)
	type frame struct {
		node    NodeID
		edgePos int
	}
	var stack []frame

	for start := 0; start < n; start++ {
		if visited.Test(uint(start)) {
			continue
		}
		visited.Set(uint(start))
		stack = append(stack[:0], frame{node: NodeID(start)})

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.edgePos < len(g.out[top.node]) {
				edge := g.edges[g.out[top.node][top.edgePos]]
				top.edgePos++
				if !visited.Test(uint(edge.To)) {
					visited.Set(uint(edge.To))
					stack = append(stack, frame{node: edge.To})
				}
				continue
			}
			order = append(order, top.node)
			stack = stack[:len(stack)-1]
		}
	}

	// Pass 2: reverse edges, roots in reverse post-order.
	assigned := bitset.New(uint(n))
	var components [][]NodeID
	var work []NodeID

	for i := n - 1; i >= 0; i-- {
		root := order[i]
		if assigned.Test(uint(root)) {
			continue
		}
		assigned.Set(uint(root))
		work = append(work[:0], root)
		var component []NodeID

		for len(work) > 0 {
			node := work[len(work)-1]
			work = work[:len(work)-1]
			component = append(component, node)

			for _, edgeID := range g.in[node] {
				from := g.edges[edgeID].From
				if !assigned.Test(uint(from)) {
					assigned.Set(uint(from))
					work = append(work, from)
				}
			}
		}
		components = append(components, component)
	}

	return components
}
