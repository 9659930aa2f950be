package graph_test

import (
	"testing"

	"github.com/sitegui/ptolemy/geo"
	"github.com/sitegui/ptolemy/graph"
)

// benchGraph builds two parallel one-way chains of n nodes running in
// opposite directions and joined at both ends, giving 2n nodes and 2n edges
// in one big cycle.
func benchGraph(n int) *graph.Graph {
	g := graph.New(2 * n)
	for i := 0; i < 2*n; i++ {
		g.AddNode(graph.NodeInfo{Point: geo.PointFromMicroDegrees(int32(i%2), int32(i/2))})
	}
	info := graph.EdgeInfo{RoadLevel: 3, Distance: 100}
	for i := 0; i < n-1; i++ {
		g.PushArc(graph.NodeID(2*i), graph.NodeID(2*i+2), info)
		g.PushArc(graph.NodeID(2*i+3), graph.NodeID(2*i+1), info)
	}
	g.PushArc(graph.NodeID(2*n-2), graph.NodeID(2*n-1), info)
	g.PushArc(graph.NodeID(1), graph.NodeID(0), info)
	return g
}

func BenchmarkSCC(b *testing.B) {
	g := benchGraph(10_000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.SCC()
	}
}

func BenchmarkPushArc(b *testing.B) {
	for i := 0; i < b.N; i++ {
		benchGraph(1000)
	}
}
