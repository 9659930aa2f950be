package generator

import (
	"testing"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitegui/ptolemy/geo"
	"github.com/sitegui/ptolemy/graph"
	"github.com/sitegui/ptolemy/junction"
	"github.com/sitegui/ptolemy/nodestore"
)

// testRoad builds a store with nodes 1..n along the Equator, 0.001° apart,
// and a classifier where the given ids are junctions. Nodes listed in
// barriers carry the barrier flag.
func testRoad(t *testing.T, n int, junctionIDs []int64, barrierIDs []int64) (*nodestore.Store, *junction.Classifier) {
	t.Helper()

	barriers := make(map[int64]bool, len(barrierIDs))
	for _, id := range barrierIDs {
		barriers[id] = true
	}

	builder, err := nodestore.NewBuilder()
	require.NoError(t, err)
	for id := int64(1); id <= int64(n); id++ {
		require.NoError(t, builder.Push(nodestore.Node{
			ID:      id,
			Point:   geo.PointFromMicroDegrees(0, int32(id*1000)),
			Barrier: barriers[id],
		}))
	}
	store := nodestore.Assemble(builder)
	t.Cleanup(store.Close)

	classifier, err := junction.NewClassifier(int64(n) + 1)
	require.NoError(t, err)
	t.Cleanup(func() { classifier.Close() })
	for _, id := range junctionIDs {
		classifier.MarkJunction(id)
	}
	for id := int64(1); id <= int64(n); id++ {
		if !classifier.IsJunction(id) {
			classifier.MarkInternal(id)
		}
	}

	return store, classifier
}

func testWay(tags osm.Tags, ids ...int64) *osm.Way {
	way := &osm.Way{ID: 99, Tags: tags}
	for _, id := range ids {
		way.Nodes = append(way.Nodes, osm.WayNode{ID: osm.NodeID(id)})
	}
	return way
}

func residential() osm.Tags {
	return osm.Tags{{Key: "highway", Value: "residential"}}
}

func extract(t *testing.T, way *osm.Way, store *nodestore.Store, classifier *junction.Classifier) []arc {
	t.Helper()
	var arcs []arc
	require.NoError(t, extractWayArcs(way, store, classifier, &arcs))
	return arcs
}

func TestExtractSplitsAtJunctions(t *testing.T) {
	// Nodes 1..5, junctions at the ends and at 3: two segments, both ways.
	store, classifier := testRoad(t, 5, []int64{1, 3, 5}, nil)
	arcs := extract(t, testWay(residential(), 1, 2, 3, 4, 5), store, classifier)

	require.Len(t, arcs, 4)
	// Node offsets are ids minus one.
	assert.Equal(t, graph.NodeID(0), arcs[0].from)
	assert.Equal(t, graph.NodeID(2), arcs[0].to)
	assert.Equal(t, graph.NodeID(2), arcs[1].from)
	assert.Equal(t, graph.NodeID(0), arcs[1].to)
	assert.Equal(t, graph.NodeID(2), arcs[2].from)
	assert.Equal(t, graph.NodeID(4), arcs[2].to)

	// Each segment spans two 0.001° hops on the Equator, about 222 m, and
	// carries the way's road level.
	for _, a := range arcs {
		assert.Equal(t, uint8(5), a.info.RoadLevel)
		assert.InDelta(t, 222, float64(a.info.Distance), 2)
	}
}

func TestExtractSegmentDistanceFollowsGeometry(t *testing.T) {
	store, classifier := testRoad(t, 3, []int64{1, 3}, nil)
	arcs := extract(t, testWay(residential(), 1, 2, 3), store, classifier)

	expected := geo.PointFromMicroDegrees(0, 1000).HaversineDistance(geo.PointFromMicroDegrees(0, 2000)) +
		geo.PointFromMicroDegrees(0, 2000).HaversineDistance(geo.PointFromMicroDegrees(0, 3000))
	require.Len(t, arcs, 2)
	assert.Equal(t, graph.SaturatingDistance(expected), arcs[0].info.Distance)
}

func TestExtractOneway(t *testing.T) {
	store, classifier := testRoad(t, 3, []int64{1, 3}, nil)

	forward := extract(t, testWay(osm.Tags{
		{Key: "highway", Value: "primary"},
		{Key: "oneway", Value: "yes"},
	}, 1, 2, 3), store, classifier)
	require.Len(t, forward, 1)
	assert.Equal(t, graph.NodeID(0), forward[0].from)
	assert.Equal(t, graph.NodeID(2), forward[0].to)
	assert.Equal(t, uint8(1), forward[0].info.RoadLevel)

	reverse := extract(t, testWay(osm.Tags{
		{Key: "highway", Value: "primary"},
		{Key: "oneway", Value: "-1"},
	}, 1, 2, 3), store, classifier)
	require.Len(t, reverse, 1)
	assert.Equal(t, graph.NodeID(2), reverse[0].from)
	assert.Equal(t, graph.NodeID(0), reverse[0].to)

	roundabout := extract(t, testWay(osm.Tags{
		{Key: "highway", Value: "primary"},
		{Key: "junction", Value: "roundabout"},
	}, 1, 2, 3), store, classifier)
	require.Len(t, roundabout, 1)
}

func TestExtractBarrierBlocksSegment(t *testing.T) {
	// Node 2 is a gate: the segment 1..3 is dropped, the segment 3..5 stays.
	store, classifier := testRoad(t, 5, []int64{1, 3, 5}, []int64{2})
	arcs := extract(t, testWay(residential(), 1, 2, 3, 4, 5), store, classifier)

	require.Len(t, arcs, 2)
	assert.Equal(t, graph.NodeID(2), arcs[0].from)
	assert.Equal(t, graph.NodeID(4), arcs[0].to)
	assert.Equal(t, graph.NodeID(4), arcs[1].from)
	assert.Equal(t, graph.NodeID(2), arcs[1].to)
}

func TestExtractBarrierOnJunctionBlocksBothSides(t *testing.T) {
	// A barrier on the shared junction node kills both adjacent segments.
	store, classifier := testRoad(t, 5, []int64{1, 3, 5}, []int64{3})
	arcs := extract(t, testWay(residential(), 1, 2, 3, 4, 5), store, classifier)
	assert.Empty(t, arcs)
}

func TestExtractSkipsNonRoads(t *testing.T) {
	store, classifier := testRoad(t, 3, []int64{1, 3}, nil)

	assert.Empty(t, extract(t, testWay(osm.Tags{{Key: "highway", Value: "footway"}}, 1, 2, 3), store, classifier))
	assert.Empty(t, extract(t, testWay(osm.Tags{{Key: "waterway", Value: "river"}}, 1, 2, 3), store, classifier))
	assert.Empty(t, extract(t, testWay(residential(), 1), store, classifier))
}

func TestExtractMissingNodeIsFatal(t *testing.T) {
	store, classifier := testRoad(t, 3, []int64{1, 3}, nil)
	var arcs []arc
	err := extractWayArcs(testWay(residential(), 1, 2, 7), store, classifier, &arcs)
	assert.Error(t, err)
}
