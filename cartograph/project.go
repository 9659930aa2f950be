package cartograph

import (
	"math"

	"github.com/tidwall/rtree"

	"github.com/sitegui/ptolemy/geo"
)

// Project snaps a point onto the nearest edge of the graph. The nearest
// segment is found in the projected plane; the foot of the perpendicular is
// then mapped back to geographic coordinates and located along the edge as a
// ratio of haversine distances.
//
// Projecting is the first step of every routing query: the routing entry
// points take ProjectedPoints, not raw coordinates.
func (c *Cartograph) Project(point geo.Point) (ProjectedPoint, error) {
	x, y := point.WebMercator()

	found := false
	var nearest edgeSegment
	c.tree.Nearby(
		rtree.BoxDist[float64, edgeSegment](
			[2]float64{x, y},
			[2]float64{x, y},
			func(_, _ [2]float64, segment edgeSegment) float64 {
				return math.Sqrt(segment.distanceSquared(x, y))
			},
		),
		func(_, _ [2]float64, segment edgeSegment, _ float64) bool {
			nearest = segment
			found = true
			return false
		},
	)
	if !found {
		return ProjectedPoint{}, ErrNoProjection
	}

	footX, footY := nearest.closestPoint(x, y)
	projected := geo.PointFromWebMercator(footX, footY)

	edge := c.graph.Edge(nearest.id)
	source := c.graph.Node(edge.From).Point
	target := c.graph.Node(edge.To).Point
	distToSource := projected.HaversineDistance(source)
	distToTarget := projected.HaversineDistance(target)

	edgePos := 0.0
	if total := distToSource + distToTarget; total > 0 {
		edgePos = distToSource / total
	}

	return ProjectedPoint{
		Original:  point,
		Projected: projected,
		Edge:      nearest.id,
		EdgePos:   edgePos,
	}, nil
}
