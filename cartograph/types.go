package cartograph

import (
	"errors"

	"github.com/twpayne/go-polyline"

	"github.com/sitegui/ptolemy/geo"
	"github.com/sitegui/ptolemy/graph"
)

// Sentinel errors of the query surface.
var (
	// ErrBadMagic indicates the file is not a road-graph artifact.
	ErrBadMagic = errors.New("cartograph: bad magic, not a ptolemy artifact")

	// ErrColumnMismatch indicates a column did not decompress to exactly the
	// announced number of values.
	ErrColumnMismatch = errors.New("cartograph: column length mismatch")

	// ErrNoProjection indicates Project found nothing to snap to, which only
	// happens on an empty graph.
	ErrNoProjection = errors.New("cartograph: nothing to project onto")

	// ErrNoPath indicates the search exhausted the frontier before reaching
	// every requested target.
	ErrNoPath = errors.New("cartograph: no path between the projected points")
)

// ProjectedPoint is a geographic point snapped onto a graph edge. It is the
// currency of the routing queries: Project creates them, ShortestPath and
// ShortestPathMulti consume them.
type ProjectedPoint struct {
	// Original is the query point as given.
	Original geo.Point
	// Projected is the closest point on the winning edge.
	Projected geo.Point
	// Edge is the winning edge.
	Edge graph.EdgeID
	// EdgePos is how far along the edge the projection falls, from 0 at the
	// source to 1 at the target, as a ratio of haversine distances.
	EdgePos float64
}

// Path is the result of a point-to-point shortest-path query.
type Path struct {
	// Distance is the total length in meters, including the partial stretches
	// of the projected endpoints' edges.
	Distance uint32
	// Points is the full geometry: the projected start, every graph node
	// along the way, and the projected end.
	Points []geo.Point
}

// EncodedPolyline renders the geometry as a Google encoded polyline with
// precision 5.
func (p Path) EncodedPolyline() string {
	coords := make([][]float64, len(p.Points))
	for i, point := range p.Points {
		coords[i] = []float64{point.Lat.Degrees(), point.Lon.Degrees()}
	}
	return string(polyline.EncodeCoords(coords))
}

// edgeSegment is the R-tree payload: one edge as a straight segment in the
// projected plane.
type edgeSegment struct {
	id             graph.EdgeID
	ax, ay, bx, by float64
}

func (s edgeSegment) bounds() (min, max [2]float64) {
	min = [2]float64{s.ax, s.ay}
	max = [2]float64{s.bx, s.by}
	if min[0] > max[0] {
		min[0], max[0] = max[0], min[0]
	}
	if min[1] > max[1] {
		min[1], max[1] = max[1], min[1]
	}
	return min, max
}

// closestPoint returns the point of the segment closest to (x, y): the foot
// of the perpendicular, clamped to the segment.
func (s edgeSegment) closestPoint(x, y float64) (float64, float64) {
	dx := s.bx - s.ax
	dy := s.by - s.ay
	lengthSquared := dx*dx + dy*dy
	if lengthSquared == 0 {
		return s.ax, s.ay
	}

	t := ((x-s.ax)*dx + (y-s.ay)*dy) / lengthSquared
	switch {
	case t < 0:
		t = 0
	case t > 1:
		t = 1
	}
	return s.ax + t*dx, s.ay + t*dy
}

// distanceSquared is the squared planar distance from (x, y) to the segment.
func (s edgeSegment) distanceSquared(x, y float64) float64 {
	cx, cy := s.closestPoint(x, y)
	dx := x - cx
	dy := y - cy
	return dx*dx + dy*dy
}
