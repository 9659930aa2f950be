package cartograph

import (
	"bufio"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/dgryski/go-farm"
	"github.com/tidwall/rtree"

	"github.com/sitegui/ptolemy/geo"
	"github.com/sitegui/ptolemy/graph"
	"github.com/sitegui/ptolemy/sampler"
)

// magic opens every artifact file, mirroring the generator's serializer.
const magic = "PTOLEMY-v2"

// Cartograph is a fully loaded road graph with its spatial index. It is
// immutable and safe for concurrent queries.
type Cartograph struct {
	graph *graph.Graph
	tree  rtree.RTreeG[edgeSegment]
}

// Open reads an artifact file and materializes the graph and the spatial
// index. It is the only I/O the cartograph ever performs.
func Open(path string) (*Cartograph, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cartograph: open %s: %w", path, err)
	}
	defer file.Close()
	reader := bufio.NewReaderSize(file, 1<<20)

	// Header: magic and counts.
	header := make([]byte, len(magic))
	if _, err := io.ReadFull(reader, header); err != nil {
		return nil, fmt.Errorf("cartograph: read magic: %w", err)
	}
	if string(header) != magic {
		return nil, ErrBadMagic
	}
	var counts [2]uint32
	if err := binary.Read(reader, binary.LittleEndian, &counts); err != nil {
		return nil, fmt.Errorf("cartograph: read counts: %w", err)
	}
	numNodes := int(counts[0])
	numEdges := int(counts[1])

	// The six columns, in the serializer's fixed order.
	latitudes, err := readColumn(reader, numNodes)
	if err != nil {
		return nil, err
	}
	longitudes, err := readColumn(reader, numNodes)
	if err != nil {
		return nil, err
	}
	sources, err := readColumn(reader, numEdges)
	if err != nil {
		return nil, err
	}
	targets, err := readColumn(reader, numEdges)
	if err != nil {
		return nil, err
	}
	distances, err := readColumn(reader, numEdges)
	if err != nil {
		return nil, err
	}
	roadLevels, err := readColumn(reader, numEdges)
	if err != nil {
		return nil, err
	}

	// Rebuild the graph.
	g := graph.New(numNodes)
	for i := 0; i < numNodes; i++ {
		g.AddNode(graph.NodeInfo{Point: geo.PointFromMicroDegrees(latitudes[i], longitudes[i])})
	}
	for i := 0; i < numEdges; i++ {
		g.PushArc(
			graph.NodeID(sources[i]),
			graph.NodeID(targets[i]),
			graph.EdgeInfo{RoadLevel: uint8(roadLevels[i]), Distance: uint32(distances[i])},
		)
	}

	// Rebuild the spatial index from scratch: every edge becomes a segment
	// in the projected plane.
	c := &Cartograph{graph: g}
	for i := 0; i < g.NumEdges(); i++ {
		id := graph.EdgeID(i)
		edge := g.Edge(id)
		ax, ay := g.Node(edge.From).Point.WebMercator()
		bx, by := g.Node(edge.To).Point.WebMercator()
		segment := edgeSegment{id: id, ax: ax, ay: ay, bx: bx, by: by}
		min, max := segment.bounds()
		c.tree.Insert(min, max, segment)
	}

	return c, nil
}

// readColumn reads one length-prefixed gzipped delta column, reconstructing
// exactly count absolute values via a running sum.
func readColumn(r io.Reader, count int) ([]int32, error) {
	var length uint64
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return nil, fmt.Errorf("cartograph: read column length: %w", err)
	}
	limited := io.LimitReader(r, int64(length))

	decoder, err := gzip.NewReader(limited)
	if err != nil {
		return nil, fmt.Errorf("cartograph: open column: %w", err)
	}

	values := make([]int32, count)
	var buf [4]byte
	var prev int32
	for i := 0; i < count; i++ {
		if _, err := io.ReadFull(decoder, buf[:]); err != nil {
			return nil, fmt.Errorf("%w: %d values, got %d", ErrColumnMismatch, count, i)
		}
		delta := int32(binary.LittleEndian.Uint32(buf[:]))
		if i == 0 {
			prev = delta
		} else {
			prev += delta
		}
		values[i] = prev
	}

	// The stream must end exactly here.
	if _, err := decoder.Read(buf[:1]); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after %d values", ErrColumnMismatch, count)
	}
	if err := decoder.Close(); err != nil {
		return nil, fmt.Errorf("cartograph: close column: %w", err)
	}
	// Position the underlying reader at the next column, past any gzip
	// padding the decoder did not consume.
	if _, err := io.Copy(io.Discard, limited); err != nil {
		return nil, fmt.Errorf("cartograph: skip column padding: %w", err)
	}

	return values, nil
}

// NumNodes returns the number of graph nodes.
func (c *Cartograph) NumNodes() int {
	return c.graph.NumNodes()
}

// NumEdges returns the number of graph edges.
func (c *Cartograph) NumEdges() int {
	return c.graph.NumEdges()
}

// SpatialLen returns the number of segments in the spatial index, which
// always equals NumEdges.
func (c *Cartograph) SpatialLen() int {
	return c.tree.Len()
}

// NodePoint returns the position of a graph node. Node ids follow the
// artifact's (lat, lon) ordering.
func (c *Cartograph) NodePoint(id graph.NodeID) geo.Point {
	return c.graph.Node(id).Point
}

// EdgeInfo returns an edge's payload and the points of its two endpoints.
func (c *Cartograph) EdgeInfo(id graph.EdgeID) (graph.Edge, geo.Point, geo.Point) {
	edge := c.graph.Edge(id)
	return edge, c.graph.Node(edge.From).Point, c.graph.Node(edge.To).Point
}

// StronglyConnectedComponents returns the strongly connected components of
// the graph. A healthy artifact has exactly one.
func (c *Cartograph) StronglyConnectedComponents() [][]graph.NodeID {
	return c.graph.SCC()
}

// SampleEdges returns a stable sample of at most maxCount edges intersecting
// the rectangle spanned by two opposite corners in projected coordinates,
// grouped by road level. Lower levels are more important and win the budget;
// see package sampler for how the thinning and the slack behave.
func (c *Cartograph) SampleEdges(cornerA, cornerB [2]float64, maxCount int) map[uint8][]graph.EdgeID {
	min := [2]float64{math.Min(cornerA[0], cornerB[0]), math.Min(cornerA[1], cornerB[1])}
	max := [2]float64{math.Max(cornerA[0], cornerB[0]), math.Max(cornerA[1], cornerB[1])}

	s := sampler.NewPriority(
		maxCount,
		func(segment edgeSegment) uint64 { return hashEdgeID(segment.id) },
		func(segment edgeSegment) int32 { return -int32(c.graph.Edge(segment.id).RoadLevel) },
	)
	c.tree.Search(min, max, func(_, _ [2]float64, segment edgeSegment) bool {
		s.Update(segment)
		return true
	})

	result := make(map[uint8][]graph.EdgeID)
	for priority, segments := range s.Finish() {
		ids := make([]graph.EdgeID, len(segments))
		for i, segment := range segments {
			ids[i] = segment.id
		}
		result[uint8(-priority)] = ids
	}
	return result
}

// hashEdgeID is the stable hash that keeps edge sampling independent of
// iteration order.
func hashEdgeID(id graph.EdgeID) uint64 {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(id))
	return farm.Hash64(buf[:])
}
