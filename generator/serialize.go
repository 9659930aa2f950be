package generator

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/sitegui/ptolemy/graph"
)

// Magic opens every artifact file.
const Magic = "PTOLEMY-v2"

// Serialize writes the artifact form of g: the magic, the node and edge
// counts, then six length-prefixed columns — lat, lon, source, target,
// distance, road level — each delta-encoded and gzipped.
//
// Nodes are reordered by (lat, lon) and edges by (source, target) before
// encoding; sorted columns delta-encode into small values that gzip squeezes
// hard, and the fixed order makes the output a pure function of the graph.
// Columns compress on parallel workers but always land in the file in the
// order above.
func Serialize(g *graph.Graph, w io.Writer) error {
	// Extract and sort the node table, remembering the remap old → new.
	type nodeRow struct {
		index    int32
		lat, lon int32
	}
	nodes := make([]nodeRow, g.NumNodes())
	for i := range nodes {
		point := g.Node(graph.NodeID(i)).Point
		nodes[i] = nodeRow{
			index: int32(i),
			lat:   point.Lat.MicroDegrees(),
			lon:   point.Lon.MicroDegrees(),
		}
	}
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].lat != nodes[j].lat {
			return nodes[i].lat < nodes[j].lat
		}
		return nodes[i].lon < nodes[j].lon
	})

	remap := make([]int32, len(nodes))
	for newIndex, node := range nodes {
		remap[node.index] = int32(newIndex)
	}

	// Extract and sort the edge table in the remapped id space.
	type edgeRow struct {
		source, target      int32
		distance, roadLevel int32
	}
	edges := make([]edgeRow, g.NumEdges())
	for i := range edges {
		edge := g.Edge(graph.EdgeID(i))
		edges[i] = edgeRow{
			source:    remap[edge.From],
			target:    remap[edge.To],
			distance:  int32(edge.Distance),
			roadLevel: int32(edge.RoadLevel),
		}
	}
	sort.SliceStable(edges, func(i, j int) bool {
		if edges[i].source != edges[j].source {
			return edges[i].source < edges[j].source
		}
		return edges[i].target < edges[j].target
	})

	// Compress the six columns in parallel.
	columnValues := []func(int) int32{
		func(i int) int32 { return nodes[i].lat },
		func(i int) int32 { return nodes[i].lon },
		func(i int) int32 { return edges[i].source },
		func(i int) int32 { return edges[i].target },
		func(i int) int32 { return edges[i].distance },
		func(i int) int32 { return edges[i].roadLevel },
	}
	columnLens := []int{
		len(nodes), len(nodes),
		len(edges), len(edges), len(edges), len(edges),
	}

	columns := make([][]byte, len(columnValues))
	var eg errgroup.Group
	for c := range columnValues {
		eg.Go(func() error {
			column, err := compressColumn(columnLens[c], columnValues[c])
			if err != nil {
				return err
			}
			columns[c] = column
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	// Write everything sequentially in the fixed order.
	if _, err := w.Write([]byte(Magic)); err != nil {
		return fmt.Errorf("generator: write magic: %w", err)
	}
	counts := []uint32{uint32(len(nodes)), uint32(len(edges))}
	if err := binary.Write(w, binary.LittleEndian, counts); err != nil {
		return fmt.Errorf("generator: write counts: %w", err)
	}
	for _, column := range columns {
		if err := binary.Write(w, binary.LittleEndian, uint64(len(column))); err != nil {
			return fmt.Errorf("generator: write column length: %w", err)
		}
		if _, err := w.Write(column); err != nil {
			return fmt.Errorf("generator: write column: %w", err)
		}
	}
	return nil
}

// compressColumn delta-encodes count values and gzips the stream: the first
// value absolute, every following one as the difference from its predecessor.
func compressColumn(count int, value func(int) int32) ([]byte, error) {
	var buf bytes.Buffer
	encoder := gzip.NewWriter(&buf)

	scratch := make([]byte, 4)
	write := func(v int32) error {
		binary.LittleEndian.PutUint32(scratch, uint32(v))
		_, err := encoder.Write(scratch)
		return err
	}

	prev := int32(0)
	for i := 0; i < count; i++ {
		v := value(i)
		var err error
		if i == 0 {
			err = write(v)
		} else {
			err = write(v - prev)
		}
		if err != nil {
			return nil, fmt.Errorf("generator: compress column: %w", err)
		}
		prev = v
	}

	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("generator: compress column: %w", err)
	}
	return buf.Bytes(), nil
}
