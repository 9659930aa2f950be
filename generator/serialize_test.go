package generator

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitegui/ptolemy/geo"
	"github.com/sitegui/ptolemy/graph"
)

// decodeColumn reverses compressColumn: gunzip, then running sum.
func decodeColumn(t *testing.T, column []byte, count int) []int32 {
	t.Helper()
	decoder, err := gzip.NewReader(bytes.NewReader(column))
	require.NoError(t, err)

	values := make([]int32, count)
	var buf [4]byte
	var prev int32
	for i := 0; i < count; i++ {
		_, err := io.ReadFull(decoder, buf[:])
		require.NoError(t, err)
		delta := int32(binary.LittleEndian.Uint32(buf[:]))
		if i == 0 {
			prev = delta
		} else {
			prev += delta
		}
		values[i] = prev
	}

	// Nothing may remain.
	_, err = decoder.Read(buf[:1])
	assert.Equal(t, io.EOF, err)
	return values
}

func TestCompressColumnRoundTrip(t *testing.T) {
	cases := [][]int32{
		{42},
		{0, 0, 0},
		{5, -3, 1_000_000, -2_000_000, 7},
		{-180_000_000, 180_000_000},
	}
	for _, values := range cases {
		column, err := compressColumn(len(values), func(i int) int32 { return values[i] })
		require.NoError(t, err)
		assert.Equal(t, values, decodeColumn(t, column, len(values)))
	}
}

func TestCompressColumnEmpty(t *testing.T) {
	column, err := compressColumn(0, func(int) int32 { panic("no values") })
	require.NoError(t, err)
	assert.Empty(t, decodeColumn(t, column, 0))
}

func TestSerializeLayout(t *testing.T) {
	g := graph.New(3)
	// Out of (lat, lon) order on purpose.
	a := g.AddNode(graph.NodeInfo{Point: geo.PointFromMicroDegrees(200, 100)})
	b := g.AddNode(graph.NodeInfo{Point: geo.PointFromMicroDegrees(100, 300)})
	c := g.AddNode(graph.NodeInfo{Point: geo.PointFromMicroDegrees(100, 200)})
	g.PushArc(a, b, graph.EdgeInfo{RoadLevel: 1, Distance: 11})
	g.PushArc(b, c, graph.EdgeInfo{RoadLevel: 5, Distance: 22})

	var buf bytes.Buffer
	require.NoError(t, Serialize(g, &buf))
	data := buf.Bytes()

	require.True(t, bytes.HasPrefix(data, []byte(Magic)))
	rest := data[len(Magic):]
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(rest[0:4]))
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(rest[4:8]))

	// Walk the six length-prefixed columns and decode each.
	counts := []int{3, 3, 2, 2, 2, 2}
	columns := make([][]int32, 6)
	offset := 8
	for i := 0; i < 6; i++ {
		require.GreaterOrEqual(t, len(rest), offset+8)
		length := int(binary.LittleEndian.Uint64(rest[offset : offset+8]))
		offset += 8
		require.GreaterOrEqual(t, len(rest), offset+length)
		columns[i] = decodeColumn(t, rest[offset:offset+length], counts[i])
		offset += length
	}
	assert.Equal(t, len(rest), offset, "trailing bytes after the last column")

	// The node table is sorted by (lat, lon); nodes a, b, c land as ranks
	// 2, 1, 0.
	assert.Equal(t, []int32{100, 100, 200}, columns[0])
	assert.Equal(t, []int32{200, 300, 100}, columns[1])

	// Edges are remapped and sorted by (source, target): b→c is (1, 0),
	// a→b is (2, 1).
	assert.Equal(t, []int32{1, 2}, columns[2])
	assert.Equal(t, []int32{0, 1}, columns[3])
	assert.Equal(t, []int32{22, 11}, columns[4])
	assert.Equal(t, []int32{5, 1}, columns[5])
}

func TestSerializeDeterministic(t *testing.T) {
	g, _ := testGraph()
	var first, second bytes.Buffer
	require.NoError(t, Serialize(g, &first))
	require.NoError(t, Serialize(g, &second))
	assert.Equal(t, first.Bytes(), second.Bytes())
}

func testGraph() (*graph.Graph, int) {
	g := graph.New(10)
	for i := 0; i < 10; i++ {
		g.AddNode(graph.NodeInfo{Point: geo.PointFromMicroDegrees(int32(i*37%11), int32(i*53%17))})
	}
	edges := 0
	for i := 0; i < 10; i++ {
		g.PushArc(graph.NodeID(i), graph.NodeID((i+1)%10), graph.EdgeInfo{RoadLevel: uint8(i % 6), Distance: uint32(10 + i)})
		edges++
	}
	return g, edges
}

func TestGenerateMissingInput(t *testing.T) {
	err := Generate(context.Background(), "/nonexistent/input.osm.pbf", "/nonexistent/out.ptolemy")
	assert.Error(t, err)
}
