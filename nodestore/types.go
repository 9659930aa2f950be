package nodestore

import (
	"github.com/sitegui/ptolemy/diskvec"
	"github.com/sitegui/ptolemy/geo"
)

// Node is a parsed OSM node: its original id, position and whether it carries
// a blocking barrier tag. Nodes are immutable once stored.
type Node struct {
	ID      int64
	Point   geo.Point
	Barrier bool
}

// section stores a run of nodes in columnar form. The ids column can contain
// zero-padding holes so that every block starts on a page boundary; the
// points and barriers columns are packed with no holes.
type section struct {
	ids      *diskvec.Vec[int64]
	points   *diskvec.Vec[geo.Point]
	barriers *diskvec.BitVec
}

func newSection(capacity int) (*section, error) {
	ids, err := diskvec.New[int64](capacity)
	if err != nil {
		return nil, err
	}
	points, err := diskvec.New[geo.Point](capacity)
	if err != nil {
		ids.Close()
		return nil, err
	}
	barriers, err := diskvec.NewBitVec(capacity)
	if err != nil {
		ids.Close()
		points.Close()
		return nil, err
	}
	return &section{ids: ids, points: points, barriers: barriers}, nil
}

func (s *section) push(node Node) {
	s.barriers.SetBit(s.points.Len(), node.Barrier)
	s.points.Push(node.Point)
	s.ids.Push(node.ID)
}

func (s *section) padIDs(count int) {
	for i := 0; i < count; i++ {
		s.ids.Push(0)
	}
}

func (s *section) full() bool {
	return s.ids.Len() == s.ids.Cap()
}

func (s *section) close() {
	s.ids.Close()
	s.points.Close()
	s.barriers.Close()
}

// indexEntry addresses one block of nodes. The minimum ids of all entries are
// kept in a separate dense slice (see Store.minIDs) so the index binary search has
// maximal cache locality.
type indexEntry struct {
	// nodesOffset is how many nodes appear before this block across the store.
	nodesOffset int
	// section is the position of the owning section.
	section int
	// sectionNodesOffset is how many nodes appear before this block inside
	// the owning section's packed columns.
	sectionNodesOffset int
	// idsStart and idsEnd delimit the block's ids inside the owning section's
	// ids column, excluding padding.
	idsStart, idsEnd int
}

// protoEntry is an indexEntry before the global offsets are known.
type protoEntry struct {
	minID              int64
	section            int
	sectionNodesOffset int
	idsStart, idsEnd   int
}
