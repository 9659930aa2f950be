package nodestore

import (
	"slices"

	"github.com/sitegui/ptolemy/geo"
)

// Store is the immutable OSM node database. Lookups by id run two binary
// searches: one over the dense block index, one inside the page-aligned block
// itself, touching at most two pages.
type Store struct {
	sections   []*section
	minIDs     []int64
	entries    []indexEntry
	len        int
	barrierLen int
}

// Assemble combines one builder per ingestion worker into the final Store.
// Builders must cover disjoint id ranges; the block index is re-sorted by
// minimum id so the global offsets are the ranks in the full sorted sequence.
func Assemble(builders ...*Builder) *Store {
	var allSections []*section
	var protos []protoEntry
	totalLen := 0
	totalBarriers := 0

	for _, builder := range builders {
		totalLen += builder.len
		totalBarriers += builder.barrierLen
		sections, entries := builder.finish()

		for i := range entries {
			entries[i].section += len(allSections)
		}
		allSections = append(allSections, sections...)
		protos = append(protos, entries...)
	}

	slices.SortFunc(protos, func(a, b protoEntry) int {
		switch {
		case a.minID < b.minID:
			return -1
		case a.minID > b.minID:
			return 1
		default:
			return 0
		}
	})

	minIDs := make([]int64, len(protos))
	entries := make([]indexEntry, len(protos))
	nodesOffset := 0
	for i, proto := range protos {
		minIDs[i] = proto.minID
		entries[i] = indexEntry{
			nodesOffset:        nodesOffset,
			section:            proto.section,
			sectionNodesOffset: proto.sectionNodesOffset,
			idsStart:           proto.idsStart,
			idsEnd:             proto.idsEnd,
		}
		nodesOffset += proto.idsEnd - proto.idsStart
	}

	return &Store{
		sections:   allSections,
		minIDs:     minIDs,
		entries:    entries,
		len:        totalLen,
		barrierLen: totalBarriers,
	}
}

// Offset converts an id to its dense rank in [0, Len), if the id is stored.
func (s *Store) Offset(id int64) (int, bool) {
	entry, i, ok := s.search(id)
	if !ok {
		return 0, false
	}
	return entry.nodesOffset + i, true
}

// Point returns the stored coordinates of id, if present.
func (s *Store) Point(id int64) (geo.Point, bool) {
	entry, i, ok := s.search(id)
	if !ok {
		return geo.Point{}, false
	}
	return s.sections[entry.section].points.At(entry.sectionNodesOffset + i), true
}

// Node returns the full stored record of id, if present.
func (s *Store) Node(id int64) (Node, bool) {
	entry, i, ok := s.search(id)
	if !ok {
		return Node{}, false
	}
	section := s.sections[entry.section]
	offset := entry.sectionNodesOffset + i
	return Node{
		ID:      id,
		Point:   section.points.At(offset),
		Barrier: section.barriers.GetBit(offset),
	}, true
}

// Lookup returns the full record and dense offset of id with one search.
func (s *Store) Lookup(id int64) (Node, int, bool) {
	entry, i, ok := s.search(id)
	if !ok {
		return Node{}, 0, false
	}
	section := s.sections[entry.section]
	offset := entry.sectionNodesOffset + i
	node := Node{
		ID:      id,
		Point:   section.points.At(offset),
		Barrier: section.barriers.GetBit(offset),
	}
	return node, entry.nodesOffset + i, true
}

// EachPoint calls fn with every stored point, in dense offset order.
func (s *Store) EachPoint(fn func(geo.Point)) {
	for _, entry := range s.entries {
		section := s.sections[entry.section]
		count := entry.idsEnd - entry.idsStart
		for i := 0; i < count; i++ {
			fn(section.points.At(entry.sectionNodesOffset + i))
		}
	}
}

// Len returns the number of stored nodes. Padding ids are not counted.
func (s *Store) Len() int {
	return s.len
}

// BarrierLen returns the number of stored nodes flagged as barriers.
func (s *Store) BarrierLen() int {
	return s.barrierLen
}

// Close releases every disk-backed section.
func (s *Store) Close() {
	for _, section := range s.sections {
		section.close()
	}
	s.sections = nil
}

// search locates the block that could hold id and the position of id in it.
func (s *Store) search(id int64) (indexEntry, int, bool) {
	blockPos, found := slices.BinarySearch(s.minIDs, id)
	if !found {
		if blockPos == 0 {
			return indexEntry{}, 0, false
		}
		blockPos--
	}

	entry := s.entries[blockPos]
	blockIDs := s.sections[entry.section].ids.Slice()[entry.idsStart:entry.idsEnd]
	i, found := slices.BinarySearch(blockIDs, id)
	if !found {
		return indexEntry{}, 0, false
	}
	return entry, i, true
}
