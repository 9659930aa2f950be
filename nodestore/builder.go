package nodestore

import (
	"fmt"
	"math"

	"golang.org/x/sys/unix"
)

// pagesPerSection is how many system memory pages each section's ids column
// spans.
const pagesPerSection = 1024

// Builder accumulates nodes in ascending id order, in blocks that match the
// source PBF groups. Builders are single-goroutine; to parallelize ingestion,
// give each worker its own Builder over disjoint blocks and combine them with
// Assemble.
type Builder struct {
	idsPerBlock  int
	idsCurrBlock int
	partial      *section
	capacity     int
	lastID       int64

	blockMinID    int64
	blockHasMinID bool
	blockIDsStart int

	sections   []*section
	entries    []protoEntry
	len        int
	barrierLen int
}

// NewBuilder creates a Builder with page-derived block size and section
// capacity.
func NewBuilder() (*Builder, error) {
	pageSize := unix.Getpagesize()
	const idSize = 8
	if pageSize%idSize != 0 {
		return nil, fmt.Errorf("nodestore: system page size %d is not a multiple of %d", pageSize, idSize)
	}
	idsPerBlock := pageSize / idSize
	return newBuilder(idsPerBlock, idsPerBlock*pagesPerSection)
}

func newBuilder(idsPerBlock, capacity int) (*Builder, error) {
	partial, err := newSection(capacity)
	if err != nil {
		return nil, err
	}
	return &Builder{
		idsPerBlock: idsPerBlock,
		partial:     partial,
		capacity:    capacity,
		lastID:      math.MinInt64,
	}, nil
}

// Push indexes a new node. Ids must be strictly increasing across the whole
// life of the Builder; a non-monotone id is an invariant violation and panics.
func (b *Builder) Push(node Node) error {
	if node.ID <= b.lastID {
		panic(fmt.Sprintf("nodestore: non-monotone id %d after %d", node.ID, b.lastID))
	}
	b.lastID = node.ID

	if b.idsCurrBlock == b.idsPerBlock {
		// This block spans a full page: commit it.
		b.FinishBlock()
	}

	if !b.blockHasMinID {
		b.blockMinID = node.ID
		b.blockHasMinID = true
	}

	if b.partial.full() {
		next, err := newSection(b.capacity)
		if err != nil {
			return err
		}
		b.sections = append(b.sections, b.partial)
		b.partial = next
		b.blockIDsStart = 0
	}

	b.partial.push(node)
	b.idsCurrBlock++
	b.len++
	if node.Barrier {
		b.barrierLen++
	}
	return nil
}

// FinishBlock signals the end of a block of contiguous node ids: no later
// node will have an id inside the finished block's range. Holes in the id
// space are fine as long as they hold no stored node. Calling FinishBlock on
// an empty block is a no-op.
func (b *Builder) FinishBlock() {
	if b.idsCurrBlock == 0 {
		return
	}

	b.entries = append(b.entries, protoEntry{
		minID:              b.blockMinID,
		section:            len(b.sections),
		sectionNodesOffset: b.partial.points.Len() - b.idsCurrBlock,
		idsStart:           b.blockIDsStart,
		idsEnd:             b.partial.ids.Len(),
	})

	// Pad the ids column so the next block starts on a page boundary.
	b.partial.padIDs(b.idsPerBlock - b.idsCurrBlock)

	b.idsCurrBlock = 0
	b.blockHasMinID = false
	b.blockIDsStart = b.partial.ids.Len()
}

// finish commits the trailing block and releases the pieces.
func (b *Builder) finish() ([]*section, []protoEntry) {
	b.FinishBlock()
	sections := append(b.sections, b.partial)
	b.sections = nil
	b.partial = nil
	return sections, b.entries
}
