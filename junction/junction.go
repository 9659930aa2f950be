package junction

import (
	"fmt"
	"sync/atomic"

	"github.com/sitegui/ptolemy/diskvec"
)

// State is the classification of one node.
type State uint8

const (
	// Unused means the node was never referenced by a road way.
	Unused State = 0
	// Internal means the node was referenced exactly once, in the interior
	// of a road way.
	Internal State = 1
	// Junction means the node begins or ends a way, or is referenced by more
	// than one way. Junction is terminal.
	Junction State = 2
)

// statesPerWord is how many 2-bit states fit the 32-bit CAS cell.
// Four states per byte, as stored on disk.
const statesPerWord = 16

// Classifier assigns a State to every node id below its capacity. All methods
// are safe for concurrent use.
type Classifier struct {
	words    *diskvec.Vec[uint32]
	capacity int64

	internalLen atomic.Int64
	junctionLen atomic.Int64
}

// NewClassifier creates a classifier covering ids in [0, capacity). The
// backing array starts all-Unused without touching a single page.
func NewClassifier(capacity int64) (*Classifier, error) {
	if capacity < 0 {
		panic(fmt.Sprintf("junction: negative capacity %d", capacity))
	}
	numWords := int((capacity + statesPerWord - 1) / statesPerWord)
	words, err := diskvec.NewZeroed[uint32](numWords)
	if err != nil {
		return nil, fmt.Errorf("junction: allocate state array: %w", err)
	}
	return &Classifier{words: words, capacity: capacity}, nil
}

// Capacity returns the number of node id slots, as given to NewClassifier.
func (c *Classifier) Capacity() int64 {
	return c.capacity
}

// MarkJunction forces the state of offset to Junction.
func (c *Classifier) MarkJunction(offset int64) {
	word := &c.words.Slice()[offset/statesPerWord]
	shift := uint(offset%statesPerWord) * 2

	for {
		old := atomic.LoadUint32(word)
		state := State(old >> shift & 0b11)
		if state == Junction {
			return
		}
		updated := old&^(0b11<<shift) | uint32(Junction)<<shift
		if atomic.CompareAndSwapUint32(word, old, updated) {
			c.junctionLen.Add(1)
			if state == Internal {
				c.internalLen.Add(-1)
			}
			return
		}
	}
}

// MarkInternal upgrades the state of offset one step: Unused becomes
// Internal, Internal becomes Junction, Junction stays put.
func (c *Classifier) MarkInternal(offset int64) {
	word := &c.words.Slice()[offset/statesPerWord]
	shift := uint(offset%statesPerWord) * 2

	for {
		old := atomic.LoadUint32(word)
		state := State(old >> shift & 0b11)
		if state == Junction {
			return
		}

		next := Internal
		if state == Internal {
			next = Junction
		}
		updated := old&^(0b11<<shift) | uint32(next)<<shift
		if atomic.CompareAndSwapUint32(word, old, updated) {
			if next == Internal {
				c.internalLen.Add(1)
			} else {
				c.internalLen.Add(-1)
				c.junctionLen.Add(1)
			}
			return
		}
	}
}

// State reads the classification of offset. States are monotone, so even
// while writers are running the result is a correct lower bound; after all
// writers have joined it is exact.
func (c *Classifier) State(offset int64) State {
	word := atomic.LoadUint32(&c.words.Slice()[offset/statesPerWord])
	shift := uint(offset%statesPerWord) * 2
	return State(word >> shift & 0b11)
}

// Used reports whether offset was referenced by any road way.
func (c *Classifier) Used(offset int64) bool {
	return c.State(offset) != Unused
}

// IsJunction reports whether offset classified as a junction.
func (c *Classifier) IsJunction(offset int64) bool {
	return c.State(offset) == Junction
}

// JunctionLen returns the number of nodes currently classified Junction.
func (c *Classifier) JunctionLen() int64 {
	return c.junctionLen.Load()
}

// InternalLen returns the number of nodes currently classified Internal.
func (c *Classifier) InternalLen() int64 {
	return c.internalLen.Load()
}

// UsedLen returns the number of nodes referenced by at least one road way.
func (c *Classifier) UsedLen() int64 {
	return c.internalLen.Load() + c.junctionLen.Load()
}

// Close releases the state array.
func (c *Classifier) Close() error {
	return c.words.Close()
}
