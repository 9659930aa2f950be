package junction_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitegui/ptolemy/junction"
)

func newClassifier(t *testing.T, capacity int64) *junction.Classifier {
	t.Helper()
	c, err := junction.NewClassifier(capacity)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestLattice(t *testing.T) {
	c := newClassifier(t, 16)

	// Simple cases: 0 untouched, 1 internal, 2 junction.
	c.MarkInternal(1)
	c.MarkJunction(2)

	// Double cases: 3 I+I, 4 I+J, 5 J+I, 6 J+J.
	c.MarkInternal(3)
	c.MarkInternal(3)
	c.MarkInternal(4)
	c.MarkJunction(4)
	c.MarkJunction(5)
	c.MarkInternal(5)
	c.MarkJunction(6)
	c.MarkJunction(6)

	assert.Equal(t, junction.Unused, c.State(0))
	assert.Equal(t, junction.Internal, c.State(1))
	assert.Equal(t, junction.Junction, c.State(2))
	assert.Equal(t, junction.Junction, c.State(3))
	assert.Equal(t, junction.Junction, c.State(4))
	assert.Equal(t, junction.Junction, c.State(5))
	assert.Equal(t, junction.Junction, c.State(6))

	assert.False(t, c.Used(0))
	assert.True(t, c.Used(1))
	assert.False(t, c.IsJunction(1))
	assert.True(t, c.IsJunction(2))

	assert.Equal(t, int64(5), c.JunctionLen())
	assert.Equal(t, int64(1), c.InternalLen())
	assert.Equal(t, int64(6), c.UsedLen())
}

func TestJunctionIsTerminal(t *testing.T) {
	c := newClassifier(t, 4)

	c.MarkJunction(0)
	c.MarkInternal(0)
	c.MarkInternal(0)
	c.MarkJunction(0)
	assert.Equal(t, junction.Junction, c.State(0))
	assert.Equal(t, int64(1), c.JunctionLen())
	assert.Equal(t, int64(0), c.InternalLen())
}

func TestNeighborSlotsIndependent(t *testing.T) {
	// All four states of one byte, plus the word boundary at offset 16.
	c := newClassifier(t, 64)

	c.MarkJunction(0)
	c.MarkInternal(1)
	c.MarkInternal(3)
	c.MarkInternal(3)
	c.MarkJunction(15)
	c.MarkInternal(16)
	c.MarkJunction(17)

	assert.Equal(t, junction.Junction, c.State(0))
	assert.Equal(t, junction.Internal, c.State(1))
	assert.Equal(t, junction.Unused, c.State(2))
	assert.Equal(t, junction.Junction, c.State(3))
	assert.Equal(t, junction.Junction, c.State(15))
	assert.Equal(t, junction.Internal, c.State(16))
	assert.Equal(t, junction.Junction, c.State(17))
	assert.Equal(t, junction.Unused, c.State(63))
}

func TestConcurrentMarking(t *testing.T) {
	const (
		numWorkers = 8
		numOffsets = 10_000
	)
	c := newClassifier(t, numOffsets)

	// Every worker walks the same ways: endpoints junction, interior internal.
	// Offsets divisible by 3 act as endpoints, the rest as interior nodes.
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for offset := int64(0); offset < numOffsets; offset++ {
				if offset%3 == 0 {
					c.MarkJunction(offset)
				} else {
					c.MarkInternal(offset)
				}
			}
		}()
	}
	wg.Wait()

	for offset := int64(0); offset < numOffsets; offset++ {
		// Interior nodes were marked internal by several workers, which
		// promotes them to junctions, same as a node shared by two ways.
		assert.Equal(t, junction.Junction, c.State(offset), "offset %d", offset)
	}
	assert.Equal(t, int64(numOffsets), c.JunctionLen())
	assert.Equal(t, int64(0), c.InternalLen())
}

func TestLargeSparseCapacity(t *testing.T) {
	// Billions of ids: only the touched pages materialize.
	c := newClassifier(t, 4_000_000_000)

	c.MarkJunction(3_999_999_999)
	c.MarkInternal(2_000_000_000)
	assert.Equal(t, junction.Junction, c.State(3_999_999_999))
	assert.Equal(t, junction.Internal, c.State(2_000_000_000))
	assert.Equal(t, junction.Unused, c.State(1_000_000_000))
}
