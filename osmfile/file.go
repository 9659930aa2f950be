package osmfile

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
)

// ErrNoNodes indicates the extract holds no node at all.
var ErrNoNodes = errors.New("osmfile: extract contains no nodes")

// File is an OSM PBF extract on disk. Each pass re-opens the file, so a File
// can run any number of passes, one at a time or concurrently.
type File struct {
	path     string
	decoders int
}

// Open validates that path exists and prepares it for scanning. decoders is
// the size of the scanner's internal decode pool for every pass.
func Open(path string, decoders int) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("osmfile: open %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("osmfile: open %s: is a directory", path)
	}
	if decoders < 1 {
		decoders = 1
	}
	return &File{path: path, decoders: decoders}, nil
}

// Survey is the cheap first look at the extract: how many nodes there are and
// the highest node id, which sizes the junction classifier.
type Survey struct {
	NodeCount int64
	MaxNodeID int64
}

// Survey scans the node region once and reports its bounds.
func (f *File) Survey(ctx context.Context) (Survey, error) {
	var result Survey
	err := f.scan(ctx, scanNodes, func(object osm.Object) bool {
		node := object.(*osm.Node)
		result.NodeCount++
		if id := int64(node.ID); id > result.MaxNodeID {
			result.MaxNodeID = id
		}
		return true
	})
	if err != nil {
		return Survey{}, err
	}
	if result.NodeCount == 0 {
		return Survey{}, ErrNoNodes
	}
	return result, nil
}

// NodeBatch is a run of consecutive nodes from the node region. Seq numbers
// restart at zero for every pass and follow file order, and each batch's ids
// are disjoint from and greater than all earlier batches'.
type NodeBatch struct {
	Seq   int
	Nodes []*osm.Node
}

// WayBatch is a run of consecutive ways from the way region.
type WayBatch struct {
	Seq  int
	Ways []*osm.Way
}

// WaitFunc joins a pass, returning its first error. It must be called exactly
// once, after the batch channel is drained.
type WaitFunc func() error

// NodeBatches starts the node pass: a producer goroutine fills a bounded
// queue of NodeBatch for the caller's workers to consume. The scan stops at
// the first way object, since nodes always precede ways in the file.
func (f *File) NodeBatches(ctx context.Context, batchSize, queueSize int) (<-chan NodeBatch, WaitFunc) {
	out := make(chan NodeBatch, queueSize)
	done := make(chan error, 1)

	go func() {
		defer close(out)
		seq := 0
		batch := make([]*osm.Node, 0, batchSize)

		flush := func() bool {
			if len(batch) == 0 {
				return true
			}
			select {
			case out <- NodeBatch{Seq: seq, Nodes: batch}:
				seq++
				batch = make([]*osm.Node, 0, batchSize)
				return true
			case <-ctx.Done():
				return false
			}
		}

		err := f.scan(ctx, scanNodesAndWays, func(object osm.Object) bool {
			node, ok := object.(*osm.Node)
			if !ok {
				// First way: the node region is over.
				return false
			}
			batch = append(batch, node)
			if len(batch) == batchSize {
				return flush()
			}
			return true
		})
		if err == nil && !flush() {
			err = ctx.Err()
		}
		done <- err
	}()

	return out, func() error { return <-done }
}

// WayBatches starts a way pass over the bounded queue, analogous to
// NodeBatches. Ways of every kind are delivered; road filtering is up to the
// consumer.
func (f *File) WayBatches(ctx context.Context, batchSize, queueSize int) (<-chan WayBatch, WaitFunc) {
	out := make(chan WayBatch, queueSize)
	done := make(chan error, 1)

	go func() {
		defer close(out)
		seq := 0
		batch := make([]*osm.Way, 0, batchSize)

		flush := func() bool {
			if len(batch) == 0 {
				return true
			}
			select {
			case out <- WayBatch{Seq: seq, Ways: batch}:
				seq++
				batch = make([]*osm.Way, 0, batchSize)
				return true
			case <-ctx.Done():
				return false
			}
		}

		err := f.scan(ctx, scanWays, func(object osm.Object) bool {
			batch = append(batch, object.(*osm.Way))
			if len(batch) == batchSize {
				return flush()
			}
			return true
		})
		if err == nil && !flush() {
			err = ctx.Err()
		}
		done <- err
	}()

	return out, func() error { return <-done }
}

type scanKind int

const (
	scanNodes scanKind = iota
	scanWays
	scanNodesAndWays
)

// scan runs one streaming pass, handing every object to handle until it
// returns false or the region is exhausted.
func (f *File) scan(ctx context.Context, kind scanKind, handle func(osm.Object) bool) error {
	file, err := os.Open(f.path)
	if err != nil {
		return fmt.Errorf("osmfile: open %s: %w", f.path, err)
	}
	defer file.Close()

	scanner := osmpbf.New(ctx, file, f.decoders)
	defer scanner.Close()
	scanner.SkipRelations = true
	scanner.SkipNodes = kind == scanWays
	scanner.SkipWays = kind == scanNodes

	for scanner.Scan() {
		if !handle(scanner.Object()) {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("osmfile: scan %s: %w", f.path, err)
	}
	return ctx.Err()
}
