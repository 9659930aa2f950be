package generator

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/paulmach/osm"
	"golang.org/x/sync/errgroup"

	"github.com/sitegui/ptolemy/geo"
	"github.com/sitegui/ptolemy/graph"
	"github.com/sitegui/ptolemy/junction"
	"github.com/sitegui/ptolemy/nodestore"
	"github.com/sitegui/ptolemy/osmfile"
)

// junctionPass scans the way region and classifies every referenced node.
// The classifier is the single shared-mutable structure of the stage; the
// workers hit it lock-free.
func junctionPass(ctx context.Context, cfg *config, file *osmfile.File, junctions *junction.Classifier) (int64, error) {
	eg, ctx := errgroup.WithContext(ctx)
	batches, wait := file.WayBatches(ctx, cfg.wayBatchSize, 2*cfg.workers)

	capacity := junctions.Capacity()
	var numWays atomic.Int64
	for w := 0; w < cfg.workers; w++ {
		eg.Go(func() error {
			for batch := range batches {
				for _, way := range batch.Ways {
					if _, isRoad := osmfile.RoadLevel(way.Tags); !isRoad {
						continue
					}
					refs := way.Nodes
					for i, ref := range refs {
						id := int64(ref.ID)
						if id < 0 || id >= capacity {
							return fmt.Errorf("generator: way %d references node %d outside the surveyed range", way.ID, id)
						}
						if i == 0 || i == len(refs)-1 {
							junctions.MarkJunction(id)
						} else {
							junctions.MarkInternal(id)
						}
					}
					numWays.Add(1)
				}
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		_ = wait()
		return 0, err
	}
	return numWays.Load(), wait()
}

// nodePass scans the node region and stores every node the junction pass
// marked as used. Each worker owns a private builder; batches arrive in file
// order on each worker, so every builder sees strictly ascending ids over
// disjoint blocks and the final assembly is deterministic.
func nodePass(ctx context.Context, cfg *config, file *osmfile.File, junctions *junction.Classifier) (*nodestore.Store, error) {
	eg, ctx := errgroup.WithContext(ctx)
	batches, wait := file.NodeBatches(ctx, cfg.nodeBatchSize, 2*cfg.workers)

	capacity := junctions.Capacity()
	builders := make([]*nodestore.Builder, cfg.workers)
	for w := 0; w < cfg.workers; w++ {
		eg.Go(func() error {
			builder, err := nodestore.NewBuilder()
			if err != nil {
				return err
			}
			builders[w] = builder

			for batch := range batches {
				for _, node := range batch.Nodes {
					id := int64(node.ID)
					if id < 0 || id >= capacity {
						return fmt.Errorf("generator: node id %d outside surveyed range", id)
					}
					if !junctions.Used(id) {
						continue
					}
					err := builder.Push(nodestore.Node{
						ID:      id,
						Point:   geo.PointFromDegrees(node.Lat, node.Lon),
						Barrier: osmfile.IsBarrier(node.Tags),
					})
					if err != nil {
						return err
					}
				}
				// One PBF batch is one block of the store.
				builder.FinishBlock()
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		_ = wait()
		return nil, err
	}
	if err := wait(); err != nil {
		return nil, err
	}
	return nodestore.Assemble(builders...), nil
}

// arc is one directed road segment emitted by the arc pass.
type arc struct {
	from, to graph.NodeID
	info     graph.EdgeInfo
}

// arcPass re-scans the way region, splitting every road way into arcs at
// junction nodes. Workers extract arcs batch by batch; the main goroutine
// applies them in file order so edge ids come out deterministic.
func arcPass(ctx context.Context, cfg *config, file *osmfile.File, store *nodestore.Store, junctions *junction.Classifier) (*graph.Graph, error) {
	g := graph.New(store.Len())
	store.EachPoint(func(point geo.Point) {
		g.AddNode(graph.NodeInfo{Point: point})
	})

	eg, ctx := errgroup.WithContext(ctx)
	batches, wait := file.WayBatches(ctx, cfg.wayBatchSize, 2*cfg.workers)

	type arcBatch struct {
		seq  int
		arcs []arc
	}
	results := make(chan arcBatch, 2*cfg.workers)

	for w := 0; w < cfg.workers; w++ {
		eg.Go(func() error {
			for batch := range batches {
				var arcs []arc
				for _, way := range batch.Ways {
					if err := extractWayArcs(way, store, junctions, &arcs); err != nil {
						return err
					}
				}
				select {
				case results <- arcBatch{seq: batch.Seq, arcs: arcs}:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}

	workersDone := make(chan error, 1)
	go func() {
		workersDone <- eg.Wait()
		close(results)
	}()

	// Re-sequence the out-of-order worker results.
	nextSeq := 0
	var pending []arcBatch
	apply := func(arcs []arc) {
		for _, a := range arcs {
			g.PushArc(a.from, a.to, a.info)
		}
	}
	for result := range results {
		if result.seq != nextSeq {
			pending = append(pending, result)
			sort.Slice(pending, func(i, j int) bool { return pending[i].seq < pending[j].seq })
			continue
		}
		apply(result.arcs)
		nextSeq++
		for len(pending) > 0 && pending[0].seq == nextSeq {
			apply(pending[0].arcs)
			pending = pending[1:]
			nextSeq++
		}
	}

	if err := <-workersDone; err != nil {
		_ = wait()
		return nil, err
	}
	if err := wait(); err != nil {
		return nil, err
	}
	return g, nil
}

// extractWayArcs walks one way, committing a segment at every junction node.
// A segment containing a barrier node is dropped entirely, so routing can
// never cross a gate or bollard through the interior of a road.
func extractWayArcs(way *osm.Way, store *nodestore.Store, junctions *junction.Classifier, arcs *[]arc) error {
	level, isRoad := osmfile.RoadLevel(way.Tags)
	if !isRoad || len(way.Nodes) < 2 {
		return nil
	}
	direction := osmfile.OnewayDirection(way.Tags)

	first, firstOffset, ok := lookupRef(way, 0, store)
	if !ok {
		return missingRef(way, 0)
	}
	segStart := firstOffset
	prev := first
	distance := 0.0
	blocked := first.Barrier

	for i := 1; i < len(way.Nodes); i++ {
		node, offset, ok := lookupRef(way, i, store)
		if !ok {
			return missingRef(way, i)
		}
		distance += prev.Point.HaversineDistance(node.Point)
		prev = node
		blocked = blocked || node.Barrier

		if !junctions.IsJunction(node.ID) {
			continue
		}

		if !blocked {
			info := graph.EdgeInfo{RoadLevel: level, Distance: graph.SaturatingDistance(distance)}
			if direction.Direct {
				*arcs = append(*arcs, arc{from: graph.NodeID(segStart), to: graph.NodeID(offset), info: info})
			}
			if direction.Reverse {
				*arcs = append(*arcs, arc{from: graph.NodeID(offset), to: graph.NodeID(segStart), info: info})
			}
		}

		segStart = offset
		distance = 0
		blocked = node.Barrier
	}

	return nil
}

func lookupRef(way *osm.Way, i int, store *nodestore.Store) (nodestore.Node, int, bool) {
	return store.Lookup(int64(way.Nodes[i].ID))
}

func missingRef(way *osm.Way, i int) error {
	return fmt.Errorf("generator: way %d references node %d absent from the extract", way.ID, way.Nodes[i].ID)
}
