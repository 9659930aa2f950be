package generator

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sitegui/ptolemy/junction"
	"github.com/sitegui/ptolemy/osmfile"
)

// Generate reads the OSM PBF extract at inputPath and writes the road-graph
// artifact to outputPath. It runs to completion or fails; there are no
// partial outputs and no retries.
func Generate(ctx context.Context, inputPath, outputPath string, opts ...Option) error {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := cfg.logger
	start := time.Now()
	logger.Info().Int("workers", cfg.workers).Str("input", inputPath).Msg("generator starting")

	file, err := osmfile.Open(inputPath, cfg.workers)
	if err != nil {
		return err
	}

	// Survey the node region: the classifier is indexed by raw node id.
	survey, err := file.Survey(ctx)
	if err != nil {
		return err
	}
	logger.Info().
		Dur("elapsed", time.Since(start)).
		Int64("nodes", survey.NodeCount).
		Int64("max_id", survey.MaxNodeID).
		Msg("surveyed extract")

	junctions, err := junction.NewClassifier(survey.MaxNodeID + 1)
	if err != nil {
		return err
	}
	defer junctions.Close()

	numWays, err := junctionPass(ctx, &cfg, file, junctions)
	if err != nil {
		return err
	}
	logger.Info().
		Dur("elapsed", time.Since(start)).
		Int64("ways", numWays).
		Int64("junctions", junctions.JunctionLen()).
		Int64("used_nodes", junctions.UsedLen()).
		Msg("classified junctions")

	store, err := nodePass(ctx, &cfg, file, junctions)
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info().
		Dur("elapsed", time.Since(start)).
		Int("nodes", store.Len()).
		Int("barriers", store.BarrierLen()).
		Msg("stored used nodes")

	g, err := arcPass(ctx, &cfg, file, store, junctions)
	if err != nil {
		return err
	}
	logger.Info().
		Dur("elapsed", time.Since(start)).
		Int("nodes", g.NumNodes()).
		Int("edges", g.NumEdges()).
		Msg("built graph")

	nodesBefore, edgesBefore := g.NumNodes(), g.NumEdges()
	g.RetainReachable(2)
	logger.Info().
		Dur("elapsed", time.Since(start)).
		Int("nodes", g.NumNodes()).
		Int("nodes_removed", nodesBefore-g.NumNodes()).
		Int("edges", g.NumEdges()).
		Int("edges_removed", edgesBefore-g.NumEdges()).
		Msg("pruned unreachable nodes")

	edgesBefore = g.NumEdges()
	g.FixDeadEnds()
	logger.Info().
		Dur("elapsed", time.Since(start)).
		Int("edges_added", g.NumEdges()-edgesBefore).
		Msg("doubled dead-end edges")

	edgesBefore = g.NumEdges()
	g.StronglyConnect()
	logger.Info().
		Dur("elapsed", time.Since(start)).
		Int("edges_added", g.NumEdges()-edgesBefore).
		Msg("bridged remaining components")

	output, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("generator: create %s: %w", outputPath, err)
	}
	if err := Serialize(g, output); err != nil {
		output.Close()
		os.Remove(outputPath)
		return err
	}
	if err := output.Close(); err != nil {
		os.Remove(outputPath)
		return fmt.Errorf("generator: close %s: %w", outputPath, err)
	}

	if info, err := os.Stat(outputPath); err == nil {
		logger.Info().
			Dur("elapsed", time.Since(start)).
			Int64("bytes", info.Size()).
			Str("output", outputPath).
			Msg("wrote artifact")
	}
	return nil
}
