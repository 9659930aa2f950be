package generator

import (
	"runtime"

	"github.com/rs/zerolog"
)

type config struct {
	workers       int
	logger        zerolog.Logger
	nodeBatchSize int
	wayBatchSize  int
}

func defaultConfig() config {
	return config{
		workers:       runtime.GOMAXPROCS(0),
		logger:        zerolog.Nop(),
		nodeBatchSize: 8192,
		wayBatchSize:  1024,
	}
}

// Option customizes a Generate run.
type Option func(*config)

// WithWorkers sets the size of the worker pool used by every parallel stage.
// The default is the hardware parallelism.
func WithWorkers(workers int) Option {
	return func(c *config) {
		if workers > 0 {
			c.workers = workers
		}
	}
}

// WithLogger sets the logger that receives one event per pipeline stage.
// The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithBatchSizes overrides how many nodes and ways each unit of worker input
// carries. Mostly useful to exercise batch boundaries in tests.
func WithBatchSizes(nodes, ways int) Option {
	return func(c *config) {
		if nodes > 0 {
			c.nodeBatchSize = nodes
		}
		if ways > 0 {
			c.wayBatchSize = ways
		}
	}
}
