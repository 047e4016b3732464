package graph

import "github.com/danja/semem-sub012/telemetry"

// BuildOption configures Build via functional options, the convention
// every configurable entry point in this module follows.
type BuildOption func(*buildConfig)

type buildConfig struct {
	undirected bool
	logger     *telemetry.Logger
}

func newBuildConfig(opts ...BuildOption) *buildConfig {
	cfg := &buildConfig{logger: telemetry.Nop()}
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// WithUndirected mirrors every edge into the reverse adjacency slot at build
// time, so Neighbours/analytics see a symmetric graph.
func WithUndirected() BuildOption {
	return func(cfg *buildConfig) { cfg.undirected = true }
}

// WithLogger attaches a structured logger used to report advisory counts of
// malformed/dangling triples once per Build call. Defaults to a no-op
// logger.
func WithLogger(l *telemetry.Logger) BuildOption {
	return func(cfg *buildConfig) {
		if l != nil {
			cfg.logger = l
		}
	}
}

func (cfg *buildConfig) logAdvisory(g *Graph) {
	if g.malformedTriples == 0 && g.droppedEdges == 0 {
		return
	}
	cfg.logger.Warn("graph: build completed with skipped input",
		"malformedTriples", g.malformedTriples,
		"droppedEdges", g.droppedEdges,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
	)
}
