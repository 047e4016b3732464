package search

import (
	"time"

	"github.com/danja/semem-sub012/graph"
	"github.com/danja/semem-sub012/ports"
	"github.com/danja/semem-sub012/telemetry"
	"github.com/danja/semem-sub012/vectorindex"
)

// Config wires one Orchestrator's collaborators and tuning knobs. All
// three fusion weights are mandatory: a missing or zero weight is
// rejected at construction rather than silently defaulted, since an
// unannounced default would bias fusion behind the caller's back.
type Config struct {
	TripleStore ports.TripleStore
	Embedder    ports.Embedder
	LLM         ports.LLM
	VectorIndex *vectorindex.Index

	ExactWeight  float64
	VectorWeight float64
	PPRWeight    float64

	// ExactMatchTypes restricts the exact-label lookup; defaults to
	// {Entity, Attribute}.
	ExactMatchTypes []graph.NodeType
	// VectorSimilarityTypes restricts VectorIndex.SearchByTypes; defaults
	// to {Entity, TextElement}.
	VectorSimilarityTypes []graph.NodeType
	// VectorSimilarityK bounds per-type vector results; default 10.
	VectorSimilarityK int
	// SimilarityThreshold drops vector hits below this score; default 0.
	SimilarityThreshold float64
	// MaxQueryEntities bounds the heuristic entity-extraction fallback;
	// default 5.
	MaxQueryEntities int

	// PortTimeout bounds each individual triple-store/embedding/LLM call;
	// zero means no per-port deadline.
	PortTimeout time.Duration
	// QueryTimeout bounds the whole Query call; zero means no deadline
	// beyond whatever the caller's context already carries.
	QueryTimeout time.Duration

	// CacheTTL bounds how long a fused Envelope is served from the
	// response cache; zero selects the default of 5 minutes. A negative
	// value disables caching.
	CacheTTL time.Duration

	Logger *telemetry.Logger
}

func (c *Config) applyDefaults() {
	if c.ExactMatchTypes == nil {
		c.ExactMatchTypes = []graph.NodeType{graph.Entity, graph.Attribute}
	}
	if c.VectorSimilarityTypes == nil {
		c.VectorSimilarityTypes = []graph.NodeType{graph.Entity, graph.TextElement}
	}
	if c.VectorSimilarityK == 0 {
		c.VectorSimilarityK = 10
	}
	if c.MaxQueryEntities == 0 {
		c.MaxQueryEntities = 5
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 5 * time.Minute
	}
	if c.Logger == nil {
		c.Logger = telemetry.Nop()
	}
}

func (c *Config) validate() error {
	if c.TripleStore == nil {
		return newError(InvalidInput, "Config.TripleStore is required", nil)
	}
	if c.Embedder == nil {
		return newError(InvalidInput, "Config.Embedder is required", nil)
	}
	if c.LLM == nil {
		return newError(InvalidInput, "Config.LLM is required", nil)
	}
	if c.VectorIndex == nil {
		return newError(InvalidInput, "Config.VectorIndex is required", nil)
	}
	if c.ExactWeight <= 0 {
		return newError(InvalidInput, "Config.ExactWeight must be positive", nil)
	}
	if c.VectorWeight <= 0 {
		return newError(InvalidInput, "Config.VectorWeight must be positive", nil)
	}
	if c.PPRWeight <= 0 {
		return newError(InvalidInput, "Config.PPRWeight must be positive", nil)
	}

	return nil
}
