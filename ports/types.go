package ports

import (
	"context"

	"github.com/danja/semem-sub012/sparql"
)

// Row is one result row from a TripleStore.Select call, keyed by the
// projected variable name (without its leading "?").
type Row map[string]string

// RowIter streams result rows, following the database/sql.Rows idiom used
// throughout this module (graph.TripleIterator is its sibling).
type RowIter interface {
	Next() bool
	Row() Row
	Err() error
}

// TripleStore executes parameterised SELECT queries against an external
// RDF store and returns a row iterator.
type TripleStore interface {
	Select(ctx context.Context, q sparql.Query) (RowIter, error)
}

// Embedder turns free text into a fixed-length embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// GenerateOptions tunes one LLM.Generate call.
type GenerateOptions struct {
	MaxTokens   int
	Temperature float64
}

// LLM generates free text from a prompt and supporting context passage.
type LLM interface {
	Generate(ctx context.Context, prompt, contextText string, opts GenerateOptions) (string, error)
}
