package search

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Orchestrator runs the dual-search query state machine over
// collaborators fixed at construction time.
type Orchestrator struct {
	cfg   Config
	cache *responseCache
}

// NewOrchestrator validates cfg and builds an Orchestrator. All three
// fusion weights are mandatory; a missing or zero weight is rejected
// with InvalidInput rather than silently defaulted.
func NewOrchestrator(cfg Config) (*Orchestrator, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Orchestrator{
		cfg:   cfg,
		cache: newResponseCache(cfg.CacheTTL),
	}, nil
}

// Query converts free text into a ranked Envelope, running Phase A
// (query processing), Phase B (parallel retrieval), and Phase C (fusion)
// in sequence. A cached fused Envelope for the same text and weight
// fingerprint is served without running any phase.
func (o *Orchestrator) Query(ctx context.Context, text string) (*Envelope, error) {
	queryID := uuid.NewString()

	ctx, span := startQuerySpan(ctx, queryID, text)
	defer span.End()
	incrQueryCounter(ctx)

	if strings.TrimSpace(text) == "" {
		return failedEnvelope(queryID, newError(InvalidInput, "query text is empty", nil))
	}
	if err := ctx.Err(); err != nil {
		return failedEnvelope(queryID, ctxError(err))
	}

	if o.cfg.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.QueryTimeout)
		defer cancel()
	}

	key := cacheKey(text, o.cfg.ExactWeight, o.cfg.VectorWeight, o.cfg.PPRWeight)
	if env, ok := o.cache.get(key); ok {
		incrCacheHitCounter(ctx)
		cached := *env
		cached.QueryID = queryID

		return &cached, nil
	}

	llmCtx, llmCancel := o.portCtx(ctx)
	entities, fromLLM := extractEntities(llmCtx, o.cfg.LLM, text, o.cfg.MaxQueryEntities)
	llmCancel()
	embedCtx, embedCancel := o.portCtx(ctx)
	embedding := embedQuery(embedCtx, o.cfg.Embedder, text)
	embedCancel()
	expanded, grew := expand(entities)
	conf := confidence(len(expanded), embedding != nil, grew)
	o.cfg.Logger.Info("query processed", "queryID", queryID, "entities", len(expanded), "fromLLM", fromLLM, "hasEmbedding", embedding != nil)

	if err := ctx.Err(); err != nil {
		return failedEnvelope(queryID, ctxError(err))
	}

	bySource, diagnostics := o.retrieve(ctx, expanded, embedding)

	results := fuse(bySource, map[Source]float64{
		SourceExactMatch:       o.cfg.ExactWeight,
		SourceVectorSimilarity: o.cfg.VectorWeight,
		SourcePPRTraversal:     o.cfg.PPRWeight,
	})

	env := &Envelope{
		QueryID:     queryID,
		Success:     true,
		Results:     results,
		Confidence:  conf,
		Diagnostics: diagnostics,
	}
	o.cache.put(key, env)

	return env, nil
}

// portCtx applies the per-port deadline, if configured, on top of the
// query's own context. The caller must call the returned cancel func once
// the port call finishes.
func (o *Orchestrator) portCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.cfg.PortTimeout <= 0 {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, o.cfg.PortTimeout)
}

// retrieve runs Phase B's three retrievals concurrently; each absorbs
// its own error into a Diagnostic rather than failing the group. Each
// task writes only to its own result/error slot — bySource and
// diagnostics are assembled after g.Wait() returns, so no slot is ever
// written by two goroutines.
func (o *Orchestrator) retrieve(ctx context.Context, entities []string, embedding []float32) (map[Source][]scored, []Diagnostic) {
	var exactRes, vectorRes, pprRes []scored
	var exactErr, vectorErr, pprErr error

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		pctx, cancel := o.portCtx(gctx)
		defer cancel()
		exactRes, exactErr = exactMatch(pctx, o.cfg.TripleStore, o.cfg.ExactMatchTypes, entities)

		return nil
	})

	g.Go(func() error {
		vectorRes, vectorErr = vectorSimilarity(o.cfg.VectorIndex, embedding, o.cfg.VectorSimilarityTypes, o.cfg.VectorSimilarityK, o.cfg.SimilarityThreshold)

		return nil
	})

	g.Go(func() error {
		pctx, cancel := o.portCtx(gctx)
		defer cancel()
		pprRes, pprErr = pprTraversal(pctx, o.cfg.TripleStore, entities)

		return nil
	})

	_ = g.Wait() // each task absorbs its own error; the group itself never fails

	bySource := map[Source][]scored{
		SourceExactMatch:       exactRes,
		SourceVectorSimilarity: vectorRes,
		SourcePPRTraversal:     pprRes,
	}

	var diagnostics []Diagnostic
	if exactErr != nil {
		diagnostics = append(diagnostics, diagnose(SourceExactMatch, exactErr))
		o.cfg.Logger.Warn("exact match failed", "error", exactErr)
	}
	if vectorErr != nil {
		diagnostics = append(diagnostics, diagnose(SourceVectorSimilarity, vectorErr))
		o.cfg.Logger.Warn("vector similarity failed", "error", vectorErr)
	}
	if pprErr != nil {
		diagnostics = append(diagnostics, diagnose(SourcePPRTraversal, pprErr))
		o.cfg.Logger.Warn("ppr traversal failed", "error", pprErr)
	}

	return bySource, diagnostics
}

// diagnose classifies an absorbed Phase B error into the closed taxonomy:
// deadline and cancellation are surfaced as such, anything else a
// retrieval path reports is a failed external collaborator.
func diagnose(source Source, err error) Diagnostic {
	kind := Dependency
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = Timeout
	case errors.Is(err, context.Canceled):
		kind = Cancelled
	}

	return Diagnostic{Source: source, Kind: kind, Message: err.Error()}
}

func ctxError(err error) *Error {
	if err == context.DeadlineExceeded {
		return newError(Timeout, "deadline exceeded", err)
	}

	return newError(Cancelled, "context cancelled", err)
}

// failedEnvelope pairs a completely failed query's error with the
// envelope the query API still owes the caller: Success false, the error
// kind, and a message, never a stack trace.
func failedEnvelope(queryID string, e *Error) (*Envelope, error) {
	return &Envelope{
		QueryID:      queryID,
		ErrorKind:    e.Kind.String(),
		ErrorMessage: e.Message,
	}, e
}
