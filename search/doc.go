// Package search implements the dual-search orchestrator: it turns free
// text into a ranked result envelope by running exact label matching,
// vector similarity, and personalized-PageRank graph traversal in
// parallel, then fusing their scores. Collaborators (a triple store, an
// embedder, an LLM, a vector index) are injected once at construction via
// Config; Orchestrator holds no process-global state.
package search
