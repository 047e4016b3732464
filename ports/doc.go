// Package ports declares the narrow external-collaborator interfaces the
// search orchestrator depends on: a triple-store query port, an embedding
// port, and an LLM port. Concrete adapters (e.g.
// ports/openaiadapter) live in their own packages so the core never
// imports a specific vendor SDK.
package ports
