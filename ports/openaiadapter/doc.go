// Package openaiadapter implements ports.Embedder and ports.LLM over a
// real github.com/sashabaranov/go-openai client. It is the concrete
// adapter wired into cmd/semem-core's example main; the search
// orchestrator itself only ever imports the ports interfaces, never this
// package, so it stays swappable for tests or another provider.
package openaiadapter
