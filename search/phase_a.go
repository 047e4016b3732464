package search

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/danja/semem-sub012/ports"
)

// entityExtractionTemplate is the fixed prompt sent to the LLM port: it
// asks for a bare JSON array of entity strings so the response can be
// parsed without a larger schema.
const entityExtractionTemplate = "Extract the named entities mentioned in the following query. " +
	"Respond with a JSON array of strings and nothing else."

func normalizeQueryText(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// extractEntities asks the LLM port for a JSON array of entities; on any
// failure (port error, unparsable response) it falls back to the
// heuristic: split on whitespace, keep tokens longer than 2 characters,
// cap at maxEntities.
func extractEntities(ctx context.Context, llm ports.LLM, text string, maxEntities int) ([]string, bool) {
	resp, err := llm.Generate(ctx, entityExtractionTemplate, text, ports.GenerateOptions{})
	if err == nil {
		var entities []string
		if jsonErr := json.Unmarshal([]byte(resp), &entities); jsonErr == nil && len(entities) > 0 {
			if len(entities) > maxEntities {
				entities = entities[:maxEntities]
			}

			return entities, true
		}
	}

	return heuristicEntities(text, maxEntities), false
}

func heuristicEntities(text string, maxEntities int) []string {
	fields := strings.Fields(text)
	out := make([]string, 0, maxEntities)
	for _, f := range fields {
		if len(f) <= 2 {
			continue
		}
		out = append(out, f)
		if len(out) >= maxEntities {
			break
		}
	}

	return out
}

// maxEmbedChars caps the text handed to the embedding port.
const maxEmbedChars = 8000

// embedQuery calls the embedding port on the query text, truncated at the
// port's character cap; a failure proceeds with a nil embedding rather
// than aborting the query.
func embedQuery(ctx context.Context, embedder ports.Embedder, text string) []float32 {
	if runes := []rune(text); len(runes) > maxEmbedChars {
		text = string(runes[:maxEmbedChars])
	}
	vec, err := embedder.Embed(ctx, text)
	if err != nil {
		return nil
	}

	return vec
}

// expand adds naive singular/plural variants for each entity, returning
// the expanded list and whether it actually grew.
func expand(entities []string) ([]string, bool) {
	seen := make(map[string]bool, len(entities)*2)
	out := make([]string, 0, len(entities)*2)
	add := func(s string) {
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		out = append(out, s)
	}

	for _, e := range entities {
		add(e)
		switch {
		case strings.HasSuffix(e, "s") && len(e) > 1:
			add(e[:len(e)-1])
		default:
			add(e + "s")
		}
	}

	return out, len(out) > len(entities)
}

// confidence combines three weighted signals into a deterministic score
// in [0,1].
func confidence(entityCount int, hasEmbedding, expansionGrew bool) float64 {
	score := float64(entityCount) / 3.0 * 0.4
	if score > 0.4 {
		score = 0.4
	}
	if hasEmbedding {
		score += 0.3
	}
	if expansionGrew {
		score += 0.3
	}

	return score
}
