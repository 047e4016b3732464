package search

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/danja/semem-sub012/telemetry"
)

var tracer = telemetry.Tracer("github.com/danja/semem-sub012/search")

var queryCounter, cacheHitCounter = newCounters()

func newCounters() (metric.Int64Counter, metric.Int64Counter) {
	meter := telemetry.Meter("github.com/danja/semem-sub012/search")
	// Errors here only occur against a misconfigured MeterProvider; the
	// global provider is no-op absent an exporter, so a nil counter
	// (guarded at each call site) is the only fallback needed.
	queries, _ := meter.Int64Counter("search.queries", metric.WithDescription("Total Query calls"))
	hits, _ := meter.Int64Counter("search.cache_hits", metric.WithDescription("Query calls served from the response cache"))

	return queries, hits
}

func startQuerySpan(ctx context.Context, queryID, text string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "search.Query", trace.WithAttributes(
		attribute.String("query.id", queryID),
		attribute.Int("query.length", len(text)),
	))
}

func incrQueryCounter(ctx context.Context) {
	if queryCounter != nil {
		queryCounter.Add(ctx, 1)
	}
}

func incrCacheHitCounter(ctx context.Context) {
	if cacheHitCounter != nil {
		cacheHitCounter.Add(ctx, 1)
	}
}
