// Package sparql assembles the query shapes the core emits against a
// triple-store query port: a graph-build fetch, an exact
// label lookup, entity-name resolution, and aggregate statistics. It
// renders a Query value describing projections and predicate filters, not
// a raw SPARQL string — the live triple store remains external, and
// callers of the port can log or golden-test exactly what shape was
// requested.
package sparql
