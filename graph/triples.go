package graph

import (
	"sort"
	"strconv"
)

// RagnoNamespace is the canonical URI prefix for the closed type-tag
// namespace.
const RagnoNamespace = "http://purl.org/stuff/ragno/"

// Recognised predicates. PredType is intentionally the
// short "rdf:type" form the triple-store port is documented to emit; a real
// triple store would normally emit the fully qualified RDF namespace, but
// the port in this module treats rdf:type as an opaque, already-resolved
// predicate name.
const (
	PredType            = "rdf:type"
	PredHasSourceEntity = RagnoNamespace + "hasSourceEntity"
	PredHasTargetEntity = RagnoNamespace + "hasTargetEntity"
	PredHasWeight       = RagnoNamespace + "hasWeight"
	PredContent         = RagnoNamespace + "content"
	PredSummary         = RagnoNamespace + "summary"
)

// DefaultEdgeWeight is used whenever a relationship's hasWeight object is
// missing or fails to parse as a float.
const DefaultEdgeWeight = 1.0

// Triple is one RDF-shaped (subject, predicate, object) statement.
type Triple struct {
	Subject   string
	Predicate string
	Object    string
}

// TripleIterator streams triples, following the database/sql.Rows idiom:
// call Next until it returns false, reading the current Triple via Triple()
// and checking Err() once iteration ends.
type TripleIterator interface {
	Next() bool
	Triple() Triple
	Err() error
}

// SliceIterator adapts a plain []Triple into a TripleIterator, useful for
// tests and for triple-store ports that already materialize rows.
type SliceIterator struct {
	triples []Triple
	pos     int
}

// NewSliceIterator returns a TripleIterator over the given triples.
func NewSliceIterator(triples []Triple) *SliceIterator {
	return &SliceIterator{triples: triples, pos: -1}
}

// Next implements TripleIterator.
func (s *SliceIterator) Next() bool {
	s.pos++

	return s.pos < len(s.triples)
}

// Triple implements TripleIterator.
func (s *SliceIterator) Triple() Triple { return s.triples[s.pos] }

// Err implements TripleIterator.
func (s *SliceIterator) Err() error { return nil }

// derivedType maps an rdf:type object to a NodeType by checking whether it
// ends with one of the tag names, returning Unknown if none matches. The
// namespace prefix itself is not checked.
func derivedType(object string) NodeType {
	switch {
	case containsSuffix(object, "Entity"):
		return Entity
	case containsSuffix(object, "Relationship"):
		return Relationship
	case containsSuffix(object, "Unit"):
		return Unit
	case containsSuffix(object, "Attribute"):
		return Attribute
	case containsSuffix(object, "CommunityElement"):
		return CommunityElement
	case containsSuffix(object, "TextElement"):
		return TextElement
	case containsSuffix(object, "Meta"):
		return Meta
	default:
		return Unknown
	}
}

func containsSuffix(s, suffix string) bool {
	if len(s) < len(suffix) {
		return false
	}

	return s[len(s)-len(suffix):] == suffix
}

// Build materializes a Graph from a triple stream in two passes: first every
// (node, rdf:type, *) triple is registered as a node; second, every reified
// relationship node (linked via hasSourceEntity/hasTargetEntity) becomes an
// edge between its two endpoints. Both endpoints must already be registered
// as typed nodes; edges referencing an unknown endpoint are dropped and
// counted. Malformed triples are counted, never fatal.
func Build(iter TripleIterator, opts ...BuildOption) (*Graph, error) {
	if iter == nil {
		return nil, ErrNilIterator
	}

	cfg := newBuildConfig(opts...)

	// Buffer the stream: the two-pass contract requires re-scanning, and
	// relationship triples may precede or follow the node-typing triples
	// of their own endpoints in an arbitrary order.
	var triples []Triple
	for iter.Next() {
		triples = append(triples, iter.Triple())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	g := &Graph{
		index:      make(map[string]NodeID),
		undirected: cfg.undirected,
	}

	// Pass 1: node typing + optional content/summary.
	for _, t := range triples {
		switch t.Predicate {
		case PredType:
			g.addNode(t.Subject, derivedType(t.Object))
		case PredContent:
			if id, ok := g.index[t.Subject]; ok {
				g.nodes[id].Content = t.Object
			}
		case PredSummary:
			if id, ok := g.index[t.Subject]; ok {
				g.nodes[id].Summary = t.Object
			}
		}
	}

	// Pass 2: assemble reified relationships into edges.
	type relInfo struct {
		src, tgt string
		weight   float64
		hasSrc   bool
		hasTgt   bool
		hasW     bool
	}
	rels := make(map[string]*relInfo)
	relOf := func(r string) *relInfo {
		ri, ok := rels[r]
		if !ok {
			ri = &relInfo{weight: DefaultEdgeWeight}
			rels[r] = ri
		}

		return ri
	}

	for _, t := range triples {
		switch t.Predicate {
		case PredHasSourceEntity:
			ri := relOf(t.Subject)
			ri.src, ri.hasSrc = t.Object, true
		case PredHasTargetEntity:
			ri := relOf(t.Subject)
			ri.tgt, ri.hasTgt = t.Object, true
		case PredHasWeight:
			ri := relOf(t.Subject)
			if w, err := strconv.ParseFloat(t.Object, 64); err == nil {
				ri.weight = w
			} else {
				ri.weight = DefaultEdgeWeight
				g.malformedTriples++
			}
			ri.hasW = true
		}
	}

	// Emit edges in sorted relationship-URI order so adjacency layout (and
	// therefore every seeded analytics run downstream) is identical across
	// builds of the same triple set.
	relURIs := make([]string, 0, len(rels))
	for relURI := range rels {
		relURIs = append(relURIs, relURI)
	}
	sort.Strings(relURIs)

	for _, relURI := range relURIs {
		ri := rels[relURI]
		if !ri.hasSrc || !ri.hasTgt {
			g.malformedTriples++
			continue
		}
		srcID, srcOK := g.index[ri.src]
		tgtID, tgtOK := g.index[ri.tgt]
		if !srcOK || !tgtOK {
			g.droppedEdges++
			continue
		}
		relID, relOK := g.index[relURI]
		if !relOK {
			relID = noRelation
		}
		g.addEdge(srcID, tgtID, ri.weight, relID)
		if g.undirected {
			g.addEdge(tgtID, srcID, ri.weight, relID)
		}
	}

	cfg.logAdvisory(g)

	return g, nil
}

// addNode inserts a node if missing (idempotent), returning its NodeID.
// Re-inserting an existing URI is a no-op that returns the existing index,
// keeping the URI-to-index mapping a bijection for the life of the graph.
func (g *Graph) addNode(uri string, typ NodeType) NodeID {
	if uri == "" {
		return noRelation
	}
	if id, ok := g.index[uri]; ok {
		return id
	}
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, Node{URI: uri, Type: typ})
	g.adj = append(g.adj, nil)
	g.index[uri] = id

	return id
}

func (g *Graph) addEdge(from, to NodeID, weight float64, relation NodeID) {
	eid := len(g.edges)
	g.edges = append(g.edges, Edge{From: from, To: to, Weight: weight, Relation: relation})
	g.adj[from] = append(g.adj[from], eid)
}
