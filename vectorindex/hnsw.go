package vectorindex

import (
	"container/heap"
	"math"
	"sort"
	"time"

	"github.com/danja/semem-sub012/graph"
)

// AddNode inserts uri with vector and metadata, returning its internal id.
// Re-inserting an existing uri is a no-op that returns the existing id.
// Fails with ErrDimensionMismatch if the vector's length does not match
// the index's configured dimension.
func (idx *Index) AddNode(uri string, vector []float32, meta Metadata) (int, error) {
	if len(vector) != idx.opts.Dimension {
		return 0, ErrDimensionMismatch
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if id, ok := idx.uriToID[uri]; ok {
		return id, nil
	}

	norm := normalize(vector)
	id := idx.nextInternalID
	idx.nextInternalID++
	level := idx.assignLevel()

	n := &node{id: id, uri: uri, vector: norm, level: level, neighbors: make([][]int, level+1)}
	idx.nodes = append(idx.nodes, n)
	idx.uriToID[uri] = id
	idx.idToURI[id] = uri
	idx.metadata[id] = meta
	idx.typeIndex[meta.Type] = append(idx.typeIndex[meta.Type], id)

	if idx.entryPoint == -1 {
		idx.entryPoint = id
		idx.maxLevel = level
		idx.lastIndexTime = time.Now()

		return id, nil
	}

	idx.insert(n)
	if level > idx.maxLevel {
		idx.entryPoint = id
		idx.maxLevel = level
	}
	idx.lastIndexTime = time.Now()

	return id, nil
}

// AddBatch inserts records best-effort: a per-record failure (dimension
// mismatch) is skipped, and successful ids are returned in input order
// with gaps omitted.
func (idx *Index) AddBatch(records []Record) []int {
	ids := make([]int, 0, len(records))
	for _, r := range records {
		id, err := idx.AddNode(r.URI, r.Vector, r.Metadata)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	return ids
}

// Remove tombstones uri: its metadata and side-index entries are dropped,
// but its HNSW graph node is left in place since HNSW does not support
// true deletion. Subsequent Search calls filter
// tombstoned ids out of their candidate list. Returns false if uri is
// unknown.
func (idx *Index) Remove(uri string) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	id, ok := idx.uriToID[uri]
	if !ok {
		return false
	}
	idx.tombstoned[id] = true
	if meta, found := idx.metadata[id]; found {
		ids := idx.typeIndex[meta.Type]
		for i, tid := range ids {
			if tid == id {
				idx.typeIndex[meta.Type] = append(ids[:i], ids[i+1:]...)
				break
			}
		}
	}
	delete(idx.uriToID, uri)
	delete(idx.metadata, id)

	return true
}

// searchOptions configures one Search call.
type searchOptions struct {
	ef         int
	typeFilter map[graph.NodeType]bool
}

// SearchOption configures a Search call via functional arguments.
type SearchOption func(*searchOptions)

// WithEf overrides the index's default efSearch for one call.
func WithEf(ef int) SearchOption {
	return func(o *searchOptions) {
		if ef > 0 {
			o.ef = ef
		}
	}
}

// WithTypeFilter restricts results to the given types, post-filtering
// after the ANN call.
func WithTypeFilter(types ...graph.NodeType) SearchOption {
	return func(o *searchOptions) {
		if len(types) == 0 {
			return
		}
		o.typeFilter = make(map[graph.NodeType]bool, len(types))
		for _, t := range types {
			o.typeFilter[t] = true
		}
	}
}

// Search returns up to k records in decreasing similarity (1 − cosine
// distance). Returns ErrDimensionMismatch if query's length does not
// match the index dimension, or an empty list if the index has no live
// nodes.
func (idx *Index) Search(query []float32, k int, opts ...SearchOption) ([]SearchResult, error) {
	if len(query) != idx.opts.Dimension {
		return nil, ErrDimensionMismatch
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	start := time.Now()
	defer idx.recordSearch(start)

	if idx.entryPoint == -1 {
		return nil, nil
	}

	so := searchOptions{ef: idx.opts.EfSearch}
	for _, opt := range opts {
		opt(&so)
	}

	fetchK := k
	if so.typeFilter != nil {
		fetchK = k * 4
		if fetchK < so.ef {
			fetchK = so.ef
		}
	}
	if fetchK < 1 {
		fetchK = 1
	}

	q := normalize(query)
	candidates := idx.searchLayerAware(q, fetchK, so.ef)

	results := make([]SearchResult, 0, k)
	for _, c := range candidates {
		if idx.tombstoned[c.id] {
			continue
		}
		meta, ok := idx.metadata[c.id]
		if !ok {
			continue
		}
		if so.typeFilter != nil && !so.typeFilter[meta.Type] {
			continue
		}
		results = append(results, SearchResult{
			URI:      idx.idToURI[c.id],
			Type:     meta.Type,
			Content:  meta.Content,
			Score:    1 - c.distance,
			Metadata: meta,
		})
		if len(results) == k {
			break
		}
	}

	return results, nil
}

// SearchByTypes calls Search once per type with that type's filter set,
// returning kPerType results for each.
func (idx *Index) SearchByTypes(query []float32, types []graph.NodeType, kPerType int) (map[graph.NodeType][]SearchResult, error) {
	out := make(map[graph.NodeType][]SearchResult, len(types))
	for _, t := range types {
		res, err := idx.Search(query, kPerType, WithTypeFilter(t))
		if err != nil {
			return nil, err
		}
		out[t] = res
	}

	return out, nil
}

// FindSimilar looks up uri's stored vector and calls Search, excluding the
// reference node itself from the results.
func (idx *Index) FindSimilar(uri string, k int, opts ...SearchOption) ([]SearchResult, error) {
	idx.mu.RLock()
	id, ok := idx.uriToID[uri]
	var vec []float32
	if ok {
		if n := idx.nodeByID(id); n != nil {
			vec = n.vector
		}
	}
	idx.mu.RUnlock()
	if !ok || vec == nil {
		return nil, ErrNotFound
	}

	res, err := idx.Search(vec, k+1, opts...)
	if err != nil {
		return nil, err
	}
	out := make([]SearchResult, 0, k)
	for _, r := range res {
		if r.URI == uri {
			continue
		}
		out = append(out, r)
		if len(out) == k {
			break
		}
	}

	return out, nil
}

// Stats reports aggregate index statistics.
func (idx *Index) Stats() Stats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.statsLocked()
}

func (idx *Index) recordSearch(start time.Time) {
	idx.searchCount.Add(1)
	idx.totalSearchMicros.Add(time.Since(start).Microseconds())
}

func (idx *Index) assignLevel() int {
	r := idx.gen.Float64()
	if r <= 0 {
		r = 1e-12
	}

	return int(-math.Log(r) * idx.mL)
}

func (idx *Index) nodeByID(id int) *node {
	// Internal ids are assigned densely starting at 0 and idx.nodes is
	// append-only, so id is also its slice index.
	if id < 0 || id >= len(idx.nodes) {
		return nil
	}

	return idx.nodes[id]
}

// candidate is one scored node during graph traversal.
type candidate struct {
	id       int
	distance float64 // cosine distance = 1 - dot(normalised vectors)
}

// insert links n into every layer from min(n.level, maxLevel) down to 0,
// following the standard HNSW construction algorithm.
func (idx *Index) insert(n *node) {
	ep := idx.entryPoint
	curDist := cosineDistance(n.vector, idx.nodeByID(ep).vector)

	for l := idx.maxLevel; l > n.level; l-- {
		ep, curDist = idx.greedyDescend(n.vector, ep, curDist, l)
	}

	maxMForLayer := func(l int) int {
		if l == 0 {
			return idx.opts.M * 2
		}

		return idx.opts.M
	}

	for l := min(n.level, idx.maxLevel); l >= 0; l-- {
		found := idx.searchLayer(n.vector, ep, idx.opts.EfConstruction, l)
		selected := selectNeighbors(found, maxMForLayer(l))
		n.neighbors[l] = idsOf(selected)

		for _, c := range selected {
			other := idx.nodeByID(c.id)
			if other == nil || l >= len(other.neighbors) {
				continue
			}
			other.neighbors[l] = append(other.neighbors[l], n.id)
			if len(other.neighbors[l]) > maxMForLayer(l) {
				other.neighbors[l] = prune(idx, other, l, maxMForLayer(l))
			}
		}

		if len(found) > 0 {
			ep = found[0].id
		}
	}
}

func prune(idx *Index, n *node, layer, maxM int) []int {
	cands := make([]candidate, 0, len(n.neighbors[layer]))
	for _, id := range n.neighbors[layer] {
		other := idx.nodeByID(id)
		if other == nil {
			continue
		}
		cands = append(cands, candidate{id: id, distance: cosineDistance(n.vector, other.vector)})
	}
	selected := selectNeighbors(cands, maxM)

	return idsOf(selected)
}

// greedyDescend walks a single-connection greedy search at layer l,
// starting from (epID, epDist), used to find the entry point for the
// layer below.
func (idx *Index) greedyDescend(query []float32, epID int, epDist float64, l int) (int, float64) {
	improved := true
	for improved {
		improved = false
		cur := idx.nodeByID(epID)
		if cur == nil || l >= len(cur.neighbors) {
			break
		}
		for _, nid := range cur.neighbors[l] {
			other := idx.nodeByID(nid)
			if other == nil {
				continue
			}
			d := cosineDistance(query, other.vector)
			if d < epDist {
				epDist = d
				epID = nid
				improved = true
			}
		}
	}

	return epID, epDist
}

// searchLayer runs the standard HNSW candidate-expansion search at one
// layer, returning up to ef nearest candidates sorted ascending by
// distance.
func (idx *Index) searchLayer(query []float32, epID int, ef, layer int) []candidate {
	visited := map[int]bool{epID: true}
	epDist := cosineDistance(query, idx.nodeByID(epID).vector)

	candHeap := &minHeap{{id: epID, distance: epDist}}
	heap.Init(candHeap)
	resultHeap := &maxHeap{{id: epID, distance: epDist}}
	heap.Init(resultHeap)

	for candHeap.Len() > 0 {
		c := heap.Pop(candHeap).(candidate)
		if c.distance > (*resultHeap)[0].distance && resultHeap.Len() >= ef {
			break
		}
		cur := idx.nodeByID(c.id)
		if cur == nil || layer >= len(cur.neighbors) {
			continue
		}
		for _, nid := range cur.neighbors[layer] {
			if visited[nid] {
				continue
			}
			visited[nid] = true
			other := idx.nodeByID(nid)
			if other == nil {
				continue
			}
			d := cosineDistance(query, other.vector)
			if resultHeap.Len() < ef || d < (*resultHeap)[0].distance {
				heap.Push(candHeap, candidate{id: nid, distance: d})
				heap.Push(resultHeap, candidate{id: nid, distance: d})
				if resultHeap.Len() > ef {
					heap.Pop(resultHeap)
				}
			}
		}
	}

	out := make([]candidate, resultHeap.Len())
	copy(out, *resultHeap)
	sort.Slice(out, func(i, j int) bool { return out[i].distance < out[j].distance })

	return out
}

// searchLayerAware performs the full multi-level HNSW query path: greedy
// single-connection descent through the upper layers, then an ef-bounded
// expansion at layer 0, widened to fetchK when the caller needs more
// headroom for post-filtering.
func (idx *Index) searchLayerAware(query []float32, fetchK, ef int) []candidate {
	ep := idx.entryPoint
	epDist := cosineDistance(query, idx.nodeByID(ep).vector)

	for l := idx.maxLevel; l > 0; l-- {
		ep, epDist = idx.greedyDescend(query, ep, epDist, l)
	}

	width := ef
	if fetchK > width {
		width = fetchK
	}

	return idx.searchLayer(query, ep, width, 0)
}

func selectNeighbors(cands []candidate, m int) []candidate {
	sort.Slice(cands, func(i, j int) bool { return cands[i].distance < cands[j].distance })
	if len(cands) > m {
		cands = cands[:m]
	}

	return cands
}

func idsOf(cands []candidate) []int {
	ids := make([]int, len(cands))
	for i, c := range cands {
		ids[i] = c.id
	}

	return ids
}

func normalize(v []float32) []float32 {
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	if sumSq == 0 {
		out := make([]float32, len(v))
		copy(out, v)

		return out
	}
	norm := float32(math.Sqrt(sumSq))
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = x / norm
	}

	return out
}

// cosineDistance assumes both vectors are already L2-normalised, so cosine
// similarity reduces to a dot product.
func cosineDistance(a, b []float32) float64 {
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}

	return 1 - dot
}

// minHeap orders candidates ascending by distance (a priority queue of
// "closest unexplored").
type minHeap []candidate

func (h minHeap) Len() int            { return len(h) }
func (h minHeap) Less(i, j int) bool  { return h[i].distance < h[j].distance }
func (h minHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x interface{}) { *h = append(*h, x.(candidate)) }
func (h *minHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]

	return item
}

// maxHeap orders candidates descending by distance (a bounded "current
// best ef results" set whose worst member sits at the root for eviction).
type maxHeap []candidate

func (h maxHeap) Len() int            { return len(h) }
func (h maxHeap) Less(i, j int) bool  { return h[i].distance > h[j].distance }
func (h maxHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *maxHeap) Push(x interface{}) { *h = append(*h, x.(candidate)) }
func (h *maxHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]

	return item
}
