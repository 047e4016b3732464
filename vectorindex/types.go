package vectorindex

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/danja/semem-sub012/graph"
	"github.com/danja/semem-sub012/rng"
)

// Metadata is the caller-supplied record attached to an indexed vector.
// Type is mandatory; Content is an optional snippet surfaced in search
// results.
type Metadata struct {
	Type      graph.NodeType
	Content   string
	Timestamp time.Time
}

// Record is one AddBatch input: a uri, its vector, and its metadata.
type Record struct {
	URI      string
	Vector   []float32
	Metadata Metadata
}

// SearchResult is one ranked hit from Search/SearchByTypes/FindSimilar.
type SearchResult struct {
	URI      string
	Type     graph.NodeType
	Content  string
	Score    float64
	Metadata Metadata
}

// Stats mirrors the sidecar's stats block.
type Stats struct {
	TotalNodes          int
	PerType             map[graph.NodeType]int
	LastIndexTime       time.Time
	SearchCount         int64
	AvgSearchTimeMicros float64
}

// node is one internal HNSW graph vertex.
type node struct {
	id        int
	uri       string
	vector    []float32 // L2-normalised at insertion time
	level     int
	neighbors [][]int // neighbors[l] holds this node's links at layer l
}

// Index is a persistent HNSW approximate-nearest-neighbour index over
// fixed-length vectors, with a type-tagged side index for filtered search.
// Reads are concurrent; AddNode/AddBatch/Remove take an exclusive lock.
type Index struct {
	mu sync.RWMutex

	opts Options
	gen  *rng.LCG
	mL   float64

	nodes          []*node
	uriToID        map[string]int
	idToURI        map[int]string
	metadata       map[int]Metadata
	typeIndex      map[graph.NodeType][]int
	tombstoned     map[int]bool
	nextInternalID int
	entryPoint     int
	maxLevel       int

	// Search-time counters are atomics: Search runs under the read lock,
	// so concurrent readers may bump them simultaneously.
	searchCount       atomic.Int64
	totalSearchMicros atomic.Int64
	lastIndexTime     time.Time
}

// New constructs an empty Index for the given dimension.
func New(dimension int, opts ...Option) *Index {
	o := DefaultOptions(dimension)
	for _, opt := range opts {
		opt(&o)
	}

	return &Index{
		opts:       o,
		gen:        rng.NewLCG(o.Seed),
		mL:         1.0 / logM(o.M),
		uriToID:    make(map[string]int),
		idToURI:    make(map[int]string),
		metadata:   make(map[int]Metadata),
		typeIndex:  make(map[graph.NodeType][]int),
		tombstoned: make(map[int]bool),
		entryPoint: -1,
		maxLevel:   -1,
	}
}

func logM(m int) float64 {
	if m < 2 {
		m = 2
	}

	return math.Log(float64(m))
}
