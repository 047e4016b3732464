package vectorindex

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/danja/semem-sub012/graph"
)

// indexMagic identifies the graph file's binary format. Modelled on the
// header/section/CRC32 shape of a typical HNSW implementation's native
// on-disk layout.
const indexMagic = "SMMVIDX1"

const formatVersion uint32 = 1

type fileHeader struct {
	Magic      [8]byte
	Version    uint32
	NodeCount  uint32
	Dimension  uint32
	MaxLevel   int32
	EntryPoint int32
	BodySize   uint64
	CRC32      uint32
}

const headerSize = 8 + 4 + 4 + 4 + 4 + 4 + 8 + 4

// Save persists the HNSW graph to indexPath in its native binary form and
// writes the id/uri/type/stats bookkeeping to metadataPath as a
// yaml-encoded sidecar document.
func (idx *Index) Save(indexPath, metadataPath string) error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	body, err := idx.encodeBody()
	if err != nil {
		return err
	}
	header := fileHeader{
		Version:    formatVersion,
		NodeCount:  uint32(len(idx.nodes)),
		Dimension:  uint32(idx.opts.Dimension),
		MaxLevel:   int32(idx.maxLevel),
		EntryPoint: int32(idx.entryPoint),
		BodySize:   uint64(len(body)),
		CRC32:      crc32.ChecksumIEEE(body),
	}
	copy(header.Magic[:], indexMagic)

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, header); err != nil {
		return err
	}
	buf.Write(body)
	if err := os.WriteFile(indexPath, buf.Bytes(), 0o644); err != nil {
		return err
	}

	sc := idx.toSidecar()
	out, err := yaml.Marshal(sc)
	if err != nil {
		return err
	}

	return os.WriteFile(metadataPath, out, 0o644)
}

// Load reconstructs an Index from files previously written by Save.
// Returns ErrIndexCorrupt if the graph file's magic, version, body size or
// CRC32 check fails, or if the sidecar's recorded dimension or node count
// (nextInternalId) disagrees with the graph file's header.
func Load(indexPath, metadataPath string) (*Index, error) {
	rawIndex, err := os.ReadFile(indexPath)
	if err != nil {
		return nil, err
	}
	rawMeta, err := os.ReadFile(metadataPath)
	if err != nil {
		return nil, err
	}

	if len(rawIndex) < headerSize {
		return nil, ErrIndexCorrupt
	}
	var header fileHeader
	if err := binary.Read(bytes.NewReader(rawIndex[:headerSize]), binary.LittleEndian, &header); err != nil {
		return nil, ErrIndexCorrupt
	}
	if string(header.Magic[:]) != indexMagic || header.Version > formatVersion {
		return nil, ErrIndexCorrupt
	}
	body := rawIndex[headerSize:]
	if uint64(len(body)) != header.BodySize || crc32.ChecksumIEEE(body) != header.CRC32 {
		return nil, ErrIndexCorrupt
	}

	var sc sidecarDoc
	if err := yaml.Unmarshal(rawMeta, &sc); err != nil {
		return nil, ErrIndexCorrupt
	}
	if sc.Options.Dimension != int(header.Dimension) || sc.NextInternalID != int(header.NodeCount) {
		return nil, ErrIndexCorrupt
	}

	idx := New(sc.Options.Dimension,
		WithMaxElements(sc.Options.MaxElements),
		WithM(sc.Options.M),
		WithEfConstruction(sc.Options.EfConstruction),
		WithEfSearch(sc.Options.EfSearch),
		WithSeed(sc.Options.Seed),
	)
	idx.nextInternalID = sc.NextInternalID
	idx.entryPoint = int(header.EntryPoint)
	idx.maxLevel = int(header.MaxLevel)
	idx.lastIndexTime = sc.Stats.LastIndexTime
	idx.searchCount.Store(sc.Stats.SearchCount)
	idx.totalSearchMicros.Store(int64(sc.Stats.AvgSearchTimeMicros * float64(sc.Stats.SearchCount)))

	if err := idx.decodeBody(body, int(header.NodeCount)); err != nil {
		return nil, ErrIndexCorrupt
	}

	idToMeta := make(map[int]metadataDoc, len(sc.Metadata))
	for _, m := range sc.Metadata {
		idToMeta[m.ID] = m
	}
	for _, pair := range sc.URIToID {
		idx.uriToID[pair.URI] = pair.ID
		idx.idToURI[pair.ID] = pair.URI
		if m, ok := idToMeta[pair.ID]; ok {
			idx.metadata[pair.ID] = Metadata{
				Type:      typeFromString(m.Type),
				Content:   m.Content,
				Timestamp: m.Timestamp,
			}
		}
	}
	for t, ids := range sc.TypeIndex {
		idx.typeIndex[typeFromString(t)] = ids
	}
	// Any node present in the graph file but absent from uriToId was
	// removed after the index was last saved; tombstone it so Search
	// continues to filter it out.
	for _, n := range idx.nodes {
		if _, ok := idx.idToURI[n.id]; !ok {
			idx.tombstoned[n.id] = true
		}
	}

	return idx, nil
}

func (idx *Index) encodeBody() ([]byte, error) {
	var buf bytes.Buffer
	for _, n := range idx.nodes {
		if err := writeString(&buf, n.uri); err != nil {
			return nil, err
		}
		if err := binary.Write(&buf, binary.LittleEndian, int32(n.level)); err != nil {
			return nil, err
		}
		for _, v := range n.vector {
			if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
				return nil, err
			}
		}
		for l := 0; l <= n.level; l++ {
			neighbors := n.neighbors[l]
			if err := binary.Write(&buf, binary.LittleEndian, uint32(len(neighbors))); err != nil {
				return nil, err
			}
			for _, nb := range neighbors {
				if err := binary.Write(&buf, binary.LittleEndian, uint32(nb)); err != nil {
					return nil, err
				}
			}
		}
	}

	return buf.Bytes(), nil
}

func (idx *Index) decodeBody(body []byte, nodeCount int) error {
	r := bytes.NewReader(body)
	idx.nodes = make([]*node, 0, nodeCount)
	for i := 0; i < nodeCount; i++ {
		uri, err := readString(r)
		if err != nil {
			return err
		}
		var level int32
		if err := binary.Read(r, binary.LittleEndian, &level); err != nil {
			return err
		}
		vec := make([]float32, idx.opts.Dimension)
		for d := 0; d < idx.opts.Dimension; d++ {
			if err := binary.Read(r, binary.LittleEndian, &vec[d]); err != nil {
				return err
			}
		}
		neighbors := make([][]int, level+1)
		for l := int32(0); l <= level; l++ {
			var count uint32
			if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
				return err
			}
			layer := make([]int, count)
			for j := range layer {
				var nb uint32
				if err := binary.Read(r, binary.LittleEndian, &nb); err != nil {
					return err
				}
				layer[j] = int(nb)
			}
			neighbors[l] = layer
		}
		idx.nodes = append(idx.nodes, &node{id: i, uri: uri, vector: vec, level: int(level), neighbors: neighbors})
	}

	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	if err := binary.Write(buf, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := buf.WriteString(s)

	return err
}

func readString(r *bytes.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}

	return string(b), nil
}

// sidecarDoc mirrors the yaml sidecar's exact field list.
type sidecarDoc struct {
	Options        optionsDoc       `yaml:"options"`
	NextInternalID int              `yaml:"nextInternalId"`
	URIToID        []uriIDPair      `yaml:"uriToId"`
	Metadata       []metadataDoc    `yaml:"metadata"`
	TypeIndex      map[string][]int `yaml:"typeIndex"`
	Stats          statsDoc         `yaml:"stats"`
}

type optionsDoc struct {
	Dimension      int   `yaml:"dimension"`
	MaxElements    int   `yaml:"maxElements"`
	M              int   `yaml:"M"`
	EfConstruction int   `yaml:"efConstruction"`
	EfSearch       int   `yaml:"efSearch"`
	Seed           int64 `yaml:"seed"`
}

type uriIDPair struct {
	URI string `yaml:"uri"`
	ID  int    `yaml:"id"`
}

type metadataDoc struct {
	ID        int       `yaml:"id"`
	Type      string    `yaml:"type"`
	Content   string    `yaml:"content,omitempty"`
	Timestamp time.Time `yaml:"timestamp"`
}

type statsDoc struct {
	TotalNodes          int            `yaml:"totalNodes"`
	PerType             map[string]int `yaml:"perType"`
	LastIndexTime       time.Time      `yaml:"lastIndexTime"`
	SearchCount         int64          `yaml:"searchCount"`
	AvgSearchTimeMicros float64        `yaml:"avgSearchTimeMicros"`
}

func (idx *Index) toSidecar() sidecarDoc {
	sc := sidecarDoc{
		Options: optionsDoc{
			Dimension:      idx.opts.Dimension,
			MaxElements:    idx.opts.MaxElements,
			M:              idx.opts.M,
			EfConstruction: idx.opts.EfConstruction,
			EfSearch:       idx.opts.EfSearch,
			Seed:           idx.opts.Seed,
		},
		NextInternalID: idx.nextInternalID,
		TypeIndex:      make(map[string][]int, len(idx.typeIndex)),
	}
	for uri, id := range idx.uriToID {
		sc.URIToID = append(sc.URIToID, uriIDPair{URI: uri, ID: id})
	}
	for id, m := range idx.metadata {
		sc.Metadata = append(sc.Metadata, metadataDoc{
			ID:        id,
			Type:      m.Type.String(),
			Content:   m.Content,
			Timestamp: m.Timestamp,
		})
	}
	for t, ids := range idx.typeIndex {
		live := make([]int, 0, len(ids))
		for _, id := range ids {
			if !idx.tombstoned[id] {
				live = append(live, id)
			}
		}
		sc.TypeIndex[t.String()] = live
	}

	stats := idx.statsLocked()
	sc.Stats = statsDoc{
		TotalNodes:          stats.TotalNodes,
		PerType:             make(map[string]int, len(stats.PerType)),
		LastIndexTime:       stats.LastIndexTime,
		SearchCount:         stats.SearchCount,
		AvgSearchTimeMicros: stats.AvgSearchTimeMicros,
	}
	for t, n := range stats.PerType {
		sc.Stats.PerType[t.String()] = n
	}

	return sc
}

// statsLocked computes Stats assuming the caller already holds idx.mu.
func (idx *Index) statsLocked() Stats {
	perType := make(map[graph.NodeType]int, len(idx.typeIndex))
	for t, ids := range idx.typeIndex {
		live := 0
		for _, id := range ids {
			if !idx.tombstoned[id] {
				live++
			}
		}
		perType[t] = live
	}
	count := idx.searchCount.Load()
	avg := 0.0
	if count > 0 {
		avg = float64(idx.totalSearchMicros.Load()) / float64(count)
	}

	return Stats{
		TotalNodes:          len(idx.uriToID),
		PerType:             perType,
		LastIndexTime:       idx.lastIndexTime,
		SearchCount:         count,
		AvgSearchTimeMicros: avg,
	}
}

func typeFromString(s string) graph.NodeType {
	switch s {
	case "Entity":
		return graph.Entity
	case "Relationship":
		return graph.Relationship
	case "Unit":
		return graph.Unit
	case "Attribute":
		return graph.Attribute
	case "CommunityElement":
		return graph.CommunityElement
	case "TextElement":
		return graph.TextElement
	case "Meta":
		return graph.Meta
	default:
		return graph.Unknown
	}
}
