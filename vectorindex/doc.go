// Package vectorindex implements a persistent Hierarchical Navigable
// Small World (HNSW) approximate-nearest-neighbour index over fixed-length
// float vectors with cosine similarity and type-aware filtering. The
// on-disk graph file follows a hand-rolled binary layout
// modelled on the header/section/CRC32 shape of a typical HNSW
// implementation's native format; the sidecar (id/uri/type bookkeeping) is
// a yaml.v3-encoded structured document. HNSW does not support true
// deletion: Remove tombstones an id rather than unlinking its graph node,
// and Search filters tombstoned ids out of its candidate list.
package vectorindex
