package vectorindex

import "errors"

// Sentinel errors for the vectorindex package. Callers should use errors.Is.
var (
	// ErrDimensionMismatch is returned when a vector's length does not
	// equal the index's configured dimension.
	ErrDimensionMismatch = errors.New("vectorindex: dimension mismatch")

	// ErrIndexCorrupt is returned when a loaded sidecar's recorded
	// dimension or node count disagrees with the graph file's header, when
	// the sidecar is not valid YAML, or when the graph file fails its
	// header or CRC32 check. The sidecar itself carries no checksum.
	ErrIndexCorrupt = errors.New("vectorindex: index files are corrupt or inconsistent")

	// ErrNotFound is returned when a uri is absent from the index.
	ErrNotFound = errors.New("vectorindex: uri not found")
)
