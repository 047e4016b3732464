package vectorindex

// Options holds the construction-time parameters of an Index, persisted
// verbatim in the sidecar file.
type Options struct {
	Dimension      int
	MaxElements    int
	M              int
	EfConstruction int
	EfSearch       int
	Seed           int64
}

// DefaultOptions returns the default HNSW tuning, with only
// Dimension left to the caller.
func DefaultOptions(dimension int) Options {
	return Options{
		Dimension:      dimension,
		MaxElements:    100000,
		M:              16,
		EfConstruction: 200,
		EfSearch:       50,
		Seed:           42,
	}
}

// Option configures an Index's Options via functional arguments.
type Option func(*Options)

// WithMaxElements sets index capacity.
func WithMaxElements(n int) Option {
	return func(o *Options) { o.MaxElements = n }
}

// WithM sets the graph connectivity parameter.
func WithM(m int) Option {
	return func(o *Options) { o.M = m }
}

// WithEfConstruction sets the build-time candidate-list size.
func WithEfConstruction(ef int) Option {
	return func(o *Options) { o.EfConstruction = ef }
}

// WithEfSearch sets the default query-time candidate-list size.
func WithEfSearch(ef int) Option {
	return func(o *Options) { o.EfSearch = ef }
}

// WithSeed sets the PRNG seed driving level assignment.
func WithSeed(seed int64) Option {
	return func(o *Options) { o.Seed = seed }
}
