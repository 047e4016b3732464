package centrality

// Option configures a Betweenness computation via functional arguments.
type Option func(*config)

type config struct {
	skipThreshold     int
	parallelThreshold int
}

func defaultConfig() config {
	return config{
		skipThreshold:     1000,
		parallelThreshold: 64,
	}
}

// WithSkipThreshold sets the node-count above which Betweenness refuses to
// run and instead returns a Result with Skipped true and an empty map.
// n <= 0 disables the guard.
func WithSkipThreshold(n int) Option {
	return func(c *config) { c.skipThreshold = n }
}

// WithParallelThreshold sets the node count above which per-source passes
// are sharded across an errgroup.Group instead of run serially. n <= 0
// forces serial execution regardless of graph size.
func WithParallelThreshold(n int) Option {
	return func(c *config) { c.parallelThreshold = n }
}
