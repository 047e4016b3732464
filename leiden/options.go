package leiden

import "context"

// Option configures a Run via functional arguments.
type Option func(*config)

type config struct {
	ctx                  context.Context
	seed                 int64
	resolution           float64
	maxIterations        int
	convergenceThreshold float64
	minCommunitySize     int
}

func defaultConfig() config {
	return config{
		ctx:                  context.Background(),
		seed:                 42,
		resolution:           1.0,
		maxIterations:        20,
		convergenceThreshold: 1e-6,
		minCommunitySize:     3,
	}
}

// WithContext attaches a cancellation context checked between outer
// iterations. A cancelled context aborts the run and Run returns ctx.Err().
func WithContext(ctx context.Context) Option {
	return func(c *config) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// WithSeed sets the LCG seed driving phase-1 node visitation order.
func WithSeed(seed int64) Option {
	return func(c *config) { c.seed = seed }
}

// WithResolution sets the resolution parameter of the modularity formula.
// Values above 1.0 favour more, smaller communities.
func WithResolution(r float64) Option {
	return func(c *config) { c.resolution = r }
}

// WithMaxIterations caps the outer local-moving/refine/aggregate loop.
func WithMaxIterations(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxIterations = n
		}
	}
}

// WithConvergenceThreshold sets the minimum modularity improvement between
// outer iterations required to keep going.
func WithConvergenceThreshold(t float64) Option {
	return func(c *config) { c.convergenceThreshold = t }
}

// WithMinCommunitySize sets the post-processing floor below which a
// community is dropped rather than reported.
func WithMinCommunitySize(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.minCommunitySize = n
		}
	}
}
