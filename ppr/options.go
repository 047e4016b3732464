package ppr

import "context"

// Option configures a Run via functional arguments.
type Option func(*config)

type config struct {
	ctx                  context.Context
	alpha                float64
	maxIterations        int
	convergenceThreshold float64
	topKPerType          int
	symmetricWalk        bool
}

func defaultConfig() config {
	return config{
		ctx:                  context.Background(),
		alpha:                0.15,
		maxIterations:        50,
		convergenceThreshold: 1e-6,
		topKPerType:          5,
		symmetricWalk:        true,
	}
}

// WithContext attaches a cancellation context checked between power
// iterations. A cancelled context aborts the run and Run returns ctx.Err().
func WithContext(ctx context.Context) Option {
	return func(c *config) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// WithAlpha sets the teleport probability.
func WithAlpha(a float64) Option {
	return func(c *config) { c.alpha = a }
}

// WithMaxIterations caps the power-iteration loop. Shallow passes 2,
// Deep passes 10; the default of 50 applies when neither is requested.
func WithMaxIterations(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxIterations = n
		}
	}
}

// Shallow bounds iteration for interactive, low-latency queries.
func Shallow() Option { return WithMaxIterations(2) }

// Deep bounds iteration for offline exploration runs.
func Deep() Option { return WithMaxIterations(10) }

// WithConvergenceThreshold sets the ℓ∞ convergence bound.
func WithConvergenceThreshold(t float64) Option {
	return func(c *config) { c.convergenceThreshold = t }
}

// WithTopKPerType sets how many ranked entries PerType keeps for each
// graph.NodeType.
func WithTopKPerType(k int) Option {
	return func(c *config) {
		if k > 0 {
			c.topKPerType = k
		}
	}
}

// WithSymmetricWalk controls whether the transition matrix is built from
// the mirrored/symmetric adjacency (default true) or from the graph's own
// directed out-edges.
func WithSymmetricWalk(v bool) Option {
	return func(c *config) { c.symmetricWalk = v }
}
