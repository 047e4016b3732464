// Package rng provides the single deterministic random source shared by
// community detection and any other algorithm in this module that needs
// reproducible randomness.
//
// Unlike the rest of the module, which may lean on math/rand for
// non-contractual randomness, LCG implements one exact linear-congruential
// generator (constants a=1103515245, c=12345, m=2^31) so that a seeded run
// reproduces identical output across languages and platforms, not just
// across repeated runs of this binary.
//
// Concurrency: *LCG is not safe for concurrent use. Each algorithm instance
// (e.g. one leiden.Run call) owns exactly one *LCG; never share one across
// goroutines.
package rng
