package search

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// responseCache is the bounded, TTL-evicting response cache in front of
// Query. It sits around the state machine,
// not inside it: a hit skips Phase A/B/C entirely.
type responseCache struct {
	c   *ristretto.Cache[string, *Envelope]
	ttl time.Duration
}

func newResponseCache(ttl time.Duration) *responseCache {
	c, err := ristretto.NewCache(&ristretto.Config[string, *Envelope]{
		NumCounters: 1e4,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		// A cache that can never be constructed (bad counters/cost
		// config) is a programmer error, not a runtime condition; fall
		// back to "no cache" rather than panicking the orchestrator.
		return &responseCache{ttl: ttl}
	}

	return &responseCache{c: c, ttl: ttl}
}

func (rc *responseCache) get(key string) (*Envelope, bool) {
	if rc == nil || rc.c == nil {
		return nil, false
	}

	return rc.c.Get(key)
}

func (rc *responseCache) put(key string, env *Envelope) {
	if rc == nil || rc.c == nil || rc.ttl <= 0 {
		return
	}
	rc.c.SetWithTTL(key, env, 1, rc.ttl)
	rc.c.Wait()
}

// cacheKey fingerprints the normalized query text together with the
// fusion weights, so a reconfigured Orchestrator never serves a stale
// fusion from a previous weight set.
func cacheKey(text string, exactW, vectorW, pprW float64) string {
	return fmt.Sprintf("%s|%.6f|%.6f|%.6f", normalizeQueryText(text), exactW, vectorW, pprW)
}
