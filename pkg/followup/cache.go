// Package followup decides whether a question continues the previous
// turn's context, and owns the per-user context cache that makes that
// possible.
package followup

import (
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/oreline/oreline-engine/pkg/models"
)

// DefaultContextTTL is how long a turn's context stays inheritable.
const DefaultContextTTL = 5 * time.Minute

// ContextCache stores the last completed turn per user. It is the one
// piece of process-wide mutable state in the pipeline: one record per
// user, last-write-wins, expiry checked on read. Concurrent turns for
// the same user are not ordered; the last Set physically wins and the
// other turn's update is lost. That race is accepted, not guarded.
type ContextCache struct {
	cache *ttlcache.Cache[string, models.QuickContext]
}

// NewContextCache builds a cache with the given TTL (DefaultContextTTL
// when zero). No eviction goroutine is started; ttlcache checks expiry
// on every read, which is all the contract requires.
func NewContextCache(ttl time.Duration) *ContextCache {
	if ttl <= 0 {
		ttl = DefaultContextTTL
	}
	return &ContextCache{
		cache: ttlcache.New(
			ttlcache.WithTTL[string, models.QuickContext](ttl),
			ttlcache.WithDisableTouchOnHit[string, models.QuickContext](),
		),
	}
}

// Get returns the cached context for a user, or false when none exists
// or it has expired. A miss and an expiry are the same condition.
func (c *ContextCache) Get(userID string) (models.QuickContext, bool) {
	item := c.cache.Get(userID)
	if item == nil {
		return models.QuickContext{}, false
	}
	return item.Value(), true
}

// Set overwrites the user's context. The previous record, if any, is
// dropped; no history is retained.
func (c *ContextCache) Set(qc models.QuickContext) {
	c.cache.Set(qc.UserID, qc, ttlcache.DefaultTTL)
}

// Clear removes a user's context, e.g. on an explicit conversation reset.
func (c *ContextCache) Clear(userID string) {
	c.cache.Delete(userID)
}
