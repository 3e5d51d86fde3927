package datasource

import (
	"sync/atomic"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/courtside/internal/models"
)

// ResponseCache keeps parsed team logs so repeated fetches skip the provider
type ResponseCache struct {
	cache  *cache.Cache
	ttl    time.Duration
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewResponseCache creates a cache whose entries expire after ttl
func NewResponseCache(ttl time.Duration) *ResponseCache {
	return &ResponseCache{
		cache: cache.New(ttl, ttl*2),
		ttl:   ttl,
	}
}

func cacheKey(team, season string) string {
	return team + ":" + season
}

// Get returns a copy of the cached log
func (rc *ResponseCache) Get(team, season string) ([]models.GameRecord, bool) {
	v, found := rc.cache.Get(cacheKey(team, season))
	if !found {
		rc.misses.Add(1)
		return nil, false
	}
	rc.hits.Add(1)
	records := v.([]models.GameRecord)
	return append([]models.GameRecord(nil), records...), true
}

// Set stores a copy of records
func (rc *ResponseCache) Set(team, season string, records []models.GameRecord) {
	rc.cache.Set(cacheKey(team, season), append([]models.GameRecord(nil), records...), rc.ttl)
}

// Invalidate drops one team's entry
func (rc *ResponseCache) Invalidate(team, season string) {
	rc.cache.Delete(cacheKey(team, season))
}

// Clear flushes the entire cache
func (rc *ResponseCache) Clear() {
	rc.cache.Flush()
	rc.hits.Store(0)
	rc.misses.Store(0)
}

// Stats returns cache statistics
func (rc *ResponseCache) Stats() (hits, misses uint64, ratio float64) {
	hits = rc.hits.Load()
	misses = rc.misses.Load()
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache
func (rc *ResponseCache) ItemCount() int {
	return rc.cache.ItemCount()
}
