package datasource

import (
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// ResponseCache is a TTL cache for provider responses, keyed by request URL.
// Standings and fixture lists change slowly, so repeated scans within the TTL
// reuse the cached payload instead of burning API quota.
type ResponseCache struct {
	cache *gocache.Cache
}

// NewResponseCache creates a cache with the given TTL
func NewResponseCache(ttl time.Duration) *ResponseCache {
	return &ResponseCache{
		cache: gocache.New(ttl, 2*ttl),
	}
}

// Set stores a response payload under the request URL. Payloads are stored as
// JSON so callers get an independent copy on every Get.
func (c *ResponseCache) Set(key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.cache.Set(key, data, gocache.DefaultExpiration)
}

// Get retrieves a cached payload into out. Returns false on a miss.
func (c *ResponseCache) Get(key string, out interface{}) bool {
	entry, found := c.cache.Get(key)
	if !found {
		return false
	}
	data, ok := entry.([]byte)
	if !ok {
		return false
	}
	return json.Unmarshal(data, out) == nil
}

// Flush removes all cached entries
func (c *ResponseCache) Flush() {
	c.cache.Flush()
}
