package supabase

import (
	"sync"
	"time"

	"github.com/heartmarshall/emakua-backend/internal/domain"
)

// resourceCache holds the last decoded bundle for a fixed TTL. A zero or
// negative TTL disables caching entirely.
type resourceCache struct {
	mu     sync.RWMutex
	bundle domain.ResourceBundle
	loaded time.Time
	ttl    time.Duration
}

func newResourceCache(ttl time.Duration) *resourceCache {
	return &resourceCache{ttl: ttl}
}

func (c *resourceCache) get() (domain.ResourceBundle, bool) {
	if c.ttl <= 0 {
		return domain.ResourceBundle{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.loaded.IsZero() || time.Since(c.loaded) > c.ttl {
		return domain.ResourceBundle{}, false
	}
	return c.bundle, true
}

func (c *resourceCache) set(bundle domain.ResourceBundle) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.bundle = bundle
	c.loaded = time.Now()
	c.mu.Unlock()
}
