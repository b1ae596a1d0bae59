package views

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Cache remembers (portfolio, address) pairs already counted in the current
// window so repeat views skip the database.
type Cache interface {
	Seen(ctx context.Context, portfolioID, clientAddress string) (bool, error)
	Remember(ctx context.Context, portfolioID, clientAddress string, ttl time.Duration) error
	Forget(ctx context.Context, portfolioID string) error
}

func cacheKey(portfolioID, clientAddress string) string {
	return "views:seen:" + portfolioID + ":" + clientAddress
}

func cachePrefix(portfolioID string) string {
	return "views:seen:" + portfolioID + ":"
}

// MemoryCache is an in-process Cache with per-key expiry.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryCache constructs a MemoryCache. now defaults to time.Now.
func NewMemoryCache(now func() time.Time) *MemoryCache {
	if now == nil {
		now = time.Now
	}
	return &MemoryCache{entries: make(map[string]time.Time), now: now}
}

func (c *MemoryCache) Seen(ctx context.Context, portfolioID, clientAddress string) (bool, error) {
	key := cacheKey(portfolioID, clientAddress)
	c.mu.Lock()
	defer c.mu.Unlock()
	exp, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	if !c.now().Before(exp) {
		delete(c.entries, key)
		return false, nil
	}
	return true, nil
}

func (c *MemoryCache) Remember(ctx context.Context, portfolioID, clientAddress string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(portfolioID, clientAddress)] = c.now().Add(ttl)
	return nil
}

func (c *MemoryCache) Forget(ctx context.Context, portfolioID string) error {
	prefix := cachePrefix(portfolioID)
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

var _ Cache = (*MemoryCache)(nil)
