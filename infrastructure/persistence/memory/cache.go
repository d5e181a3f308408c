package memory

import (
	"context"
	"sync"
	"time"
)

// TTLCache provides a simple in-memory cache with per-entry expiry. It backs
// the packaged-archive cache so repeated downloads of the same project do
// not rebuild the ZIP.
type TTLCache struct {
	mu    sync.RWMutex
	items map[string]cacheItem
	stop  chan struct{}
	once  sync.Once
}

type cacheItem struct {
	value     interface{}
	expiresAt time.Time
}

// NewTTLCache creates a cache whose sweeper runs at the given interval.
// A non-positive interval falls back to one minute.
func NewTTLCache(sweepInterval time.Duration) *TTLCache {
	if sweepInterval <= 0 {
		sweepInterval = time.Minute
	}

	cache := &TTLCache{
		items: make(map[string]cacheItem),
		stop:  make(chan struct{}),
	}
	go cache.sweep(sweepInterval)
	return cache
}

// Get retrieves a value from cache
func (c *TTLCache) Get(ctx context.Context, key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, exists := c.items[key]
	if !exists {
		return nil, false
	}
	if time.Now().After(item.expiresAt) {
		return nil, false
	}
	return item.value, true
}

// Set stores a value in cache with TTL in seconds
func (c *TTLCache) Set(ctx context.Context, key string, value interface{}, ttl int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = cacheItem{
		value:     value,
		expiresAt: time.Now().Add(time.Duration(ttl) * time.Second),
	}
	return nil
}

// Delete removes a value from cache
func (c *TTLCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
	return nil
}

// Clear removes all values from cache
func (c *TTLCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]cacheItem)
	return nil
}

// Stop ends the background sweeper. Safe to call more than once.
func (c *TTLCache) Stop() {
	c.once.Do(func() { close(c.stop) })
}

// sweep periodically removes expired items
func (c *TTLCache) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, item := range c.items {
				if now.After(item.expiresAt) {
					delete(c.items, key)
				}
			}
			c.mu.Unlock()
		case <-c.stop:
			return
		}
	}
}
