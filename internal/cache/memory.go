package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is a concurrency-safe in-memory TTL cache. Expired entries are
// reclaimed by a periodic rebuild so a long-lived process does not hold the
// high-water map forever.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	stop    chan struct{}
}

// NewMemoryCache creates a cache with a background cleanup goroutine.
func NewMemoryCache() *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]entry),
		stop:    make(chan struct{}),
	}
	go c.cleanup()
	return c
}

// Get returns the cached value if present and not expired.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set stores a value with the given TTL. Concurrent writers to the same key
// are last-write-wins.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

// Close stops the cleanup goroutine.
func (c *MemoryCache) Close() {
	close(c.stop)
}

func (c *MemoryCache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			fresh := make(map[string]entry, len(c.entries)/2)
			for k, v := range c.entries {
				if now.Before(v.expiresAt) {
					fresh[k] = v
				}
			}
			c.entries = fresh
			c.mu.Unlock()
		case <-c.stop:
			return
		}
	}
}
