package database

import (
	"context"
	"sync"
	"time"
)

// MemoryPosterCache keeps resolved poster URLs in process when Redis is not configured.
// It holds at most maxEntries posters; expired entries are dropped first, then the oldest.
type MemoryPosterCache struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

type memoryEntry struct {
	url     string
	expires time.Time
}

// NewMemoryPosterCache creates an in-process poster cache
func NewMemoryPosterCache(ttl time.Duration, maxEntries int) *MemoryPosterCache {
	if ttl == 0 {
		ttl = 7 * 24 * time.Hour
	}
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &MemoryPosterCache{
		entries:    make(map[string]memoryEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// GetPoster returns a cached poster URL. A cached miss is found with an empty URL.
func (c *MemoryPosterCache) GetPoster(ctx context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return "", false, nil
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, key)
		return "", false, nil
	}
	return e.url, true, nil
}

// SetPoster caches a poster URL, including an empty URL for titles without artwork
func (c *MemoryPosterCache) SetPoster(ctx context.Context, key, url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.maxEntries {
		c.evict(now)
	}
	c.entries[key] = memoryEntry{url: url, expires: now.Add(c.ttl)}
	return nil
}

// Len returns the number of cached entries, expired or not
func (c *MemoryPosterCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evict drops expired entries, or the entry closest to expiry if none have expired.
// Callers hold c.mu.
func (c *MemoryPosterCache) evict(now time.Time) {
	var oldestKey string
	var oldest time.Time
	for k, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, k)
			continue
		}
		if oldestKey == "" || e.expires.Before(oldest) {
			oldestKey, oldest = k, e.expires
		}
	}
	if len(c.entries) >= c.maxEntries && oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
