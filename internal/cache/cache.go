// SPDX-License-Identifier: MIT

// Package cache provides a small in-memory string cache with TTL support.
package cache

import (
	"sync"
	"sync/atomic"
	"time"
)

// Cache provides thread-safe caching of string values with expiration.
type Cache interface {
	// Get retrieves a value. The second result is false when the key is absent or expired.
	Get(key string) (string, bool)
	// Set stores a value with the specified TTL. A non-positive TTL never expires.
	Set(key, value string, ttl time.Duration)
	// Delete removes a value from the cache.
	Delete(key string)
	// Clear removes all values from the cache.
	Clear()
	// Stats returns cache statistics.
	Stats() Stats
	// Stop releases background resources.
	Stop()
}

// Stats holds cache performance counters.
type Stats struct {
	Hits        int64
	Misses      int64
	Sets        int64
	Evictions   int64
	CurrentSize int
}

type entry struct {
	value      string
	expiration time.Time
}

func (e *entry) expiredAt(now time.Time) bool {
	return !e.expiration.IsZero() && now.After(e.expiration)
}

type counters struct {
	hits      atomic.Int64
	misses    atomic.Int64
	sets      atomic.Int64
	evictions atomic.Int64
}

type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	stats   counters
	now     func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewMemoryCache creates an in-memory cache. When cleanupInterval is positive a
// janitor goroutine removes expired entries until Stop is called.
func NewMemoryCache(cleanupInterval time.Duration) Cache {
	return newMemoryCache(cleanupInterval, time.Now)
}

func newMemoryCache(cleanupInterval time.Duration, now func() time.Time) *memoryCache {
	c := &memoryCache{
		entries: make(map[string]*entry),
		now:     now,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go c.janitor(cleanupInterval)
	} else {
		close(c.done)
	}
	return c
}

func (c *memoryCache) Get(key string) (string, bool) {
	c.mu.RLock()
	e, found := c.entries[key]
	c.mu.RUnlock()

	if !found || e.expiredAt(c.now()) {
		c.stats.misses.Add(1)
		return "", false
	}
	c.stats.hits.Add(1)
	return e.value, true
}

func (c *memoryCache) Set(key, value string, ttl time.Duration) {
	e := &entry{value: value}
	if ttl > 0 {
		e.expiration = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	c.stats.sets.Add(1)
}

func (c *memoryCache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

func (c *memoryCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*entry)
	c.mu.Unlock()
}

func (c *memoryCache) Stats() Stats {
	c.mu.RLock()
	size := len(c.entries)
	c.mu.RUnlock()

	return Stats{
		Hits:        c.stats.hits.Load(),
		Misses:      c.stats.misses.Load(),
		Sets:        c.stats.sets.Load(),
		Evictions:   c.stats.evictions.Load(),
		CurrentSize: size,
	}
}

// deleteExpired removes expired entries and returns how many were dropped.
func (c *memoryCache) deleteExpired() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for key, e := range c.entries {
		if e.expiredAt(now) {
			delete(c.entries, key)
			count++
		}
	}
	c.stats.evictions.Add(int64(count))
	return count
}

// Stop halts the janitor and waits for it to exit. Safe to call more than once.
func (c *memoryCache) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
	<-c.done
}

func (c *memoryCache) janitor(interval time.Duration) {
	defer close(c.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.deleteExpired()
		case <-c.stop:
			return
		}
	}
}

type noOpCache struct{}

// NewNoOpCache creates a cache that stores nothing, used when caching is disabled.
func NewNoOpCache() Cache {
	return noOpCache{}
}

func (noOpCache) Get(string) (string, bool)          { return "", false }
func (noOpCache) Set(string, string, time.Duration) {}
func (noOpCache) Delete(string)                     {}
func (noOpCache) Clear()                            {}
func (noOpCache) Stats() Stats                      { return Stats{} }
func (noOpCache) Stop()                             {}
