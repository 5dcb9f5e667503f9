// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func TestMemoryCache_GetSet(t *testing.T) {
	c := NewMemoryCache(0)
	defer c.Stop()

	c.Set("key1", "value1", 5*time.Minute)

	val, ok := c.Get("key1")
	require.True(t, ok, "expected to find key1")
	assert.Equal(t, "value1", val)

	_, ok = c.Get("nonexistent")
	assert.False(t, ok)
}

func TestMemoryCache_Expiration(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	c := newMemoryCache(0, clock.Now)

	c.Set("shortlived", "value", time.Second)
	val, ok := c.Get("shortlived")
	require.True(t, ok)
	assert.Equal(t, "value", val)

	clock.Advance(2 * time.Second)
	_, ok = c.Get("shortlived")
	assert.False(t, ok, "expected key to be expired")
}

func TestMemoryCache_ZeroTTLNeverExpires(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	c := newMemoryCache(0, clock.Now)

	c.Set("forever", "v", 0)
	clock.Advance(24 * 365 * time.Hour)

	val, ok := c.Get("forever")
	require.True(t, ok)
	assert.Equal(t, "v", val)
}

func TestMemoryCache_DeleteAndClear(t *testing.T) {
	c := NewMemoryCache(0)
	defer c.Stop()

	c.Set("key1", "value1", time.Minute)
	c.Set("key2", "value2", time.Minute)
	c.Set("key3", "value3", time.Minute)
	assert.Equal(t, 3, c.Stats().CurrentSize)

	c.Delete("key1")
	_, ok := c.Get("key1")
	assert.False(t, ok)

	c.Clear()
	assert.Equal(t, 0, c.Stats().CurrentSize)
}

func TestMemoryCache_Stats(t *testing.T) {
	c := NewMemoryCache(0)
	defer c.Stop()

	c.Set("a", "1", time.Minute)
	c.Get("a")
	c.Get("a")
	c.Get("missing")

	stats := c.Stats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Sets)
}

func TestMemoryCache_DeleteExpired(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	c := newMemoryCache(0, clock.Now)

	c.Set("old", "x", time.Second)
	c.Set("new", "y", time.Hour)
	clock.Advance(time.Minute)

	assert.Equal(t, 1, c.deleteExpired())
	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Evictions)
	assert.Equal(t, 1, stats.CurrentSize)
}

func TestMemoryCache_JanitorStops(t *testing.T) {
	c := NewMemoryCache(5 * time.Millisecond)
	c.Set("k", "v", time.Millisecond)

	require.Eventually(t, func() bool {
		return c.Stats().CurrentSize == 0
	}, time.Second, 5*time.Millisecond)

	c.Stop()
	c.Stop()
}

func TestMemoryCache_Concurrent(t *testing.T) {
	c := NewMemoryCache(0)
	defer c.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k-%d-%d", n, j)
				c.Set(key, key, time.Minute)
				got, ok := c.Get(key)
				assert.True(t, ok)
				assert.Equal(t, key, got)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1600, c.Stats().CurrentSize)
}

func TestNoOpCache(t *testing.T) {
	c := NewNoOpCache()
	c.Set("k", "v", time.Minute)
	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, Stats{}, c.Stats())
	c.Stop()
}
