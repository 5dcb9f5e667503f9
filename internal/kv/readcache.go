// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package kv

import (
	"context"
	"time"

	"github.com/ManuGH/yaruki/internal/cache"
	"github.com/ManuGH/yaruki/internal/metrics"
)

type readCache struct {
	next  Store
	cache cache.Cache
	ttl   time.Duration
}

// WithReadCache serves Get from c before falling through to s. Put writes
// through to both. Only found values are cached; List is never cached.
func WithReadCache(s Store, c cache.Cache, ttl time.Duration) Store {
	return &readCache{next: s, cache: c, ttl: ttl}
}

func (s *readCache) Backend() string { return BackendOf(s.next) }

func (s *readCache) Put(ctx context.Context, key, value string) error {
	if err := s.next.Put(ctx, key, value); err != nil {
		s.cache.Delete(key)
		return err
	}
	s.cache.Set(key, value, s.ttl)
	return nil
}

func (s *readCache) Get(ctx context.Context, key string) (string, bool, error) {
	if v, ok := s.cache.Get(key); ok {
		metrics.IncCacheLookup(true)
		return v, true, nil
	}
	metrics.IncCacheLookup(false)

	v, found, err := s.next.Get(ctx, key)
	if err != nil || !found {
		return v, found, err
	}
	s.cache.Set(key, v, s.ttl)
	return v, true, nil
}

func (s *readCache) List(ctx context.Context, prefix string) ([]Key, error) {
	return s.next.List(ctx, prefix)
}

func (s *readCache) Ping(ctx context.Context) error { return s.next.Ping(ctx) }

func (s *readCache) Close() error {
	s.cache.Stop()
	return s.next.Close()
}
