// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package kv

import (
	"context"
	"errors"
	"time"

	"github.com/ManuGH/yaruki/internal/resilience"
)

type breakerStore struct {
	next Store
	cb   *resilience.CircuitBreaker
}

// WithCircuitBreaker rejects Put, Get and List with resilience.ErrCircuitOpen
// after threshold consecutive backend failures, for resetTimeout. Ping and
// Close bypass the breaker so readiness reflects the real backend.
// Caller cancellation does not count as a failure.
func WithCircuitBreaker(s Store, threshold int, resetTimeout time.Duration) Store {
	cb := resilience.NewCircuitBreaker("store_"+BackendOf(s), threshold, resetTimeout,
		resilience.WithIgnoredErrors(func(err error) bool {
			return errors.Is(err, context.Canceled)
		}))
	return &breakerStore{next: s, cb: cb}
}

func (s *breakerStore) Backend() string { return BackendOf(s.next) }

func (s *breakerStore) Put(ctx context.Context, key, value string) error {
	return s.cb.Execute(func() error { return s.next.Put(ctx, key, value) })
}

func (s *breakerStore) Get(ctx context.Context, key string) (value string, found bool, err error) {
	err = s.cb.Execute(func() error {
		var gerr error
		value, found, gerr = s.next.Get(ctx, key)
		return gerr
	})
	return value, found, err
}

func (s *breakerStore) List(ctx context.Context, prefix string) (keys []Key, err error) {
	err = s.cb.Execute(func() error {
		var lerr error
		keys, lerr = s.next.List(ctx, prefix)
		return lerr
	})
	return keys, err
}

func (s *breakerStore) Ping(ctx context.Context) error { return s.next.Ping(ctx) }

func (s *breakerStore) Close() error { return s.next.Close() }
