// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package kv defines the key-value store that holds recorded states and its
// backends: memory, redis, badger and sqlite.
package kv

import (
	"context"
	"errors"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

var (
	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("kv: unknown backend")
	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("kv: store closed")
)

// Key is one entry returned by List.
type Key struct {
	Name string
}

// Store is the persistence contract for recorded states.
//
// List returns every key that starts with prefix in ascending byte order.
// An empty prefix matches all keys. Get reports found=false, not an error,
// when the key does not exist. Put overwrites an existing value.
type Store interface {
	Put(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (value string, found bool, err error)
	List(ctx context.Context, prefix string) ([]Key, error)
	Ping(ctx context.Context) error
	Close() error
}

// Named is implemented by stores that can report their backend name.
type Named interface {
	Backend() string
}

// BackendOf returns the backend name of s, or "unknown".
func BackendOf(s Store) string {
	if n, ok := s.(Named); ok {
		return n.Backend()
	}
	return "unknown"
}
