// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package kv

import (
	"context"
	"fmt"
	"path/filepath"
)

// Config selects and configures a backend.
type Config struct {
	Backend string
	Path    string // badger directory or sqlite parent directory/file
	Redis   RedisConfig
}

// sqliteFile is used when Path names a directory rather than a .db/.sqlite file.
const sqliteFile = "yaruki.sqlite"

// Open creates the Store for cfg.Backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendRedis:
		return NewRedisStore(ctx, cfg.Redis)
	case BackendBadger:
		if cfg.Path == "" {
			return nil, fmt.Errorf("kv: badger backend requires a path")
		}
		return OpenBadgerStore(cfg.Path)
	case BackendSQLite:
		if cfg.Path == "" {
			return nil, fmt.Errorf("kv: sqlite backend requires a path")
		}
		return OpenSQLiteStore(ctx, sqlitePath(cfg.Path))
	default:
		return nil, fmt.Errorf("%w: %q (supported: memory, redis, badger, sqlite)", ErrUnknownBackend, cfg.Backend)
	}
}

func sqlitePath(p string) string {
	switch filepath.Ext(p) {
	case ".db", ".sqlite", ".sqlite3":
		return p
	default:
		return filepath.Join(p, sqliteFile)
	}
}
