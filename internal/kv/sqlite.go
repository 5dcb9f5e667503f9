// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ManuGH/yaruki/internal/persistence/sqlite"
)

const sqliteSchemaVersion = 1

// SQLiteStore implements Store on a single SQLite table.
type SQLiteStore struct {
	DB *sql.DB
}

// OpenSQLiteStore opens the database at path, applies the schema and runs a
// quick integrity check.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sqlite.Open(ctx, path, sqlite.DefaultConfig())
	if err != nil {
		return nil, err
	}

	s := &SQLiteStore{DB: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite store: migration failed: %w", err)
	}
	issues, err := sqlite.VerifyIntegrity(ctx, db, false)
	if err == nil && len(issues) > 0 {
		err = fmt.Errorf("%s", strings.Join(issues, "; "))
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite store: integrity check failed: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	var current int
	if err := s.DB.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return err
	}
	if current >= sqliteSchemaVersion {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// TEXT keys use BINARY collation, so ORDER BY key matches Go byte order.
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	) WITHOUT ROWID;
	`
	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", sqliteSchemaVersion)); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) Backend() string { return BackendSQLite }

func (s *SQLiteStore) Put(ctx context.Context, key, value string) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("sqlite put: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.DB.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("sqlite get: %w", err)
	}
	return v, true, nil
}

// List range-scans from prefix and stops at the first key outside it.
func (s *SQLiteStore) List(ctx context.Context, prefix string) ([]Key, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT key FROM kv WHERE key >= ? ORDER BY key`, prefix)
	if err != nil {
		return nil, fmt.Errorf("sqlite list: %w", err)
	}
	defer func() { _ = rows.Close() }()

	keys := []Key{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("sqlite list scan: %w", err)
		}
		if !strings.HasPrefix(name, prefix) {
			break
		}
		keys = append(keys, Key{Name: name})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite list: %w", err)
	}
	return keys, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error { return s.DB.PingContext(ctx) }

func (s *SQLiteStore) Close() error { return s.DB.Close() }
