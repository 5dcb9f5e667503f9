// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_AppliesWAL(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "nested", "state.sqlite")

	db, err := Open(ctx, dbPath, DefaultConfig())
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var mode string
	require.NoError(t, db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)

	var busy int
	require.NoError(t, db.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&busy))
	assert.Equal(t, 5000, busy)
}

func TestVerifyIntegrity_Healthy(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "ok.sqlite"), DefaultConfig())
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = db.ExecContext(ctx, "CREATE TABLE t (id INTEGER PRIMARY KEY, data TEXT)")
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		_, err = db.ExecContext(ctx, "INSERT INTO t (data) VALUES (?)", "payload")
		require.NoError(t, err)
	}

	for _, full := range []bool{false, true} {
		issues, err := VerifyIntegrity(ctx, db, full)
		require.NoError(t, err)
		assert.Nil(t, issues)
	}
}

func TestVerifyIntegrity_ClosedDB(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "closed.sqlite"), DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = VerifyIntegrity(ctx, db, false)
	assert.Error(t, err)
}
