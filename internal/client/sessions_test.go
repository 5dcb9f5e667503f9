// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/yaruki/internal/states"
)

func result(value string, ms int64) states.Result {
	return states.Result{Value: &value, Timestamp: &ms}
}

func TestSessions(t *testing.T) {
	results := []states.Result{
		result("off", 500), // stray
		result("on", 1000),
		result("on", 1500), // repeated on keeps the first start
		result("off", 4000),
		{Key: "vanished"},
		result("on", 10000),
	}

	got := Sessions(results)
	require.Len(t, got, 2)
	assert.Equal(t, 3*time.Second, got[0].Duration())
	assert.Equal(t, time.UnixMilli(1000), got[0].Start)
	assert.True(t, got[1].End.IsZero())
	assert.Zero(t, got[1].Duration())
}

func TestSessions_Empty(t *testing.T) {
	assert.Empty(t, Sessions(nil))
}
