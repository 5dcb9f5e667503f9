// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/yaruki/internal/api"
	"github.com/ManuGH/yaruki/internal/auth"
	"github.com/ManuGH/yaruki/internal/kv"
	"github.com/ManuGH/yaruki/internal/states"
)

func newServer(t *testing.T, now func() time.Time) *httptest.Server {
	t.Helper()
	svc, err := states.New(kv.NewMemoryStore(), states.WithClock(now))
	require.NoError(t, err)
	srv, err := api.New(api.Deps{
		States:      svc,
		Credentials: auth.Static{Username: "device", Password: "pw", Realm: "yaruki"},
	})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func steppingClock(start time.Time, step time.Duration) func() time.Time {
	next := start
	return func() time.Time {
		t := next
		next = next.Add(step)
		return t
	}
}

func TestClient_RecordAndList(t *testing.T) {
	start := time.Date(2024, 1, 1, 3, 0, 0, 0, time.UTC)
	ts := newServer(t, steppingClock(start, time.Minute))

	c, err := New(ts.URL, WithBasicAuth("device", "pw"))
	require.NoError(t, err)
	ctx := context.Background()

	rec, err := c.Record(ctx, "on")
	require.NoError(t, err)
	assert.Equal(t, "20240101120000:1704078000000", rec.Key)
	assert.Equal(t, "on", rec.Value)
	assert.Equal(t, int64(1704078000000), rec.Timestamp)

	rec, err = c.Record(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "42", rec.Value)

	results, err := c.List(ctx, "20240101")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "on", *results[0].Value)
	assert.Equal(t, "42", *results[1].Value)
	assert.Equal(t, int64(1704078060000), *results[1].Timestamp)
}

func TestClient_ListEmpty(t *testing.T) {
	ts := newServer(t, time.Now)
	c, err := New(ts.URL, WithBasicAuth("device", "pw"))
	require.NoError(t, err)

	results, err := c.List(context.Background(), "1999")
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestClient_Unauthorized(t *testing.T) {
	ts := newServer(t, time.Now)
	c, err := New(ts.URL, WithBasicAuth("device", "wrong"))
	require.NoError(t, err)

	_, err = c.Record(context.Background(), "on")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "unauthorized", apiErr.Message)
}

func TestClient_OKFalseIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":false,"error":"degraded"}`))
	}))
	defer ts.Close()

	c, err := New(ts.URL)
	require.NoError(t, err)
	_, err = c.List(context.Background(), "x")

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusOK, apiErr.StatusCode)
	assert.Equal(t, "degraded", apiErr.Message)
}

func TestClient_NonJSONError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer ts.Close()

	c, err := New(ts.URL + "/")
	require.NoError(t, err)
	_, err = c.Record(context.Background(), nil)
	require.EqualError(t, err, "yaruki: HTTP 502: bad gateway")
}

func TestClient_EscapesPrefix(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"ok":true,"results":[]}`))
	}))
	defer ts.Close()

	c, err := New(ts.URL)
	require.NoError(t, err)
	_, err = c.List(context.Background(), "a/b c")
	require.NoError(t, err)
	assert.Equal(t, "/states/a%2Fb%20c", gotPath)
}

func TestClient_ListLiteralPercentPrefix(t *testing.T) {
	store := kv.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "100%:1", "percent"))
	require.NoError(t, store.Put(ctx, "A:2", "letterA"))

	svc, err := states.New(store)
	require.NoError(t, err)
	srv, err := api.New(api.Deps{
		States:      svc,
		Credentials: auth.Static{Username: "device", Password: "pw", Realm: "yaruki"},
	})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	c, err := New(ts.URL, WithBasicAuth("device", "pw"))
	require.NoError(t, err)

	results, err := c.List(ctx, "100%")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "100%:1", results[0].Key)

	results, err = c.List(ctx, "%41")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestNew_RejectsBadURL(t *testing.T) {
	_, err := New("ftp://example.com")
	require.Error(t, err)
	_, err = New("://")
	require.Error(t, err)
}
