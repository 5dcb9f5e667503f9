// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package daemon

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ManuGH/yaruki/internal/config"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard).Level(zerolog.InfoLevel)
}

func testServerConfig(addr string) config.ServerConfig {
	return config.ServerConfig{
		ListenAddr:      addr,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    10 * time.Second,
		IdleTimeout:     30 * time.Second,
		MaxHeaderBytes:  1 << 20,
		ShutdownTimeout: 5 * time.Second,
	}
}

func reserveListenAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	_ = ln.Close()
	return addr
}

func okHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, body)
	})
}

func get(t *testing.T, url string) string {
	t.Helper()
	client := &http.Client{
		Timeout:   2 * time.Second,
		Transport: &http.Transport{DisableKeepAlives: true},
	}
	resp, err := client.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestNewManager_ValidDeps(t *testing.T) {
	mgr, err := NewManager(testServerConfig("127.0.0.1:0"), Deps{
		Logger:     testLogger(),
		APIHandler: http.NotFoundHandler(),
	})
	require.NoError(t, err)
	require.NotNil(t, mgr)
}

func TestNewManager_MissingLogger(t *testing.T) {
	_, err := NewManager(testServerConfig("127.0.0.1:0"), Deps{
		Logger:     zerolog.Nop(),
		APIHandler: http.NotFoundHandler(),
	})
	require.ErrorIs(t, err, ErrMissingLogger)
}

func TestNewManager_MissingAPIHandler(t *testing.T) {
	_, err := NewManager(testServerConfig("127.0.0.1:0"), Deps{Logger: testLogger()})
	require.ErrorIs(t, err, ErrMissingAPIHandler)
}

func TestManager_StartStop_OK(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	mgr, err := NewManager(testServerConfig("127.0.0.1:0"), Deps{
		Logger:     testLogger(),
		APIHandler: okHandler("api"),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- mgr.Start(ctx) }()

	addr, err := mgr.(*manager).APIAddr(ctx)
	require.NoError(t, err)
	assert.Equal(t, "api", get(t, "http://"+addr.String()+"/"))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("manager did not stop")
	}
}

func TestManager_Shutdown_NotStarted(t *testing.T) {
	mgr, err := NewManager(testServerConfig("127.0.0.1:0"), Deps{
		Logger:     testLogger(),
		APIHandler: http.NotFoundHandler(),
	})
	require.NoError(t, err)
	require.ErrorIs(t, mgr.Shutdown(context.Background()), ErrManagerNotStarted)
}

func TestManager_StartTwice(t *testing.T) {
	mgr, err := NewManager(testServerConfig("127.0.0.1:0"), Deps{
		Logger:     testLogger(),
		APIHandler: http.NotFoundHandler(),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- mgr.Start(ctx) }()
	_, err = mgr.(*manager).APIAddr(ctx)
	require.NoError(t, err)

	require.Error(t, mgr.Start(ctx))
	cancel()
	require.NoError(t, <-done)
}

func TestManager_WithMetrics(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	metricsAddr := reserveListenAddr(t)
	mgr, err := NewManager(testServerConfig("127.0.0.1:0"), Deps{
		Logger:         testLogger(),
		APIHandler:     okHandler("api"),
		MetricsHandler: okHandler("metrics"),
		MetricsAddr:    metricsAddr,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- mgr.Start(ctx) }()

	_, err = mgr.(*manager).APIAddr(ctx)
	require.NoError(t, err)
	assert.Equal(t, "metrics", get(t, "http://"+metricsAddr+"/metrics"))

	cancel()
	require.NoError(t, <-done)
}

func TestManager_PropagatesListenErrors(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = ln.Close() }()

	mgr, err := NewManager(testServerConfig(ln.Addr().String()), Deps{
		Logger:     testLogger(),
		APIHandler: http.NotFoundHandler(),
	})
	require.NoError(t, err)

	var hookRan bool
	mgr.RegisterShutdownHook("store", func(context.Context) error {
		hookRan = true
		return nil
	})

	err = mgr.Start(context.Background())
	require.Error(t, err)
	assert.True(t, IsStartupError(err))
	assert.True(t, hookRan, "hooks release resources after a failed start")
}

func TestManager_ShutdownHooksRunLIFO(t *testing.T) {
	mgr, err := NewManager(testServerConfig("127.0.0.1:0"), Deps{
		Logger:     testLogger(),
		APIHandler: http.NotFoundHandler(),
	})
	require.NoError(t, err)

	var (
		mu    sync.Mutex
		order []string
	)
	record := func(name string, err error) ShutdownHook {
		return func(context.Context) error {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return err
		}
	}
	mgr.RegisterShutdownHook("telemetry", record("telemetry", nil))
	mgr.RegisterShutdownHook("store", record("store", errors.New("close failed")))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- mgr.Start(ctx) }()
	_, err = mgr.(*manager).APIAddr(ctx)
	require.NoError(t, err)
	cancel()

	err = <-done
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hook store: close failed")
	assert.Equal(t, []string{"store", "telemetry"}, order)
}

func TestManager_ShutdownIgnoresCallerCancellation(t *testing.T) {
	mgr, err := NewManager(testServerConfig("127.0.0.1:0"), Deps{
		Logger:     testLogger(),
		APIHandler: http.NotFoundHandler(),
	})
	require.NoError(t, err)

	var hookErr error
	mgr.RegisterShutdownHook("probe", func(ctx context.Context) error {
		hookErr = ctx.Err()
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- mgr.Start(ctx) }()
	_, err = mgr.(*manager).APIAddr(ctx)
	require.NoError(t, err)
	cancel()

	require.NoError(t, <-done)
	assert.NoError(t, hookErr)
}
