// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package cli

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/yaruki/internal/api"
	"github.com/ManuGH/yaruki/internal/auth"
	"github.com/ManuGH/yaruki/internal/config"
	"github.com/ManuGH/yaruki/internal/kv"
	"github.com/ManuGH/yaruki/internal/states"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	clock := time.Date(2024, 1, 1, 3, 0, 0, 0, time.UTC)
	svc, err := states.New(kv.NewMemoryStore(), states.WithClock(func() time.Time {
		now := clock
		clock = clock.Add(90 * time.Minute)
		return now
	}))
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

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "yaruki", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, path := range [][]string{
		{"serve"}, {"record"}, {"list"}, {"sessions"}, {"version"},
		{"config", "init"}, {"config", "validate"}, {"config", "dump"},
	} {
		t.Run(strings.Join(path, " "), func(t *testing.T) {
			sub, _, err := cmd.Find(path)
			require.NoError(t, err)
			assert.Equal(t, path[len(path)-1], sub.Name())
		})
	}
}

func TestFlags(t *testing.T) {
	cmd := NewRootCommand()

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)

	record, _, err := cmd.Find([]string{"record"})
	require.NoError(t, err)
	state := record.Flags().Lookup("state")
	require.NotNil(t, state)
	assert.Equal(t, "s", state.Shorthand)
	assert.Equal(t, "on", state.DefValue)

	serve, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)
	require.NotNil(t, serve.Flags().Lookup("config"))
}

func TestInvalidFormat(t *testing.T) {
	_, err := run(t, "--format", "xml", "version")
	require.ErrorContains(t, err, `invalid format "xml"`)
}

func TestRecordListSessions(t *testing.T) {
	ts := newTestServer(t)
	creds := []string{"--url", ts.URL, "-u", "device", "-p", "pw"}

	out, err := run(t, append([]string{"record", "--state", "on"}, creds...)...)
	require.NoError(t, err)
	assert.Equal(t, "20240101120000:1704078000000\ton\n", out)

	_, err = run(t, append([]string{"record", "-s", "off"}, creds...)...)
	require.NoError(t, err)

	out, err = run(t, append([]string{"list", "20240101"}, creds...)...)
	require.NoError(t, err)
	assert.Equal(t, "20240101120000:1704078000000\ton\n20240101133000:1704083400000\toff\n", out)

	out, err = run(t, append([]string{"--format", "json", "list", "20240101"}, creds...)...)
	require.NoError(t, err)
	var results []states.Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)

	out, err = run(t, append([]string{"sessions", "2024"}, creds...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "1h30m0s")
	assert.Contains(t, out, "total\t1h30m0s")
}

func TestRecordUnauthorized(t *testing.T) {
	ts := newTestServer(t)
	_, err := run(t, "record", "--url", ts.URL, "-u", "device", "-p", "nope")
	require.ErrorContains(t, err, "HTTP 401")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	out, err := run(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "backend: sqlite")

	_, err = run(t, "config", "init", path)
	require.ErrorContains(t, err, "already exists")

	_, err = run(t, "config", "init", "--force", path)
	require.NoError(t, err)

	// Defaults carry no credentials, so validation fails until they are set.
	_, err = run(t, "config", "validate", path)
	require.ErrorIs(t, err, config.ErrMissingCredentials)
}

func TestConfigDumpRedacts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("auth:\n  username: device\n  password: s3cret\nstore:\n  backend: memory\n"), 0o600))

	out, err := run(t, "config", "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	out, err = run(t, "config", "dump", path)
	require.NoError(t, err)
	assert.Contains(t, out, "username: device")
	assert.NotContains(t, out, "s3cret")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "commit:")

	out, err = run(t, "--format", "json", "version")
	require.NoError(t, err)
	var v map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.NotEmpty(t, v["version"])
}
