// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package health

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/ManuGH/yaruki/internal/config"
	"github.com/ManuGH/yaruki/internal/log"
)

// PerformStartupChecks validates the environment before the server starts.
func PerformStartupChecks(_ context.Context, cfg config.AppConfig) error {
	logger := log.WithComponent("startup-check")
	logger.Info().Msg("running pre-flight startup checks")

	listen, err := config.BindListenAddr(cfg.ListenAddr, cfg.Bind)
	if err != nil {
		return fmt.Errorf("resolve bind address: %w", err)
	}
	if err := checkListenAddr(logger, "listen", listen); err != nil {
		return err
	}
	if cfg.MetricsAddr != "" {
		if err := checkListenAddr(logger, "metrics", cfg.MetricsAddr); err != nil {
			return err
		}
	}

	switch cfg.Store.Backend {
	case config.BackendBadger:
		if err := checkDataDir(logger, cfg.Store.Path); err != nil {
			return fmt.Errorf("badger directory check failed: %w", err)
		}
	case config.BackendSQLite:
		dir := cfg.Store.Path
		if ext := filepath.Ext(dir); ext == ".db" || ext == ".sqlite" || ext == ".sqlite3" {
			dir = filepath.Dir(dir)
		}
		if err := checkDataDir(logger, dir); err != nil {
			return fmt.Errorf("sqlite directory check failed: %w", err)
		}
	case config.BackendMemory:
		logger.Warn().
			Str(log.FieldBackend, cfg.Store.Backend).
			Msg("in-memory store; recorded states are lost on restart")
	}

	logger.Info().Msg("all startup checks passed")
	return nil
}

func checkListenAddr(logger zerolog.Logger, name, addr string) error {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid %s address %q: %w", name, addr, err)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 0 || n > 65535 {
		return fmt.Errorf("invalid %s port %q in %q", name, port, addr)
	}
	logger.Debug().Str("addr", addr).Msgf("%s address is valid", name)
	return nil
}

// checkDataDir creates path when missing and verifies it is writable.
func checkDataDir(logger zerolog.Logger, path string) error {
	if err := os.MkdirAll(path, 0o750); err != nil {
		return fmt.Errorf("cannot create %s: %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	probe := filepath.Join(path, ".write_test")
	if err := os.WriteFile(probe, []byte("ok"), 0o600); err != nil {
		return fmt.Errorf("directory is not writable: %s (error: %v)", path, err)
	}
	_ = os.Remove(probe)

	logger.Info().Str("path", path).Msg("data directory is writable")
	return nil
}
