// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ManuGH/yaruki/internal/config"
	"github.com/ManuGH/yaruki/internal/daemon"
	"github.com/ManuGH/yaruki/internal/health"
	"github.com/ManuGH/yaruki/internal/log"
	"github.com/ManuGH/yaruki/internal/version"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP daemon",
		Long: `Run the state recorder.

Configuration precedence is ENV > YAML file > defaults. The config file is
watched and reloaded on change or SIGHUP; credentials are swapped live.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := daemon.WaitForShutdown()
			defer stop()
			return runServe(ctx, strings.TrimSpace(configPath))
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", envOr("YARUKI_CONFIG", ""), "path to config file (YAML)")
	return cmd
}

func runServe(ctx context.Context, configPath string) error {
	// Safe defaults until the config is loaded.
	log.Configure(log.Config{
		Level:   "info",
		Service: "yaruki",
		Version: version.Version,
	})
	logger := log.WithComponent("daemon")

	loader := config.NewLoader(configPath, version.Version)
	cfg, err := loader.Load()
	if err != nil {
		logger.Error().
			Err(err).
			Str(log.FieldEvent, "config.load_failed").
			Str("config_path", configPath).
			Msg("failed to load configuration")
		return err
	}

	log.Configure(log.Config{
		Level:   cfg.LogLevel,
		Service: cfg.LogService,
		Version: cfg.Version,
	})
	logger = log.WithComponent("daemon")

	source := "env+defaults"
	if configPath != "" {
		source = "file"
	}
	logger.Info().
		Str(log.FieldEvent, "config.loaded").
		Str("source", source).
		Str(log.FieldPath, configPath).
		Str(log.FieldBackend, cfg.Store.Backend).
		Msg("configuration loaded")

	if err := health.PerformStartupChecks(ctx, cfg); err != nil {
		return fmt.Errorf("startup checks: %w", err)
	}

	holder := config.NewHolder(cfg, loader)
	rt, err := daemon.Bootstrap(ctx, cfg, holder)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	if err := rt.App.Run(ctx); err != nil {
		logger.Error().Err(err).Str(log.FieldEvent, "daemon.exit").Msg("daemon stopped with error")
		return err
	}
	logger.Info().Str(log.FieldEvent, "daemon.exit").Msg("daemon stopped")
	return nil
}
