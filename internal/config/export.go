// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"bytes"
	"fmt"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"
)

const redacted = "***"

// ToFileConfig converts cfg into its YAML representation with every field set.
func ToFileConfig(cfg AppConfig) FileConfig {
	var f FileConfig
	f.ListenAddr = cfg.ListenAddr
	f.Bind = cfg.Bind
	f.MetricsAddr = cfg.MetricsAddr
	f.LogLevel = cfg.LogLevel
	f.LogService = cfg.LogService

	f.Auth.Username = cfg.Auth.Username
	f.Auth.Password = cfg.Auth.Password
	f.Auth.Realm = cfg.Auth.Realm

	f.Store.Backend = cfg.Store.Backend
	f.Store.Path = cfg.Store.Path
	f.Store.Redis.Addr = cfg.Store.Redis.Addr
	f.Store.Redis.Password = cfg.Store.Redis.Password
	db := cfg.Store.Redis.DB
	f.Store.Redis.DB = &db
	f.Store.Redis.Namespace = cfg.Store.Redis.Namespace
	threshold := cfg.Store.Breaker.Threshold
	f.Store.Breaker.Threshold = &threshold
	f.Store.Breaker.ResetTimeout = cfg.Store.Breaker.ResetTimeout

	f.States.Timezone = cfg.States.Timezone
	f.States.FanOut = cfg.States.FanOut

	cacheEnabled := cfg.Cache.Enabled
	f.Cache.Enabled = &cacheEnabled
	f.Cache.TTL = cfg.Cache.TTL
	f.Cache.CleanupInterval = cfg.Cache.CleanupInterval

	telemetryEnabled := cfg.Telemetry.Enabled
	f.Telemetry.Enabled = &telemetryEnabled
	f.Telemetry.Exporter = cfg.Telemetry.Exporter
	f.Telemetry.Endpoint = cfg.Telemetry.Endpoint
	f.Telemetry.Environment = cfg.Telemetry.Environment
	rate := cfg.Telemetry.SamplingRate
	f.Telemetry.SamplingRate = &rate

	f.Server.ReadTimeout = cfg.Server.ReadTimeout
	wt := cfg.Server.WriteTimeout
	f.Server.WriteTimeout = &wt
	f.Server.IdleTimeout = cfg.Server.IdleTimeout
	f.Server.MaxHeaderBytes = cfg.Server.MaxHeaderBytes
	f.Server.ShutdownTimeout = cfg.Server.ShutdownTimeout
	return f
}

// Redact masks secrets before a configuration is printed.
func Redact(cfg AppConfig) AppConfig {
	if cfg.Auth.Password != "" {
		cfg.Auth.Password = redacted
	}
	if cfg.Store.Redis.Password != "" {
		cfg.Store.Redis.Password = redacted
	}
	return cfg
}

// MarshalYAML renders cfg in the file format read by Loader.
func MarshalYAML(cfg AppConfig) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(ToFileConfig(cfg)); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile atomically writes cfg to path with owner-only permissions.
func WriteFile(path string, cfg AppConfig) error {
	data, err := MarshalYAML(cfg)
	if err != nil {
		return err
	}

	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o600))
	if err != nil {
		return fmt.Errorf("create pending config file: %w", err)
	}
	defer func() { _ = pending.Cleanup() }()

	if _, err := pending.Write(data); err != nil {
		return fmt.Errorf("write config data: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace config file: %w", err)
	}
	return nil
}
