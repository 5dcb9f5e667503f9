// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	EnvListen           = "YARUKI_LISTEN"
	EnvBind             = "YARUKI_BIND"
	EnvMetricsListen    = "YARUKI_METRICS_LISTEN"
	EnvLogLevel         = "YARUKI_LOG_LEVEL"
	EnvLogService       = "YARUKI_LOG_SERVICE"
	EnvUsername         = "YARUKI_USERNAME"
	EnvPassword         = "YARUKI_PASSWORD"
	EnvAuthRealm        = "YARUKI_AUTH_REALM"
	EnvStoreBackend     = "YARUKI_STORE_BACKEND"
	EnvStorePath        = "YARUKI_STORE_PATH"
	EnvRedisAddr        = "YARUKI_REDIS_ADDR"
	EnvRedisPassword    = "YARUKI_REDIS_PASSWORD"
	EnvRedisDB          = "YARUKI_REDIS_DB"
	EnvRedisNamespace   = "YARUKI_REDIS_NAMESPACE"
	EnvBreakerThreshold = "YARUKI_STORE_BREAKER_THRESHOLD"
	EnvBreakerReset     = "YARUKI_STORE_BREAKER_RESET"
	EnvTimezone         = "YARUKI_TIMEZONE"
	EnvFanOut           = "YARUKI_FANOUT"
	EnvCacheEnabled     = "YARUKI_CACHE_ENABLED"
	EnvCacheTTL         = "YARUKI_CACHE_TTL"
	EnvTelemetry        = "YARUKI_TELEMETRY_ENABLED"
	EnvOTLPExporter     = "YARUKI_OTLP_EXPORTER"
	EnvOTLPEndpoint     = "YARUKI_OTLP_ENDPOINT"
	EnvTraceSampling    = "YARUKI_TRACE_SAMPLING"
	EnvDeployEnv        = "YARUKI_ENVIRONMENT"
	EnvReadTimeout      = "YARUKI_SERVER_READ_TIMEOUT"
	EnvWriteTimeout     = "YARUKI_SERVER_WRITE_TIMEOUT"
	EnvIdleTimeout      = "YARUKI_SERVER_IDLE_TIMEOUT"
	EnvShutdownTimeout  = "YARUKI_SERVER_SHUTDOWN_TIMEOUT"
)

// Loader handles configuration loading with precedence.
type Loader struct {
	configPath string
	version    string
}

// NewLoader creates a new configuration loader. An empty configPath skips
// the file layer.
func NewLoader(configPath, version string) *Loader {
	return &Loader{configPath: configPath, version: version}
}

// Path returns the config file path the loader reads, if any.
func (l *Loader) Path() string { return l.configPath }

// Load loads configuration with precedence: ENV > File > Defaults.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()

	if l.configPath != "" {
		fileCfg, err := l.loadFile(l.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		mergeFileConfig(&cfg, fileCfg)
	}

	mergeEnvConfig(&cfg)

	if cfg.Store.Path != "" && cfg.Store.Backend != BackendRedis && cfg.Store.Backend != BackendMemory {
		if abs, err := filepath.Abs(cfg.Store.Path); err == nil {
			cfg.Store.Path = abs
		}
	}

	cfg.Version = l.version

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFile loads configuration from a YAML file with STRICT parsing.
// Unknown fields cause an error to prevent silent misconfiguration.
func (l *Loader) loadFile(path string) (*FileConfig, error) {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var fileCfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&fileCfg); err != nil {
		if err == io.EOF {
			return &FileConfig{}, nil
		}
		return nil, fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("config file contains multiple documents or trailing content")
	}

	return &fileCfg, nil
}

func setString(dst *string, v string) {
	if strings.TrimSpace(v) != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v > 0 {
		*dst = v
	}
}

func mergeFileConfig(cfg *AppConfig, f *FileConfig) {
	setString(&cfg.ListenAddr, f.ListenAddr)
	setString(&cfg.Bind, f.Bind)
	setString(&cfg.MetricsAddr, f.MetricsAddr)
	setString(&cfg.LogLevel, f.LogLevel)
	setString(&cfg.LogService, f.LogService)

	setString(&cfg.Auth.Username, f.Auth.Username)
	setString(&cfg.Auth.Password, f.Auth.Password)
	setString(&cfg.Auth.Realm, f.Auth.Realm)

	setString(&cfg.Store.Backend, f.Store.Backend)
	setString(&cfg.Store.Path, f.Store.Path)
	setString(&cfg.Store.Redis.Addr, f.Store.Redis.Addr)
	setString(&cfg.Store.Redis.Password, f.Store.Redis.Password)
	setString(&cfg.Store.Redis.Namespace, f.Store.Redis.Namespace)
	if f.Store.Redis.DB != nil {
		cfg.Store.Redis.DB = *f.Store.Redis.DB
	}
	if f.Store.Breaker.Threshold != nil {
		cfg.Store.Breaker.Threshold = *f.Store.Breaker.Threshold
	}
	setDuration(&cfg.Store.Breaker.ResetTimeout, f.Store.Breaker.ResetTimeout)

	setString(&cfg.States.Timezone, f.States.Timezone)
	if f.States.FanOut > 0 {
		cfg.States.FanOut = f.States.FanOut
	}

	if f.Cache.Enabled != nil {
		cfg.Cache.Enabled = *f.Cache.Enabled
	}
	setDuration(&cfg.Cache.TTL, f.Cache.TTL)
	setDuration(&cfg.Cache.CleanupInterval, f.Cache.CleanupInterval)

	if f.Telemetry.Enabled != nil {
		cfg.Telemetry.Enabled = *f.Telemetry.Enabled
	}
	setString(&cfg.Telemetry.Exporter, f.Telemetry.Exporter)
	setString(&cfg.Telemetry.Endpoint, f.Telemetry.Endpoint)
	setString(&cfg.Telemetry.Environment, f.Telemetry.Environment)
	if f.Telemetry.SamplingRate != nil {
		cfg.Telemetry.SamplingRate = *f.Telemetry.SamplingRate
	}

	setDuration(&cfg.Server.ReadTimeout, f.Server.ReadTimeout)
	if f.Server.WriteTimeout != nil && *f.Server.WriteTimeout >= 0 {
		cfg.Server.WriteTimeout = *f.Server.WriteTimeout
	}
	setDuration(&cfg.Server.IdleTimeout, f.Server.IdleTimeout)
	if f.Server.MaxHeaderBytes > 0 {
		cfg.Server.MaxHeaderBytes = f.Server.MaxHeaderBytes
	}
	setDuration(&cfg.Server.ShutdownTimeout, f.Server.ShutdownTimeout)
}

func mergeEnvConfig(cfg *AppConfig) {
	cfg.ListenAddr = ParseString(EnvListen, cfg.ListenAddr)
	cfg.Bind = ParseString(EnvBind, cfg.Bind)
	cfg.MetricsAddr = ParseString(EnvMetricsListen, cfg.MetricsAddr)
	cfg.LogLevel = ParseString(EnvLogLevel, cfg.LogLevel)
	cfg.LogService = ParseString(EnvLogService, cfg.LogService)

	cfg.Auth.Username = ParseString(EnvUsername, cfg.Auth.Username)
	cfg.Auth.Password = ParseString(EnvPassword, cfg.Auth.Password)
	cfg.Auth.Realm = ParseString(EnvAuthRealm, cfg.Auth.Realm)

	cfg.Store.Backend = strings.ToLower(ParseString(EnvStoreBackend, cfg.Store.Backend))
	cfg.Store.Path = ParseString(EnvStorePath, cfg.Store.Path)
	cfg.Store.Redis.Addr = ParseString(EnvRedisAddr, cfg.Store.Redis.Addr)
	cfg.Store.Redis.Password = ParseString(EnvRedisPassword, cfg.Store.Redis.Password)
	cfg.Store.Redis.DB = ParseInt(EnvRedisDB, cfg.Store.Redis.DB)
	cfg.Store.Redis.Namespace = ParseString(EnvRedisNamespace, cfg.Store.Redis.Namespace)
	cfg.Store.Breaker.Threshold = ParseInt(EnvBreakerThreshold, cfg.Store.Breaker.Threshold)
	cfg.Store.Breaker.ResetTimeout = ParseDuration(EnvBreakerReset, cfg.Store.Breaker.ResetTimeout)

	cfg.States.Timezone = ParseString(EnvTimezone, cfg.States.Timezone)
	cfg.States.FanOut = ParseInt(EnvFanOut, cfg.States.FanOut)

	cfg.Cache.Enabled = ParseBool(EnvCacheEnabled, cfg.Cache.Enabled)
	cfg.Cache.TTL = ParseDuration(EnvCacheTTL, cfg.Cache.TTL)

	cfg.Telemetry.Enabled = ParseBool(EnvTelemetry, cfg.Telemetry.Enabled)
	cfg.Telemetry.Exporter = ParseString(EnvOTLPExporter, cfg.Telemetry.Exporter)
	cfg.Telemetry.Endpoint = ParseString(EnvOTLPEndpoint, cfg.Telemetry.Endpoint)
	cfg.Telemetry.SamplingRate = ParseFloat(EnvTraceSampling, cfg.Telemetry.SamplingRate)
	cfg.Telemetry.Environment = ParseString(EnvDeployEnv, cfg.Telemetry.Environment)

	cfg.Server.ReadTimeout = ParseDuration(EnvReadTimeout, cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = ParseDuration(EnvWriteTimeout, cfg.Server.WriteTimeout)
	cfg.Server.IdleTimeout = ParseDuration(EnvIdleTimeout, cfg.Server.IdleTimeout)
	cfg.Server.ShutdownTimeout = ParseDuration(EnvShutdownTimeout, cfg.Server.ShutdownTimeout)
}
