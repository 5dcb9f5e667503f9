// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package config loads the daemon configuration with precedence
// ENV > YAML file > defaults.
package config

import "time"

// Store backends understood by the kv package.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

// AppConfig is the fully merged runtime configuration.
type AppConfig struct {
	Version     string
	ListenAddr  string
	Bind        string // optional host or "if:<name>" applied to a ":PORT" ListenAddr
	MetricsAddr string // empty disables the metrics listener
	LogLevel    string
	LogService  string

	Auth      AuthConfig
	Store     StoreConfig
	States    StatesConfig
	Cache     CacheConfig
	Telemetry TelemetryConfig
	Server    ServerRuntimeConfig
}

// AuthConfig holds the single shared basic-auth credential.
type AuthConfig struct {
	Username string
	Password string
	Realm    string
}

// StoreConfig selects and configures the key-value backend.
type StoreConfig struct {
	Backend string
	Path    string // badger directory or sqlite file
	Redis   RedisConfig
	Breaker BreakerConfig
}

// BreakerConfig tunes the store circuit breaker. Threshold 0 disables it.
type BreakerConfig struct {
	Threshold    int
	ResetTimeout time.Duration
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	Namespace string // prepended to every key
}

// StatesConfig tunes the recorder and reader.
type StatesConfig struct {
	Timezone string // IANA zone used for the sortable key prefix
	FanOut   int    // max concurrent value fetches per list request
}

// CacheConfig configures the read-through value cache.
type CacheConfig struct {
	Enabled         bool
	TTL             time.Duration
	CleanupInterval time.Duration
}

// TelemetryConfig configures OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled      bool
	Exporter     string // "grpc" or "http"
	Endpoint     string
	Environment  string
	SamplingRate float64
}

// ServerRuntimeConfig holds HTTP server timeouts.
type ServerRuntimeConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	MaxHeaderBytes  int
	ShutdownTimeout time.Duration
}

// FileConfig is the YAML representation. Zero values and nil pointers mean
// "not set" and leave the default in place.
type FileConfig struct {
	ListenAddr  string `yaml:"listenAddr"`
	Bind        string `yaml:"bind"`
	MetricsAddr string `yaml:"metricsAddr"`
	LogLevel    string `yaml:"logLevel"`
	LogService  string `yaml:"logService"`

	Auth struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Realm    string `yaml:"realm"`
	} `yaml:"auth"`

	Store struct {
		Backend string `yaml:"backend"`
		Path    string `yaml:"path"`
		Redis   struct {
			Addr      string `yaml:"addr"`
			Password  string `yaml:"password"`
			DB        *int   `yaml:"db"`
			Namespace string `yaml:"namespace"`
		} `yaml:"redis"`
		Breaker struct {
			Threshold    *int          `yaml:"threshold"`
			ResetTimeout time.Duration `yaml:"resetTimeout"`
		} `yaml:"breaker"`
	} `yaml:"store"`

	States struct {
		Timezone string `yaml:"timezone"`
		FanOut   int    `yaml:"fanOut"`
	} `yaml:"states"`

	Cache struct {
		Enabled         *bool         `yaml:"enabled"`
		TTL             time.Duration `yaml:"ttl"`
		CleanupInterval time.Duration `yaml:"cleanupInterval"`
	} `yaml:"cache"`

	Telemetry struct {
		Enabled      *bool    `yaml:"enabled"`
		Exporter     string   `yaml:"exporter"`
		Endpoint     string   `yaml:"endpoint"`
		Environment  string   `yaml:"environment"`
		SamplingRate *float64 `yaml:"samplingRate"`
	} `yaml:"telemetry"`

	Server struct {
		ReadTimeout     time.Duration  `yaml:"readTimeout"`
		WriteTimeout    *time.Duration `yaml:"writeTimeout"`
		IdleTimeout     time.Duration  `yaml:"idleTimeout"`
		MaxHeaderBytes  int            `yaml:"maxHeaderBytes"`
		ShutdownTimeout time.Duration  `yaml:"shutdownTimeout"`
	} `yaml:"server"`
}

// Defaults returns the built-in configuration.
func Defaults() AppConfig {
	return AppConfig{
		ListenAddr:  ":8787",
		MetricsAddr: "",
		LogLevel:    "info",
		LogService:  "yaruki",
		Auth: AuthConfig{
			Realm: "yaruki",
		},
		Store: StoreConfig{
			Backend: BackendSQLite,
			Path:    "yaruki.db",
			Redis: RedisConfig{
				Addr:      "localhost:6379",
				Namespace: "yaruki:state:",
			},
			Breaker: BreakerConfig{
				Threshold:    5,
				ResetTimeout: 30 * time.Second,
			},
		},
		States: StatesConfig{
			Timezone: "Asia/Tokyo",
			FanOut:   16,
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             10 * time.Minute,
			CleanupInterval: time.Minute,
		},
		Telemetry: TelemetryConfig{
			Exporter:     "grpc",
			Endpoint:     "localhost:4317",
			Environment:  "production",
			SamplingRate: 1.0,
		},
		Server: ServerRuntimeConfig{
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			IdleTimeout:     defaultIdleTimeout,
			MaxHeaderBytes:  defaultMaxHeaderBytes,
			ShutdownTimeout: defaultShutdownTimeout,
		},
	}
}
