// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // zone lookups must not depend on the host zoneinfo
)

var (
	// ErrMissingCredentials is returned when no basic-auth credential is configured.
	ErrMissingCredentials = errors.New("auth.username and auth.password are required")

	// ErrUnknownBackend is returned for an unsupported store.backend value.
	ErrUnknownBackend = errors.New("unknown store backend")
)

// Validate checks a merged configuration and joins every problem found.
func Validate(cfg AppConfig) error {
	var errs []error

	if strings.TrimSpace(cfg.Auth.Username) == "" || cfg.Auth.Password == "" {
		errs = append(errs, ErrMissingCredentials)
	}

	switch cfg.Store.Backend {
	case BackendMemory, BackendRedis:
	case BackendBadger, BackendSQLite:
		if strings.TrimSpace(cfg.Store.Path) == "" {
			errs = append(errs, fmt.Errorf("store.path is required for backend %q", cfg.Store.Backend))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: %q (supported: memory, redis, badger, sqlite)", ErrUnknownBackend, cfg.Store.Backend))
	}

	if cfg.Store.Backend == BackendRedis && strings.TrimSpace(cfg.Store.Redis.Addr) == "" {
		errs = append(errs, errors.New("store.redis.addr is required for backend \"redis\""))
	}

	if _, err := time.LoadLocation(cfg.States.Timezone); err != nil || cfg.States.Timezone == "" {
		errs = append(errs, fmt.Errorf("states.timezone %q is not a valid IANA zone", cfg.States.Timezone))
	}
	if cfg.Store.Breaker.Threshold < 0 {
		errs = append(errs, fmt.Errorf("store.breaker.threshold must be >= 0, got %d", cfg.Store.Breaker.Threshold))
	}

	if cfg.States.FanOut < 1 {
		errs = append(errs, fmt.Errorf("states.fanOut must be >= 1, got %d", cfg.States.FanOut))
	}

	if cfg.Cache.Enabled && cfg.Cache.TTL <= 0 {
		errs = append(errs, fmt.Errorf("cache.ttl must be positive when cache is enabled"))
	}

	if cfg.Telemetry.Enabled {
		switch cfg.Telemetry.Exporter {
		case "grpc", "http":
		default:
			errs = append(errs, fmt.Errorf("telemetry.exporter %q is not supported (grpc, http)", cfg.Telemetry.Exporter))
		}
		if cfg.Telemetry.SamplingRate < 0 || cfg.Telemetry.SamplingRate > 1 {
			errs = append(errs, fmt.Errorf("telemetry.samplingRate must be within [0,1], got %v", cfg.Telemetry.SamplingRate))
		}
	}

	return errors.Join(errs...)
}
