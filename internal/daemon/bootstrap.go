// SPDX-License-Identifier: MIT

// Package daemon wires the configured components together and runs the
// HTTP servers until shutdown.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ManuGH/yaruki/internal/api"
	"github.com/ManuGH/yaruki/internal/auth"
	"github.com/ManuGH/yaruki/internal/cache"
	"github.com/ManuGH/yaruki/internal/config"
	"github.com/ManuGH/yaruki/internal/health"
	"github.com/ManuGH/yaruki/internal/kv"
	"github.com/ManuGH/yaruki/internal/log"
	"github.com/ManuGH/yaruki/internal/statekey"
	"github.com/ManuGH/yaruki/internal/states"
	"github.com/ManuGH/yaruki/internal/telemetry"
)

// Runtime is a fully wired daemon ready to Run.
type Runtime struct {
	App         *App
	Manager     Manager
	Store       kv.Store
	Credentials *auth.Holder
}

// Bootstrap builds every component from cfg. holder is optional; when set,
// reloaded configurations swap the basic-auth credentials and log level.
// On error everything opened so far is released.
func Bootstrap(ctx context.Context, cfg config.AppConfig, holder *config.Holder) (rt *Runtime, err error) {
	logger := log.WithComponent("daemon")

	var cleanups []func(context.Context) error
	defer func() {
		if err == nil {
			return
		}
		for i := len(cleanups) - 1; i >= 0; i-- {
			_ = cleanups[i](context.WithoutCancel(ctx))
		}
	}()

	serviceName := cfg.LogService
	if serviceName == "" {
		serviceName = "yaruki"
	}

	tracer, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    serviceName,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Telemetry.Environment,
		ExporterType:   cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}
	cleanups = append(cleanups, tracer.Shutdown)

	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	cleanups = append(cleanups, func(context.Context) error { return store.Close() })

	loc, err := statekey.LoadZone(cfg.States.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}
	svc, err := states.New(store,
		states.WithLocation(loc),
		states.WithFanOut(cfg.States.FanOut),
		states.WithLogger(log.WithComponent("states")),
	)
	if err != nil {
		return nil, fmt.Errorf("init states service: %w", err)
	}

	creds := auth.NewHolder(credentialsFrom(cfg.Auth))
	if holder != nil {
		holder.OnReload(func(next config.AppConfig) {
			creds.Set(credentialsFrom(next.Auth))
			if next.LogLevel != "" {
				if lvl, perr := zerolog.ParseLevel(next.LogLevel); perr == nil {
					zerolog.SetGlobalLevel(lvl)
				}
			}
			logger.Info().Str(log.FieldEvent, "auth.credentials_swapped").Msg("credentials updated from reloaded config")
		})
	}

	hm := health.NewManager(cfg.Version)
	hm.RegisterChecker(health.NewStoreChecker(kv.BackendOf(store), store))
	hm.RegisterChecker(health.NewCredentialsChecker(func() bool { return creds.Credentials().Configured() }))

	tracingService := ""
	if cfg.Telemetry.Enabled {
		tracingService = serviceName
	}
	srv, err := api.New(api.Deps{
		States:         svc,
		Credentials:    creds,
		Health:         hm,
		TracingService: tracingService,
	})
	if err != nil {
		return nil, fmt.Errorf("init api: %w", err)
	}

	serverCfg := config.ServerConfigFor(cfg)
	serverCfg.ListenAddr, err = config.BindListenAddr(cfg.ListenAddr, cfg.Bind)
	if err != nil {
		return nil, fmt.Errorf("resolve listen address: %w", err)
	}

	deps := Deps{
		Logger:     logger,
		APIHandler: srv.Handler(),
	}
	if cfg.MetricsAddr != "" {
		deps.MetricsHandler = metricsHandler()
		deps.MetricsAddr = cfg.MetricsAddr
	}

	mgr, err := NewManager(serverCfg, deps)
	if err != nil {
		return nil, err
	}
	mgr.RegisterShutdownHook("telemetry", tracer.Shutdown)
	mgr.RegisterShutdownHook("store", func(context.Context) error { return store.Close() })

	logger.Info().
		Str(log.FieldBackend, kv.BackendOf(store)).
		Str("timezone", loc.String()).
		Int("fan_out", cfg.States.FanOut).
		Bool("cache", cfg.Cache.Enabled).
		Bool("tracing", cfg.Telemetry.Enabled).
		Msg("daemon bootstrapped")

	return &Runtime{
		App:         NewApp(logger, mgr, holder),
		Manager:     mgr,
		Store:       store,
		Credentials: creds,
	}, nil
}

func openStore(ctx context.Context, cfg config.AppConfig) (kv.Store, error) {
	store, err := kv.Open(ctx, kv.Config{
		Backend: cfg.Store.Backend,
		Path:    cfg.Store.Path,
		Redis: kv.RedisConfig{
			Addr:      cfg.Store.Redis.Addr,
			Password:  cfg.Store.Redis.Password,
			DB:        cfg.Store.Redis.DB,
			Namespace: cfg.Store.Redis.Namespace,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	store = kv.Instrument(store)
	if cfg.Store.Breaker.Threshold > 0 {
		store = kv.WithCircuitBreaker(store, cfg.Store.Breaker.Threshold, cfg.Store.Breaker.ResetTimeout)
	}
	if cfg.Cache.Enabled {
		store = kv.WithReadCache(store, cache.NewMemoryCache(cfg.Cache.CleanupInterval), cfg.Cache.TTL)
	}
	return store, nil
}

func credentialsFrom(a config.AuthConfig) auth.Credentials {
	realm := a.Realm
	if realm == "" {
		realm = auth.DefaultRealm
	}
	return auth.Credentials{Username: a.Username, Password: a.Password, Realm: realm}
}

func metricsHandler() http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// WaitForShutdown returns a context cancelled on SIGINT or SIGTERM.
func WaitForShutdown() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// IsStartupError reports whether err came from binding a listener.
func IsStartupError(err error) bool {
	return errors.Is(err, ErrServerStartFailed)
}
