// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package api implements the HTTP surface: the state routes behind basic auth
// and the health probes.
package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ManuGH/yaruki/internal/api/middleware"
	"github.com/ManuGH/yaruki/internal/auth"
	"github.com/ManuGH/yaruki/internal/health"
	"github.com/ManuGH/yaruki/internal/states"
)

// DefaultMaxBodyBytes caps POST /states/now bodies.
const DefaultMaxBodyBytes = 1 << 20

// Deps carries everything the server needs. Nothing is read from globals.
type Deps struct {
	States      *states.Service
	Credentials auth.CredentialSource
	Health      *health.Manager // optional; probes are not mounted when nil

	// TracingService names otelhttp spans; empty disables HTTP tracing.
	TracingService string
	MaxBodyBytes   int64
}

// Server is the HTTP API.
type Server struct {
	states       *states.Service
	creds        auth.CredentialSource
	health       *health.Manager
	maxBodyBytes int64
	router       chi.Router
}

// New validates deps and builds the router.
func New(deps Deps) (*Server, error) {
	if deps.States == nil {
		return nil, errors.New("api: states service is required")
	}
	if deps.Credentials == nil {
		return nil, errors.New("api: credential source is required")
	}

	s := &Server{
		states:       deps.States,
		creds:        deps.Credentials,
		health:       deps.Health,
		maxBodyBytes: deps.MaxBodyBytes,
	}
	if s.maxBodyBytes <= 0 {
		s.maxBodyBytes = DefaultMaxBodyBytes
	}
	s.router = s.routes(deps.TracingService)
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes(tracingService string) chi.Router {
	r := middleware.NewRouter(middleware.StackConfig{
		EnableSecurityHeaders: true,
		EnableMetrics:         true,
		TracingService:        tracingService,
		EnableLogging:         true,
	})

	if s.health != nil {
		r.Get("/healthz", s.health.ServeHealth)
		r.Get("/readyz", s.health.ServeReady)
	}

	r.Route("/states", func(r chi.Router) {
		r.Use(s.basicAuth)
		r.Post("/now", s.handleRecordNow)
		r.Get("/{prefix}", s.handleListByPrefix)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}
