// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"net/http"

	"github.com/ManuGH/yaruki/internal/auth"
	"github.com/ManuGH/yaruki/internal/log"
	"github.com/ManuGH/yaruki/internal/metrics"
)

// basicAuth rejects requests without the configured credentials before any
// handler (and therefore the store) runs. Credentials are re-read per request
// so a config reload takes effect immediately.
func (s *Server) basicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		creds := s.creds.Credentials()
		principal, reason := auth.Authorize(r, creds)
		if reason != auth.ReasonNone {
			metrics.IncAuthFailure(string(reason))
			logger := log.WithComponentFromContext(r.Context(), "auth")
			evt := logger.Warn()
			if reason == auth.ReasonUnconfigured {
				// Fail closed.
				evt = logger.Error()
			}
			evt.Str(log.FieldEvent, "auth."+string(reason)).
				Str(log.FieldPath, r.URL.Path).
				Msg("basic auth rejected")
			writeUnauthorized(w, r, creds.Challenge())
			return
		}

		ctx := auth.WithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
