// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/ManuGH/yaruki/internal/log"
	"github.com/ManuGH/yaruki/internal/states"
)

type recordResponse struct {
	OK        bool   `json:"ok"`
	Timestamp int64  `json:"timestamp"`
	Key       string `json:"key"`
	Value     string `json:"value"`
}

type listResponse struct {
	OK      bool            `json:"ok"`
	Results []states.Result `json:"results"`
}

// handleRecordNow implements POST /states/now.
func (s *Server) handleRecordNow(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, r, http.StatusBadRequest, "failed to read request body")
		return
	}

	value, err := states.StateFromBody(body)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	rec, err := s.states.Record(r.Context(), value)
	if err != nil {
		writeInternal(w, r, "state.record_failed", err)
		return
	}

	log.FromContext(r.Context()).Info().
		Str(log.FieldEvent, "state.recorded").
		Str(log.FieldKey, rec.Key).
		Int64(log.FieldTimestamp, rec.Timestamp).
		Msg("state recorded")

	writeJSON(w, r, http.StatusCreated, recordResponse{
		OK:        true,
		Timestamp: rec.Timestamp,
		Key:       rec.Key,
		Value:     rec.Value,
	})
}

// handleListByPrefix implements GET /states/{prefix}.
func (s *Server) handleListByPrefix(w http.ResponseWriter, r *http.Request) {
	// chi matches on RawPath when the request carried an encoding that Path
	// cannot represent (such as %2F); only then is the param still escaped.
	prefix := chi.URLParam(r, "prefix")
	if r.URL.RawPath != "" {
		var err error
		if prefix, err = url.PathUnescape(prefix); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid prefix")
			return
		}
	}

	results, err := s.states.List(r.Context(), prefix)
	if err != nil {
		writeInternal(w, r, "state.list_failed", err)
		return
	}

	writeJSON(w, r, http.StatusOK, listResponse{OK: true, Results: results})
}
