// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"net/http"

	"github.com/ManuGH/yaruki/internal/log"
)

// errorResponse is the body of every non-2xx state route response.
type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.FromContext(r.Context()).Warn().Err(err).
			Str(log.FieldEvent, "response.encode_error").
			Msg("failed to encode response")
	}
}

// writeError writes {ok:false,error:msg}.
func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	writeJSON(w, r, code, errorResponse{OK: false, Error: msg})
}

// writeInternal logs err and writes a 500 without leaking the cause.
func writeInternal(w http.ResponseWriter, r *http.Request, event string, err error) {
	log.FromContext(r.Context()).Error().Err(err).
		Str(log.FieldEvent, event).
		Msg("request failed")
	writeError(w, r, http.StatusInternalServerError, "internal error")
}

// writeUnauthorized writes a 401 with a basic-auth challenge.
func writeUnauthorized(w http.ResponseWriter, r *http.Request, challenge string) {
	w.Header().Set("WWW-Authenticate", challenge)
	writeError(w, r, http.StatusUnauthorized, "unauthorized")
}
