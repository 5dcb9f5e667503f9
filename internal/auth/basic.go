// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package auth implements shared-credential HTTP basic authentication.
package auth

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
)

// Credentials is the single username/password pair accepted by the server.
type Credentials struct {
	Username string
	Password string
	Realm    string
}

// Configured reports whether both username and password are non-empty.
func (c Credentials) Configured() bool {
	return strings.TrimSpace(c.Username) != "" && c.Password != ""
}

// Challenge returns the WWW-Authenticate header value for these credentials.
func (c Credentials) Challenge() string {
	realm := c.Realm
	if realm == "" {
		realm = DefaultRealm
	}
	return "Basic realm=" + strconv.Quote(realm) + `, charset="UTF-8"`
}

// DefaultRealm is used when no realm is configured.
const DefaultRealm = "yaruki"

// Reason classifies a rejected request.
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonMissing      Reason = "missing"
	ReasonInvalid      Reason = "invalid"
	ReasonUnconfigured Reason = "unconfigured"
)

// Authorize checks the request's basic-auth header against want. It returns the
// accepted principal, or a non-empty Reason when the request must be rejected.
// Unconfigured credentials reject every request.
func Authorize(r *http.Request, want Credentials) (Principal, Reason) {
	if !want.Configured() {
		return Principal{}, ReasonUnconfigured
	}
	user, pass, ok := r.BasicAuth()
	if !ok {
		return Principal{}, ReasonMissing
	}
	if !Equal(user, want.Username) || !Equal(pass, want.Password) {
		return Principal{}, ReasonInvalid
	}
	return Principal{User: user}, ReasonNone
}

// Equal compares got and expected in constant time. Empty values never match.
func Equal(got, expected string) bool {
	if got == "" || expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(expected)) == 1
}

// CredentialSource supplies the currently accepted credentials.
type CredentialSource interface {
	Credentials() Credentials
}

// Static is a CredentialSource that never changes.
type Static Credentials

func (s Static) Credentials() Credentials { return Credentials(s) }

// Holder is a CredentialSource that can be swapped atomically, e.g. on config reload.
type Holder struct {
	v atomic.Pointer[Credentials]
}

// NewHolder creates a Holder with the initial credentials.
func NewHolder(c Credentials) *Holder {
	h := &Holder{}
	h.Set(c)
	return h
}

// Set replaces the stored credentials.
func (h *Holder) Set(c Credentials) {
	h.v.Store(&c)
}

// Credentials returns the current credentials.
func (h *Holder) Credentials() Credentials {
	if c := h.v.Load(); c != nil {
		return *c
	}
	return Credentials{}
}
