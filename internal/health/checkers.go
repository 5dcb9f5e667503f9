// SPDX-License-Identifier: MIT

package health

import (
	"context"
)

// Pinger is the part of a store a readiness check needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StoreChecker reports the state of the key-value store.
type StoreChecker struct {
	backend string
	store   Pinger
}

// NewStoreChecker creates a checker that pings store.
func NewStoreChecker(backend string, store Pinger) *StoreChecker {
	return &StoreChecker{backend: backend, store: store}
}

func (c *StoreChecker) Name() string { return "store" }

func (c *StoreChecker) Check(ctx context.Context) CheckResult {
	if err := c.store.Ping(ctx); err != nil {
		return CheckResult{
			Status:  StatusUnhealthy,
			Message: c.backend,
			Error:   err.Error(),
		}
	}
	return CheckResult{Status: StatusHealthy, Message: c.backend}
}

// CredentialsChecker reports whether basic-auth credentials are configured.
// Without them every state request is rejected.
type CredentialsChecker struct {
	configured func() bool
}

// NewCredentialsChecker creates a checker backed by configured.
func NewCredentialsChecker(configured func() bool) *CredentialsChecker {
	return &CredentialsChecker{configured: configured}
}

func (c *CredentialsChecker) Name() string { return "credentials" }

func (c *CredentialsChecker) Check(context.Context) CheckResult {
	if !c.configured() {
		return CheckResult{
			Status:  StatusDegraded,
			Message: "no credentials configured; all state requests are rejected",
		}
	}
	return CheckResult{Status: StatusHealthy}
}
