// SPDX-License-Identifier: MIT

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveStoreOp_CountsOutcome(t *testing.T) {
	okBefore := testutil.ToFloat64(StoreOperations.WithLabelValues("memory", "put", OutcomeSuccess))
	failBefore := testutil.ToFloat64(StoreOperations.WithLabelValues("memory", "put", OutcomeFailure))

	ObserveStoreOp("memory", "put", time.Now(), nil)
	ObserveStoreOp("memory", "put", time.Now(), errors.New("boom"))
	ObserveStoreOp("memory", "put", time.Now(), nil)

	if got := testutil.ToFloat64(StoreOperations.WithLabelValues("memory", "put", OutcomeSuccess)) - okBefore; got != 2 {
		t.Errorf("success delta = %v, want 2", got)
	}
	if got := testutil.ToFloat64(StoreOperations.WithLabelValues("memory", "put", OutcomeFailure)) - failBefore; got != 1 {
		t.Errorf("failure delta = %v, want 1", got)
	}
}

func TestRecordStateWriteAndAuthFailures(t *testing.T) {
	before := testutil.ToFloat64(StatesRecorded.WithLabelValues(OutcomeSuccess))
	RecordStateWrite(nil)
	if got := testutil.ToFloat64(StatesRecorded.WithLabelValues(OutcomeSuccess)) - before; got != 1 {
		t.Errorf("recorded delta = %v, want 1", got)
	}

	authBefore := testutil.ToFloat64(AuthFailures.WithLabelValues("invalid"))
	IncAuthFailure("invalid")
	if got := testutil.ToFloat64(AuthFailures.WithLabelValues("invalid")) - authBefore; got != 1 {
		t.Errorf("auth failure delta = %v, want 1", got)
	}
}

func TestIncCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(CacheLookups.WithLabelValues("hit"))
	misses := testutil.ToFloat64(CacheLookups.WithLabelValues("miss"))
	IncCacheLookup(true)
	IncCacheLookup(false)
	IncCacheLookup(false)
	if got := testutil.ToFloat64(CacheLookups.WithLabelValues("hit")) - hits; got != 1 {
		t.Errorf("hit delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(CacheLookups.WithLabelValues("miss")) - misses; got != 2 {
		t.Errorf("miss delta = %v, want 2", got)
	}
}

func TestCircuitBreakerMetrics(t *testing.T) {
	SetCircuitBreakerState("store", "open")
	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("store")); got != 2 {
		t.Errorf("open state = %v, want 2", got)
	}
	SetCircuitBreakerState("store", "closed")
	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("store")); got != 0 {
		t.Errorf("closed state = %v, want 0", got)
	}

	before := testutil.ToFloat64(CircuitBreakerTrips.WithLabelValues("store", "threshold_exceeded"))
	RecordCircuitBreakerTrip("store", "threshold_exceeded")
	if got := testutil.ToFloat64(CircuitBreakerTrips.WithLabelValues("store", "threshold_exceeded")) - before; got != 1 {
		t.Errorf("trip delta = %v, want 1", got)
	}
}
