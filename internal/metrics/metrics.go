// SPDX-License-Identifier: MIT

// Package metrics holds the Prometheus collectors for state recording and storage.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Collectors read by tests in other packages are exported.
var (
	StoreOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yaruki_store_operations_total",
		Help: "Key-value store operations by backend, operation and outcome",
	}, []string{"backend", "op", "outcome"})

	storeOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "yaruki_store_operation_duration_seconds",
		Help:    "Key-value store operation latency in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
	}, []string{"backend", "op"})

	StatesRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yaruki_states_recorded_total",
		Help: "State write attempts by outcome",
	}, []string{"outcome"})

	statesListedRecords = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "yaruki_states_list_results",
		Help:    "Number of records returned per prefix query",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})

	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yaruki_auth_failures_total",
		Help: "Rejected basic-auth attempts by reason",
	}, []string{"reason"}) // reason=missing|invalid|unconfigured

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yaruki_value_cache_lookups_total",
		Help: "Read-through value cache lookups by result",
	}, []string{"result"}) // result=hit|miss

	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "yaruki_circuit_breaker_state",
		Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
	}, []string{"name"})

	CircuitBreakerTrips = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yaruki_circuit_breaker_trips_total",
		Help: "Transitions into the open state by reason",
	}, []string{"name", "reason"})
)

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

// ObserveStoreOp records the outcome and latency of one store call.
func ObserveStoreOp(backend, op string, started time.Time, err error) {
	StoreOperations.WithLabelValues(backend, op, outcome(err)).Inc()
	storeOperationDuration.WithLabelValues(backend, op).Observe(time.Since(started).Seconds())
}

// RecordStateWrite counts one state write attempt.
func RecordStateWrite(err error) {
	StatesRecorded.WithLabelValues(outcome(err)).Inc()
}

// ObserveListResults records the size of one prefix query result.
func ObserveListResults(n int) {
	statesListedRecords.Observe(float64(n))
}

// IncAuthFailure counts a rejected request.
func IncAuthFailure(reason string) {
	AuthFailures.WithLabelValues(reason).Inc()
}

// IncCacheLookup counts a value cache hit or miss.
func IncCacheLookup(hit bool) {
	if hit {
		CacheLookups.WithLabelValues("hit").Inc()
		return
	}
	CacheLookups.WithLabelValues("miss").Inc()
}

// SetCircuitBreakerState publishes the breaker state as a gauge value.
func SetCircuitBreakerState(name, state string) {
	var v float64
	switch state {
	case "half-open":
		v = 1
	case "open":
		v = 2
	}
	CircuitBreakerState.WithLabelValues(name).Set(v)
}

// RecordCircuitBreakerTrip counts a breaker opening.
func RecordCircuitBreakerTrip(name, reason string) {
	CircuitBreakerTrips.WithLabelValues(name, reason).Inc()
}
