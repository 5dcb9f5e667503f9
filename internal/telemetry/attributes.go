// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for consistent tracing across the application.
const (
	StoreBackendKey = "kv.backend"
	StoreOpKey      = "kv.op"
	StoreKeyKey     = "kv.key"
	StorePrefixKey  = "kv.prefix"
	StoreCountKey   = "kv.count"

	StateKeyKey       = "state.key"
	StateTimestampKey = "state.timestamp"
)

// StoreAttributes creates span attributes for one store call.
func StoreAttributes(backend, op string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(StoreBackendKey, backend),
		attribute.String(StoreOpKey, op),
	}
}

// StateAttributes creates span attributes for a recorded state.
func StateAttributes(key string, timestamp int64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(StateKeyKey, key),
		attribute.Int64(StateTimestampKey, timestamp),
	}
}
