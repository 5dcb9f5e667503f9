// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID = "request_id"
	FieldUser      = "user"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// State fields
	FieldKey       = "key"
	FieldPrefix    = "prefix"
	FieldTimestamp = "timestamp"
	FieldCount     = "count"

	// Storage fields
	FieldBackend = "backend"
	FieldOp      = "op"

	// HTTP fields
	FieldMethod   = "method"
	FieldPath     = "path"
	FieldRoute    = "route"
	FieldStatus   = "status"
	FieldBytes    = "bytes"
	FieldDuration = "duration_ms"
	FieldRemote   = "remote_addr"
)
