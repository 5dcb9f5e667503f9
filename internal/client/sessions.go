// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package client

import (
	"time"

	"github.com/ManuGH/yaruki/internal/states"
)

// Values posted by the switch device.
const (
	StateOn  = "on"
	StateOff = "off"
)

// Session is one on→off span. End is zero while the session is still open.
type Session struct {
	Start time.Time
	End   time.Time
}

// Duration returns End-Start, or zero for an open session.
func (s Session) Duration() time.Duration {
	if s.End.IsZero() {
		return 0
	}
	return s.End.Sub(s.Start)
}

// Sessions pairs "on" records with the next "off" record. Results must be in
// key order as returned by List. Repeated "on" values keep the first start,
// stray "off" values are ignored, and records without a value or timestamp
// are skipped.
func Sessions(results []states.Result) []Session {
	var (
		out  []Session
		open *Session
	)
	for _, r := range results {
		if r.Value == nil || r.Timestamp == nil {
			continue
		}
		at := time.UnixMilli(*r.Timestamp)
		switch *r.Value {
		case StateOn:
			if open == nil {
				open = &Session{Start: at}
			}
		case StateOff:
			if open != nil {
				open.End = at
				out = append(out, *open)
				open = nil
			}
		}
	}
	if open != nil {
		out = append(out, *open)
	}
	return out
}
