// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package statekey encodes record timestamps into store keys and back.
//
// A key has the form "<YYYYMMDDHHmmss>:<epochMillis>". The date-time prefix is
// rendered in a fixed zone so that keys sort chronologically under plain
// lexicographic ordering; the millisecond suffix disambiguates writes that
// land in the same second.
package statekey
