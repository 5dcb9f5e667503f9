// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package statekey

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // Asia/Tokyo must resolve on hosts without zoneinfo
)

// DefaultZone is the zone used for the sortable prefix unless configured otherwise.
const DefaultZone = "Asia/Tokyo"

// Separator splits the sortable prefix from the millisecond suffix.
const Separator = ":"

// sortableLayout renders YYYYMMDDHHmmss.
const sortableLayout = "20060102150405"

// SortableLen is the length of the date-time prefix.
const SortableLen = len(sortableLayout)

// ErrMalformedKey is returned when the suffix of a key is not an integer.
var ErrMalformedKey = errors.New("statekey: malformed key")

// Encode builds the composite key for t, rendering the prefix in loc.
// A nil loc uses UTC.
func Encode(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(sortableLayout) + Separator + strconv.FormatInt(t.UnixMilli(), 10)
}

// DecodeTimestamp returns the epoch milliseconds stored after the final
// separator. A key without a separator is parsed as a whole. Surrounding
// whitespace is ignored and an empty suffix decodes to 0.
func DecodeTimestamp(key string) (int64, error) {
	suffix := key
	if i := strings.LastIndex(key, Separator); i >= 0 {
		suffix = key[i+len(Separator):]
	}
	suffix = strings.TrimSpace(suffix)
	if suffix == "" {
		return 0, nil
	}
	ms, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedKey, key)
	}
	return ms, nil
}

// SortablePrefix returns the date-time segment of key, or the whole key when
// it has no separator.
func SortablePrefix(key string) string {
	if i := strings.LastIndex(key, Separator); i >= 0 {
		return key[:i]
	}
	return key
}

// LoadZone resolves an IANA zone name, falling back to DefaultZone for "".
func LoadZone(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("statekey: load zone %q: %w", name, err)
	}
	return loc, nil
}
