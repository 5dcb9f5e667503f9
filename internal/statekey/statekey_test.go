// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package statekey

import (
	"errors"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keyPattern = regexp.MustCompile(`^\d{14}:\d+$`)

func tokyo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := LoadZone("")
	require.NoError(t, err)
	return loc
}

func TestEncode_TokyoPrefix(t *testing.T) {
	// 2024-01-01 03:00:00 UTC is 12:00:00 in Tokyo.
	at := time.Date(2024, 1, 1, 3, 0, 0, 0, time.UTC)
	key := Encode(at, tokyo(t))

	assert.Equal(t, "20240101120000:"+strconv.FormatInt(at.UnixMilli(), 10), key)
	assert.Equal(t, "20240101120000:1704078000000", key)
	assert.Regexp(t, keyPattern, key)
}

func TestEncode_DayRollsOverInZone(t *testing.T) {
	at := time.Date(2023, 12, 31, 16, 30, 5, 0, time.UTC)
	assert.Equal(t, "20240101013005", SortablePrefix(Encode(at, tokyo(t))))
}

func TestEncode_NilLocationIsUTC(t *testing.T) {
	at := time.Date(2024, 6, 1, 9, 8, 7, 0, time.UTC)
	assert.Equal(t, "20240601090807", SortablePrefix(Encode(at, nil)))
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	loc := tokyo(t)
	base := time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC)
	for _, offset := range []time.Duration{0, time.Millisecond, 999 * time.Millisecond, 36 * time.Hour} {
		at := base.Add(offset)
		key := Encode(at, loc)

		ts, err := DecodeTimestamp(key)
		require.NoError(t, err)
		assert.Equal(t, at.UnixMilli(), ts, "key %s", key)
		assert.Len(t, SortablePrefix(key), SortableLen)
	}
}

func TestEncode_SortsChronologically(t *testing.T) {
	loc := tokyo(t)
	earlier := Encode(time.Date(2024, 1, 1, 0, 0, 59, 0, time.UTC), loc)
	later := Encode(time.Date(2024, 1, 1, 0, 1, 0, 0, time.UTC), loc)
	assert.Less(t, earlier, later)

	sameSecondA := Encode(time.Date(2024, 1, 1, 0, 0, 0, 1e6, time.UTC), loc)
	sameSecondB := Encode(time.Date(2024, 1, 1, 0, 0, 0, 2e6, time.UTC), loc)
	assert.NotEqual(t, sameSecondA, sameSecondB)
	assert.Less(t, sameSecondA, sameSecondB)
}

func TestDecodeTimestamp(t *testing.T) {
	tests := []struct {
		key     string
		want    int64
		wantErr bool
	}{
		{key: "20240101120000:1704078000000", want: 1704078000000},
		{key: "a:b:c:42", want: 42},
		{key: "1234", want: 1234},
		{key: "x: 7 ", want: 7},
		{key: "trailing:", want: 0},
		{key: "20240101120000:abc", wantErr: true},
		{key: "20240101120000:1.5", wantErr: true},
		{key: "20240101120000:1e3", wantErr: true},
		{key: "20240101120000:0x1A", wantErr: true},
		{key: "20240101120000:Infinity", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := DecodeTimestamp(tt.key)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrMalformedKey))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadZone_Invalid(t *testing.T) {
	_, err := LoadZone("Nowhere/Atlantis")
	require.Error(t, err)
}
