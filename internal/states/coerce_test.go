// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package states

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateFromBody_Coercion(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`"on"`, "on"},
		{`""`, ""},
		{`null`, ""},
		{`true`, "true"},
		{`false`, "false"},
		{`1`, "1"},
		{`-0`, "0"},
		{`1.50`, "1.5"},
		{`0.1`, "0.1"},
		{`0.000001`, "0.000001"},
		{`1e-7`, "1e-7"},
		{`1.5e-7`, "1.5e-7"},
		{`1e20`, "100000000000000000000"},
		{`1e21`, "1e+21"},
		{`123456789012345678901234`, "1.2345678901234568e+23"},
		{`1e400`, "Infinity"},
		{`-1e400`, "-Infinity"},
		{`1e-400`, "0"},
		{`[]`, ""},
		{`[1,"a",null,true]`, "1,a,,true"},
		{`[[1,2],[3]]`, "1,2,3"},
		{`[{}]`, "[object Object]"},
		{`{"a":1}`, "[object Object]"},
		{`"日本語"`, "日本語"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := StateFromBody([]byte(`{"state":` + tt.raw + `}`))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStateFromBody(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string state", `{"state":"on"}`, "on"},
		{"number state", `{"state":42}`, "42"},
		{"null state", `{"state":null}`, ""},
		{"missing state", `{"other":"x"}`, ""},
		{"empty object", `{}`, ""},
		{"empty body", ``, ""},
		{"whitespace body", "  \n", ""},
		{"non-object body", `"on"`, ""},
		{"array body", `[1,2]`, ""},
		{"null body", `null`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StateFromBody([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStateFromBody_Invalid(t *testing.T) {
	for _, body := range []string{`{`, `state=on`, `{"state":"on"} {}`} {
		_, err := StateFromBody([]byte(body))
		assert.ErrorIs(t, err, ErrInvalidBody, body)
	}
}

func TestCoerce_Float64(t *testing.T) {
	assert.Equal(t, "2.5", Coerce(2.5))
	assert.Equal(t, "NaN", formatFloat(nanValue()))
}
