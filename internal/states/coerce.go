// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package states

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidBody is returned when a request body is not valid JSON.
var ErrInvalidBody = errors.New("states: request body is not valid JSON")

// StateFromBody extracts the "state" member of a JSON request body and coerces
// it to a string. An empty body, a body that is not an object, and a missing or
// null state all yield "".
func StateFromBody(body []byte) (string, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return "", nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	if dec.More() {
		return "", fmt.Errorf("%w: trailing data", ErrInvalidBody)
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return "", nil
	}
	return Coerce(obj["state"]), nil
}

// Coerce converts a decoded JSON value to the string a JavaScript String()
// call would produce, with null treated as empty:
//
//	"on"      -> on
//	1.50      -> 1.5
//	1e21      -> 1e+21
//	true      -> true
//	null      -> ""
//	[1,null]  -> 1,
//	{"a":1}   -> [object Object]
func Coerce(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return formatNumber(string(x))
	case float64:
		return formatFloat(x)
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = Coerce(e)
		}
		return strings.Join(parts, ",")
	case map[string]any:
		return "[object Object]"
	default:
		return fmt.Sprint(x)
	}
}

func formatNumber(s string) string {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Out-of-range literals still carry ±Inf or 0, as in ECMAScript.
		var ne *strconv.NumError
		if !errors.As(err, &ne) || !errors.Is(ne.Err, strconv.ErrRange) {
			return s
		}
	}
	return formatFloat(f)
}

// formatFloat renders f the way ECMAScript Number::toString does.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	// Go pads the exponent to two digits; ECMAScript does not.
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mant + "e" + sign + digits
}
