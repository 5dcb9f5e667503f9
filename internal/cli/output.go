// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// OutputFormatter writes command results as text or JSON.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// JSON writes v as indented JSON.
func (f *OutputFormatter) JSON(v any) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Textf writes a formatted line.
func (f *OutputFormatter) Textf(format string, args ...any) {
	_, _ = fmt.Fprintf(f.Writer, format+"\n", args...)
}

// IsJSON reports whether JSON output was requested.
func (f *OutputFormatter) IsJSON() bool { return f.Format == "json" }
