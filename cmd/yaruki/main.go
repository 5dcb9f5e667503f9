// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Command yaruki runs the state recorder daemon and its client commands.
package main

import (
	"os"

	"github.com/ManuGH/yaruki/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
