// Package main provides the uomc command-line compiler for units-of-measure definitions.
package main

import (
	"os"

	"github.com/leapstack-labs/uomc/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
