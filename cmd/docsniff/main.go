// Package main provides the docsniff command-line tool.
package main

import (
	"os"

	"github.com/leapstack-labs/docsniff/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
