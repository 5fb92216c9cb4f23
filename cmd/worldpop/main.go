// Package main provides the worldpop CLI for world population reports.
package main

import (
	"os"

	"github.com/leapstack-labs/worldpop/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
