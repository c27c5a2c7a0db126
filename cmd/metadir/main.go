// Package main provides the metadir CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/metadir/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
