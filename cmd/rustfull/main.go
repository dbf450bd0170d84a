// Package main provides the rustfull project generator CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/rustfull/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
