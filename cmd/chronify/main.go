// Package main is the entry point for the chronify CLI tool.
package main

import (
	"os"

	"github.com/aidanlsb/chronify/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
