// Package main is the entry point for the places schema migration tool.
package main

import (
	"os"

	"github.com/onnwee/places/cmd/migrate/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
