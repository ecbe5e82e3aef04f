// Package main is the entry point for the slicekit CLI tool.
package main

import (
	"os"

	"github.com/slicekit/slicekit/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
