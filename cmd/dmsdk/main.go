// Package main is the entry point for the dmsdk command-line tool.
package main

import (
	"os"

	"github.com/pixie79/data-modelling-sdk-sub000/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
