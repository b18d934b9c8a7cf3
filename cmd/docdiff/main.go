// Package main is the entry point for the docdiff command line tool.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Shimizu-Technology/doc-compare-api/internal/cli"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	cli.SetVersion(Version)

	if err := cli.Execute(); err != nil {
		if errors.Is(err, cli.ErrDifferencesFound) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}
}
