package main

import (
	"context"
	"os"
)

const defaultVersion = "dev"

// Version information (set by GoReleaser)
var (
	version = defaultVersion
	_       = "none"    // commit - set by GoReleaser but not used
	_       = "unknown" // date - set by GoReleaser but not used
)

func main() {
	initVersion()

	app := newApp()
	if err := app.Run(context.Background(), os.Args); err != nil {
		os.Exit(reportError(os.Stderr, err))
	}
}
