// Package main provides the entry point for the modcatalog CLI tool.
package main

import (
	"context"
	"os"

	"github.com/agentstation/modcatalog/cmd/modcatalog/app"
)

// Version information populated at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	application, err := app.New(version, commit, date, builtBy)
	if err != nil {
		app.ExitOnError(err)
	}

	// Cancelling on SIGINT/SIGTERM aborts an update run without saving
	ctx, cancel := app.ContextWithSignals(context.Background())
	defer cancel()

	if err := application.Execute(ctx, os.Args[1:]); err != nil {
		app.ExitOnError(err)
	}
}
