// Package main is the entrypoint of mediadl.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mediadl/internal/app"
	"mediadl/internal/cfg"
	"mediadl/internal/domain/consts"
	"mediadl/internal/domain/paths"
	"mediadl/internal/utils/logging"
)

// main is the main entrypoint of the program.
func main() {
	os.Exit(run())
}

// run returns the process exit code.
func run() int {
	startTime := time.Now()

	if err := paths.InitProgFilesDirs(); err != nil {
		fmt.Fprintf(os.Stderr, "%s exiting with error: %v\n", consts.ProgramName, err)
		return 1
	}

	logFile, err := logging.SetupLogging(paths.LogFilePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not set up logging, proceeding without: %v\n", err)
	} else {
		defer logFile.Close()
	}
	logging.D(1, "%s (PID: %d) started at: %v", consts.ProgramName, os.Getpid(), startTime.Format(consts.TimeFormatLog))

	// Cancellable context for shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a := app.New(os.Stdin, os.Stdout)
	defer cleanup(a, startTime)

	if err := cfg.Execute(ctx, a); err != nil {
		switch {
		case ctx.Err() != nil:
			fmt.Fprintln(os.Stdout, "\n\nExiting...")
			return 130
		case errors.Is(err, app.ErrDownloadsFailed):
			logging.W("%v", err)
		default:
			logging.E("%v", err)
		}
		return 1
	}
	if ctx.Err() != nil {
		return 130
	}
	return 0
}

// cleanup closes the database and logs the run time.
func cleanup(a *app.App, startTime time.Time) {
	if err := a.Close(); err != nil {
		logging.E("Failed to close database: %v", err)
	}
	logging.D(1, "%s finished in %v", consts.ProgramName, time.Since(startTime).Round(time.Millisecond))
}
