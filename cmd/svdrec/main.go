// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package main is the entry point for svdrec, a rating predictor based on
// biased matrix factorization.
//
// # Commands
//
//	svdrec [-config file] predict <testFile> <resultFile> <trainFile>...
//	svdrec [-config file] evaluate <labeledFile> <trainFile>...
//	svdrec [-config file] serve [-retrain interval] <trainFile>...
//
// The predict word may be omitted:
//
//	svdrec test.csv result.csv train1.csv train2.csv
//
// Training files are CSV with a header line and rows user,item,rating.
// Test files have rows id,user,item. The result file gets the header
// id,rating and one row per test row, in input order.
//
// # Configuration
//
// Hyperparameters, logging and HTTP settings come from the layered koanf
// configuration (defaults, then YAML file, then environment). See the
// config package for every key. Common overrides:
//
//	SVDREC_FACTORS=20 SVDREC_MAX_EPOCHS=200 LOG_LEVEL=debug svdrec predict ...
//
// # Exit Codes
//
//	0  success, including a model that hit the epoch cap without converging
//	1  runtime failure (unreadable file, training error)
//	2  usage error
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel training. In serve mode they shut the HTTP server
// down gracefully within HTTP_SHUTDOWN_TIMEOUT.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/svdrec/internal/config"
	"github.com/tomtom215/svdrec/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// errUsage marks errors that should print usage and exit with exitUsage.
var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// command is one subcommand. args excludes the subcommand word.
type command func(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error

var commands = map[string]command{
	"predict":  runPredict,
	"evaluate": runEvaluate,
	"serve":    runServe,
}

// run parses global flags, loads configuration and dispatches to a command.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("svdrec", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to a YAML config file (overrides CONFIG_PATH)")
	showVersion := fs.Bool("version", false, "print the version and exit")
	fs.Usage = func() { printUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if *showVersion {
		fmt.Fprintln(stdout, version)
		return exitOK
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fmt.Fprintln(stderr, "svdrec: too few arguments")
		printUsage(stderr)
		return exitUsage
	}

	cmd, ok := commands[rest[0]]
	if ok {
		rest = rest[1:]
	} else {
		cmd = runPredict
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "svdrec: %v\n", err)
		return exitError
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    stderr,
	})

	if err := cmd(ctx, cfg, rest, stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "svdrec: %v\n", err)
			printUsage(stderr)
			return exitUsage
		}
		logging.Error().Err(err).Msg("Command failed")
		return exitError
	}
	return exitOK
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `Usage:
  svdrec [-config file] [predict] <testFile> <resultFile> <trainFile>...
  svdrec [-config file] evaluate <labeledFile> <trainFile>...
  svdrec [-config file] serve [-retrain interval] <trainFile>...
`)
}
