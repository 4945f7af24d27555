// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

// Command nichectl is the NicheCompass operator CLI.
//
// It reads the same configuration as the server (config.yaml and
// environment variables) and works directly against the artifact store and
// the training data source, so it can run with the server stopped.
//
//	nichectl seed -per-niche 20          # write synthetic samples to the data source
//	nichectl seed -out samples.yaml      # or to a JSON/YAML file
//	nichectl validate                    # print the data-quality report
//	nichectl train                       # train once and persist an artifact
//	nichectl predict -features 3,2,500,20,0.6,0.4
//	nichectl versions -o json            # list persisted artifacts
//	nichectl versions -version 3         # metadata of one artifact
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
)

// errUsage marks a command-line mistake; the usage text has already been
// printed.
var errUsage = errors.New("usage error")

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, c *cli, args []string) error
}

var commands = []command{
	{"seed", "write synthetic training samples", runSeed},
	{"validate", "print the data-quality report of the training data", runValidate},
	{"train", "run one training pass and persist the artifact", runTrain},
	{"predict", "predict niches for a feature vector with the latest artifact", runPredict},
	{"versions", "list persisted model artifacts", runVersions},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one subcommand and returns the process exit code:
// 0 on success, 1 on failure, 2 on a usage error.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	c := &cli{stdout: stdout, stderr: stderr}

	if len(args) == 0 {
		c.usage()
		return 2
	}
	name := args[0]
	if name == "help" || name == "-h" || name == "--help" {
		c.usage()
		return 0
	}

	for _, cmd := range commands {
		if cmd.name != name {
			continue
		}
		err := cmd.run(ctx, c, args[1:])
		switch {
		case err == nil:
			return 0
		case errors.Is(err, flag.ErrHelp):
			return 0
		case errors.Is(err, errUsage):
			return 2
		default:
			fmt.Fprintf(stderr, "nichectl %s: %v\n", name, err)
			return 1
		}
	}

	fmt.Fprintf(stderr, "nichectl: unknown command %q\n\n", name)
	c.usage()
	return 2
}

func (c *cli) usage() {
	fmt.Fprintln(c.stderr, "Usage: nichectl <command> [flags]")
	fmt.Fprintln(c.stderr)
	fmt.Fprintln(c.stderr, "Commands:")
	for _, cmd := range commands {
		fmt.Fprintf(c.stderr, "  %-10s %s\n", cmd.name, cmd.summary)
	}
	fmt.Fprintln(c.stderr)
	fmt.Fprintln(c.stderr, "Run 'nichectl <command> -h' for command flags.")
}
