// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/tomtom215/nichecompass/internal/config"
	"github.com/tomtom215/nichecompass/internal/logging"
	"github.com/tomtom215/nichecompass/internal/recommend"
	"github.com/tomtom215/nichecompass/internal/recommend/storage"
)

// cli carries the output streams shared by every command.
type cli struct {
	stdout io.Writer
	stderr io.Writer
}

// commonFlags are accepted by every command.
type commonFlags struct {
	configPath string
	output     string
	logLevel   string
}

// flagSet returns a FlagSet for name with the common flags registered.
func (c *cli) flagSet(name, synopsis string) (*flag.FlagSet, *commonFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)

	common := &commonFlags{}
	fs.StringVar(&common.configPath, "config", "", "config file (default: CONFIG_PATH or ./config.yaml)")
	fs.StringVar(&common.output, "o", "yaml", "output format: yaml or json")
	fs.StringVar(&common.logLevel, "log-level", "warn", "log level: trace, debug, info, warn, error")

	fs.Usage = func() {
		fmt.Fprintf(c.stderr, "Usage: nichectl %s\n\nFlags:\n", synopsis)
		fs.PrintDefaults()
	}
	return fs, common
}

// parse parses args and maps flag errors to errUsage.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return err
		}
		return errUsage
	}
	return nil
}

// setup validates the common flags, configures console logging on stderr
// and loads the configuration.
func (c *cli) setup(common *commonFlags) (*config.Config, error) {
	if common.output != "yaml" && common.output != "json" {
		fmt.Fprintf(c.stderr, "invalid -o %q: want yaml or json\n", common.output)
		return nil, errUsage
	}
	if !logging.ValidLevel(common.logLevel) {
		fmt.Fprintf(c.stderr, "invalid -log-level %q\n", common.logLevel)
		return nil, errUsage
	}

	logging.Init(logging.Config{
		Level:     common.logLevel,
		Format:    "console",
		Timestamp: true,
		Output:    c.stderr,
	})

	var (
		cfg *config.Config
		err error
	)
	if common.configPath != "" {
		cfg, err = config.LoadFile(common.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	logging.Debug().
		Str("model_dir", cfg.Model.Dir).
		Str("datasource", cfg.DataSource.Type).
		Msg("Configuration loaded")
	return cfg, nil
}

// newEngine opens the artifact store and creates an engine without a data
// source.
func newEngine(cfg *config.Config) (*recommend.Engine, error) {
	store, err := storage.NewStore(cfg.Model.Dir)
	if err != nil {
		return nil, fmt.Errorf("open model store: %w", err)
	}
	rc, err := cfg.Recommend()
	if err != nil {
		return nil, err
	}
	return recommend.NewEngine(rc, store, logging.Logger())
}

// print writes v to stdout. YAML output goes through the JSON encoding first
// so both formats use the same snake_case field names.
func (c *cli) print(format string, v any) error {
	if format == "json" {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		_, err = fmt.Fprintln(c.stdout, string(data))
		return err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}

	enc := yaml.NewEncoder(c.stdout)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return enc.Close()
}
