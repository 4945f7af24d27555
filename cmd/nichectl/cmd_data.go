// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/tomtom215/nichecompass/internal/logging"
	"github.com/tomtom215/nichecompass/internal/recommend/dataset"
)

// errQualityFailed is returned by validate after printing a report with
// blocking issues.
var errQualityFailed = errors.New("training data has blocking quality issues")

// SeedResult is the seed command output.
type SeedResult struct {
	Target   string `json:"target"`
	Cleared  bool   `json:"cleared"`
	Niches   int    `json:"niches"`
	PerNiche int    `json:"per_niche"`
	Seed     uint64 `json:"seed"`
	Written  int    `json:"written"`
}

func runSeed(ctx context.Context, c *cli, args []string) error {
	fs, common := c.flagSet("seed", "seed [-per-niche N] [-seed S] [-out FILE] [-clear]")
	perNiche := fs.Int("per-niche", 0, "samples per niche (default: SYNTHETIC_PER_NICHE)")
	seed := fs.Uint64("seed", 0, "generator seed (default: TRAINING_SEED)")
	out := fs.String("out", "", "write a .json/.yaml/.yml file instead of the configured data source")
	clearFirst := fs.Bool("clear", false, "remove existing samples from the data source first")
	if err := parse(fs, args); err != nil {
		return err
	}
	cfg, err := c.setup(common)
	if err != nil {
		return err
	}

	set := visited(fs)
	if !set["per-niche"] {
		*perNiche = cfg.DataSource.SyntheticPerNiche
	}
	if !set["seed"] {
		*seed = cfg.Training.Seed
	}
	if *perNiche < 1 {
		fmt.Fprintln(c.stderr, "-per-niche must be at least 1")
		return errUsage
	}

	samples := dataset.Generate(*perNiche, *seed)
	result := SeedResult{
		Niches:   len(dataset.Archetypes),
		PerNiche: *perNiche,
		Seed:     *seed,
	}

	if *out != "" {
		if err := dataset.WriteSamplesFile(*out, samples); err != nil {
			return err
		}
		result.Target = *out
		result.Written = len(samples)
		result.Cleared = true
		return c.print(common.output, result)
	}

	opts, err := cfg.DataSourceOptions()
	if err != nil {
		return err
	}
	if opts.Type == dataset.TypeSynthetic {
		return errors.New("the synthetic data source is generated on read; use -out or another DATASOURCE_TYPE")
	}

	opened, err := dataset.Open(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := opened.Close(context.Background()); err != nil {
			logging.Warn().Err(err).Msg("Error closing data source")
		}
	}()

	writer, ok := opened.Source.(dataset.Writer)
	if !ok {
		return fmt.Errorf("data source %s does not accept samples", opened.Source.Name())
	}

	if *clearFirst {
		if err := clearSource(ctx, opened.Source, opts); err != nil {
			return fmt.Errorf("clear %s: %w", opened.Source.Name(), err)
		}
		result.Cleared = true
	}

	n, err := writer.Write(ctx, samples)
	if err != nil {
		return fmt.Errorf("write samples: %w", err)
	}
	result.Target = opened.Source.Name()
	result.Written = n

	logging.Info().Str("target", result.Target).Int("written", n).Msg("Seeded training samples")
	return c.print(common.output, result)
}

// clearSource empties a writable source.
func clearSource(ctx context.Context, src dataset.Source, opts dataset.Options) error {
	if u, ok := src.(interface{ Unwrap() dataset.Source }); ok {
		src = u.Unwrap()
	}
	switch s := src.(type) {
	case *dataset.MongoSource:
		_, err := s.Clear(ctx)
		return err
	case *dataset.BadgerSource:
		return s.Clear()
	case *dataset.FileSource:
		if err := os.Remove(opts.FilePath); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	default:
		return fmt.Errorf("clearing %s is not supported", src.Name())
	}
}

func runValidate(ctx context.Context, c *cli, args []string) error {
	fs, common := c.flagSet("validate", "validate [-file FILE]")
	file := fs.String("file", "", "validate a .json/.yaml/.yml file instead of the configured data source")
	if err := parse(fs, args); err != nil {
		return err
	}
	cfg, err := c.setup(common)
	if err != nil {
		return err
	}

	var src dataset.Source
	if *file != "" {
		src = dataset.NewFileSource(*file)
	} else {
		opts, err := cfg.DataSourceOptions()
		if err != nil {
			return err
		}
		opened, err := dataset.Open(ctx, opts)
		if err != nil {
			return err
		}
		defer func() {
			if err := opened.Close(context.Background()); err != nil {
				logging.Warn().Err(err).Msg("Error closing data source")
			}
		}()
		src = opened.Source
	}

	samples, err := src.Samples(ctx)
	if err != nil {
		return fmt.Errorf("load samples from %s: %w", src.Name(), err)
	}

	report := dataset.Validate(samples)
	if err := c.print(common.output, report); err != nil {
		return err
	}
	if !report.OK() {
		return fmt.Errorf("%w: %v", errQualityFailed, report.Err())
	}
	return nil
}

// visited returns the names of flags set on the command line.
func visited(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}
