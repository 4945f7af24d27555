// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tomtom215/nichecompass/internal/logging"
	"github.com/tomtom215/nichecompass/internal/recommend"
	"github.com/tomtom215/nichecompass/internal/recommend/dataset"
	"github.com/tomtom215/nichecompass/internal/recommend/feature"
	"github.com/tomtom215/nichecompass/internal/recommend/storage"
)

func runTrain(ctx context.Context, c *cli, args []string) error {
	fs, common := c.flagSet("train", "train")
	if err := parse(fs, args); err != nil {
		return err
	}
	cfg, err := c.setup(common)
	if err != nil {
		return err
	}

	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}
	defer engine.Close()

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
	engine.SetDataSource(opened.Source)

	report, err := engine.Train(ctx, recommend.TriggerCLI)
	if err != nil {
		return err
	}
	return c.print(common.output, report)
}

func runPredict(ctx context.Context, c *cli, args []string) error {
	fs, common := c.flagSet("predict", "predict -features F1,F2,... [-threshold T] [-top-k N]")
	features := fs.String("features", "", "comma-separated feature values in "+strings.Join(feature.Names, ", ")+" order")
	threshold := fs.Float64("threshold", 0, "confidence threshold in [0, 1] (default: PREDICTION_DEFAULT_THRESHOLD)")
	topK := fs.Int("top-k", 0, "number of recommendations (default: PREDICTION_TOP_K)")
	if err := parse(fs, args); err != nil {
		return err
	}

	raw := *features
	if raw == "" && fs.NArg() > 0 {
		raw = strings.Join(fs.Args(), ",")
	}
	vector, err := parseVector(raw)
	if err != nil {
		fmt.Fprintf(c.stderr, "invalid -features: %v\n", err)
		return errUsage
	}

	cfg, err := c.setup(common)
	if err != nil {
		return err
	}

	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}
	defer engine.Close()

	if _, err := engine.Reload(ctx); err != nil {
		return fmt.Errorf("load latest model: %w", err)
	}

	opts := recommend.PredictOptions{TopK: *topK}
	if visited(fs)["threshold"] {
		opts.Threshold = threshold
	}
	prediction, err := engine.Predict(ctx, vector, opts)
	if err != nil {
		return err
	}
	return c.print(common.output, prediction)
}

// parseVector parses comma- or space-separated floats.
func parseVector(raw string) (feature.Vector, error) {
	fields := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) == 0 {
		return nil, fmt.Errorf("no values given")
	}
	v := make(feature.Vector, len(fields))
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		v[i] = x
	}
	return v, nil
}

func runVersions(ctx context.Context, c *cli, args []string) error {
	fs, common := c.flagSet("versions", "versions [-version N]")
	version := fs.Int("version", 0, "show only this version's metadata")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *version < 0 {
		fmt.Fprintln(c.stderr, "-version must be positive")
		return errUsage
	}
	cfg, err := c.setup(common)
	if err != nil {
		return err
	}

	store, err := storage.NewStore(cfg.Model.Dir)
	if err != nil {
		return fmt.Errorf("open model store: %w", err)
	}
	if *version > 0 {
		meta, err := store.LoadMetadata(ctx, cfg.Model.Name, *version)
		if err != nil {
			return err
		}
		return c.print(common.output, meta)
	}

	versions, err := store.ListVersions(ctx, cfg.Model.Name)
	if err != nil {
		return err
	}
	if versions == nil {
		versions = []storage.ArtifactMetadata{}
	}
	return c.print(common.output, versions)
}
