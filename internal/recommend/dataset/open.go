// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package dataset

import (
	"context"
	"errors"
	"fmt"
)

// Options selects and configures a source for Open.
type Options struct {
	Type    Type
	Mongo   MongoConfig
	Breaker BreakerConfig

	// BadgerPath is the embedded store directory. Empty opens in-memory.
	BadgerPath string

	// FilePath is a .json, .yaml or .yml samples file.
	FilePath string

	// PerNiche and Seed drive SyntheticSource.
	PerNiche int
	Seed     uint64
}

// Opened is a source together with its release function.
type Opened struct {
	Source Source

	close func(ctx context.Context) error
}

// Close releases connections or file handles held by the source.
func (o *Opened) Close(ctx context.Context) error {
	if o == nil || o.close == nil {
		return nil
	}
	return o.close(ctx)
}

// Open builds the source named by opts.Type. Mongo sources are wrapped in a
// BreakerSource; local sources are not.
func Open(ctx context.Context, opts Options) (*Opened, error) {
	switch opts.Type {
	case TypeMongo:
		src, err := NewMongoSource(ctx, opts.Mongo)
		if err != nil {
			return nil, err
		}
		return &Opened{
			Source: NewBreakerSource(src, opts.Breaker),
			close:  src.Close,
		}, nil

	case TypeBadger:
		src, err := OpenBadgerSource(opts.BadgerPath)
		if err != nil {
			return nil, err
		}
		return &Opened{
			Source: src,
			close:  func(context.Context) error { return src.Close() },
		}, nil

	case TypeFile:
		if opts.FilePath == "" {
			return nil, errors.New("file datasource requires a path")
		}
		return &Opened{Source: NewFileSource(opts.FilePath)}, nil

	case TypeSynthetic:
		return &Opened{Source: SyntheticSource{PerNiche: opts.PerNiche, Seed: opts.Seed}}, nil

	default:
		return nil, fmt.Errorf("unknown datasource type %q", opts.Type)
	}
}
