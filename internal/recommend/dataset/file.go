// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/tomtom215/nichecompass/internal/recommend/feature"
)

// FileSource reads samples from a JSON (.json) or YAML (.yaml, .yml) file
// holding a top-level list of {features, label} objects.
type FileSource struct {
	path string
}

// NewFileSource returns a source over path. The file is read on each call
// to Samples.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name implements Source.
func (f *FileSource) Name() string {
	return "file"
}

// Samples implements Source.
func (f *FileSource) Samples(ctx context.Context) ([]feature.Sample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ReadSamplesFile(f.path)
}

// Write appends samples by rewriting the file with the combined set.
func (f *FileSource) Write(ctx context.Context, samples []feature.Sample) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	existing, err := ReadSamplesFile(f.path)
	if err != nil && !os.IsNotExist(err) {
		return 0, err
	}
	if err := WriteSamplesFile(f.path, append(existing, samples...)); err != nil {
		return 0, err
	}
	return len(samples), nil
}

// ReadSamplesFile decodes a samples file, choosing the format by extension.
// Unreadable files return the underlying *os.PathError.
func ReadSamplesFile(path string) ([]feature.Sample, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return nil, err
	}

	var samples []feature.Sample
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &samples)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &samples)
	default:
		return nil, fmt.Errorf("unsupported samples file extension %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return samples, nil
}

// WriteSamplesFile encodes samples to path in the format implied by its
// extension.
func WriteSamplesFile(path string, samples []feature.Sample) error {
	var (
		data []byte
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		data, err = json.MarshalIndent(samples, "", "  ")
	case ".yaml", ".yml":
		data, err = yaml.Marshal(samples)
	default:
		return fmt.Errorf("unsupported samples file extension %q", ext)
	}
	if err != nil {
		return fmt.Errorf("encode samples: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, data, 0o600)
}
