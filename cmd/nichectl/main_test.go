// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/tomtom215/nichecompass/internal/recommend/dataset"
	"github.com/tomtom215/nichecompass/internal/recommend/feature"
	"github.com/tomtom215/nichecompass/internal/recommend/storage"
)

// writeCLIConfig writes a config using a file data source under dir.
func writeCLIConfig(t *testing.T, dir, datasource string) string {
	t.Helper()
	content := fmt.Sprintf(`
model:
  dir: %q
training:
  min_samples: 2
datasource:
%s
`, filepath.Join(dir, "models"), datasource)

	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func fileSource(path string) string {
	return fmt.Sprintf("  type: file\n  file_path: %q", path)
}

func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func profileArg(p [6]float64) string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ",")
}

func TestRun_Usage(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
	}{
		{"no args", nil, 2},
		{"help", []string{"help"}, 0},
		{"unknown command", []string{"deploy"}, 2},
		{"command help", []string{"train", "-h"}, 0},
		{"bad flag", []string{"train", "-nope"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tt.args...)
			if code != tt.wantCode {
				t.Errorf("run(%v) = %d, want %d (stderr: %s)", tt.args, code, tt.wantCode, stderr)
			}
			if tt.name == "no args" && !strings.Contains(stderr, "Commands:") {
				t.Errorf("usage output missing command list: %q", stderr)
			}
		})
	}
}

func TestWorkflow_SeedValidateTrainPredictVersions(t *testing.T) {
	dir := t.TempDir()
	samplesPath := filepath.Join(dir, "samples.yaml")
	cfgPath := writeCLIConfig(t, dir, fileSource(samplesPath))

	code, stdout, stderr := runCLI(t, "seed", "-config", cfgPath, "-per-niche", "6", "-seed", "3")
	if code != 0 {
		t.Fatalf("seed exit = %d, stderr: %s", code, stderr)
	}
	var seeded SeedResult
	if err := yaml.Unmarshal([]byte(stdout), &seeded); err != nil {
		t.Fatalf("seed output is not YAML: %v\n%s", err, stdout)
	}
	if want := 6 * len(dataset.Archetypes); !strings.Contains(stdout, fmt.Sprintf("written: %d", want)) {
		t.Errorf("seed output = %q, want written: %d", stdout, want)
	}
	samples, err := dataset.ReadSamplesFile(samplesPath)
	if err != nil {
		t.Fatalf("ReadSamplesFile() error = %v", err)
	}
	if len(samples) != 6*len(dataset.Archetypes) {
		t.Errorf("seeded file has %d samples, want %d", len(samples), 6*len(dataset.Archetypes))
	}

	code, stdout, stderr = runCLI(t, "validate", "-config", cfgPath)
	if code != 0 {
		t.Fatalf("validate exit = %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(stdout, fmt.Sprintf("samples: %d", len(samples))) {
		t.Errorf("validate output missing sample count: %q", stdout)
	}

	code, stdout, stderr = runCLI(t, "train", "-config", cfgPath, "-o", "json")
	if code != 0 {
		t.Fatalf("train exit = %d, stderr: %s", code, stderr)
	}
	var report struct {
		Version int    `json:"version"`
		Samples int    `json:"samples"`
		Source  string `json:"source"`
		Trigger string `json:"trigger"`
	}
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("train output is not JSON: %v\n%s", err, stdout)
	}
	if report.Version != 1 || report.Samples != len(samples) || report.Source != "file" || report.Trigger != "cli" {
		t.Errorf("train report = %+v", report)
	}

	code, stdout, stderr = runCLI(t, "predict", "-config", cfgPath, "-o", "json",
		"-threshold", "0", "-top-k", "2", "-features", profileArg(dataset.Archetypes[10].Profile))
	if code != 0 {
		t.Fatalf("predict exit = %d, stderr: %s", code, stderr)
	}
	var prediction struct {
		Label           string        `json:"label"`
		HighConfidence  bool          `json:"high_confidence"`
		Recommendations []interface{} `json:"recommendations"`
		ModelVersion    int           `json:"model_version"`
	}
	if err := json.Unmarshal([]byte(stdout), &prediction); err != nil {
		t.Fatalf("predict output is not JSON: %v\n%s", err, stdout)
	}
	if prediction.Label == "" || prediction.ModelVersion != 1 {
		t.Errorf("prediction = %+v", prediction)
	}
	if !prediction.HighConfidence {
		t.Error("HighConfidence = false with threshold 0")
	}
	if len(prediction.Recommendations) == 0 || len(prediction.Recommendations) > 2 {
		t.Errorf("len(Recommendations) = %d, want 1..2", len(prediction.Recommendations))
	}

	code, stdout, stderr = runCLI(t, "versions", "-config", cfgPath, "-o", "json")
	if code != 0 {
		t.Fatalf("versions exit = %d, stderr: %s", code, stderr)
	}
	var versions []storage.ArtifactMetadata
	if err := json.Unmarshal([]byte(stdout), &versions); err != nil {
		t.Fatalf("versions output is not JSON: %v\n%s", err, stdout)
	}
	if len(versions) != 1 || versions[0].Version != 1 || versions[0].Dimension != len(feature.Names) {
		t.Errorf("versions = %+v", versions)
	}

	code, stdout, stderr = runCLI(t, "versions", "-config", cfgPath, "-o", "json", "-version", "1")
	if code != 0 {
		t.Fatalf("versions -version 1 exit = %d, stderr: %s", code, stderr)
	}
	var single storage.ArtifactMetadata
	if err := json.Unmarshal([]byte(stdout), &single); err != nil {
		t.Fatalf("versions -version output is not JSON: %v\n%s", err, stdout)
	}
	if single.Version != 1 || single.RunID != versions[0].RunID {
		t.Errorf("versions -version 1 = %+v, want run %q", single, versions[0].RunID)
	}

	if code, _, stderr = runCLI(t, "versions", "-config", cfgPath, "-version", "9"); code != 1 {
		t.Errorf("versions -version 9 exit = %d, want 1 (stderr: %s)", code, stderr)
	}
	if code, _, _ = runCLI(t, "versions", "-config", cfgPath, "-version", "-2"); code != 2 {
		t.Errorf("versions -version -2 exit = %d, want 2", code)
	}
}

func TestSeed_OutFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeCLIConfig(t, dir, "  type: synthetic")
	out := filepath.Join(dir, "export", "samples.json")

	code, _, stderr := runCLI(t, "seed", "-config", cfgPath, "-per-niche", "2", "-out", out)
	if code != 0 {
		t.Fatalf("seed exit = %d, stderr: %s", code, stderr)
	}
	samples, err := dataset.ReadSamplesFile(out)
	if err != nil {
		t.Fatalf("ReadSamplesFile() error = %v", err)
	}
	if len(samples) != 2*len(dataset.Archetypes) {
		t.Errorf("len(samples) = %d, want %d", len(samples), 2*len(dataset.Archetypes))
	}
}

func TestSeed_Errors(t *testing.T) {
	dir := t.TempDir()
	synthetic := writeCLIConfig(t, dir, "  type: synthetic")

	tests := []struct {
		name     string
		args     []string
		wantCode int
	}{
		{"synthetic source is read-only", []string{"seed", "-config", synthetic}, 1},
		{"per-niche zero", []string{"seed", "-config", synthetic, "-per-niche", "0", "-out", filepath.Join(dir, "x.json")}, 2},
		{"bad output format", []string{"seed", "-config", synthetic, "-o", "xml"}, 2},
		{"missing config file", []string{"seed", "-config", filepath.Join(dir, "missing.yaml")}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tt.args...)
			if code != tt.wantCode {
				t.Errorf("exit = %d, want %d (stderr: %s)", code, tt.wantCode, stderr)
			}
		})
	}
}

func TestSeed_ClearBadger(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeCLIConfig(t, dir, fmt.Sprintf("  type: badger\n  badger_path: %q", filepath.Join(dir, "badger")))

	for i := 0; i < 2; i++ {
		code, _, stderr := runCLI(t, "seed", "-config", cfgPath, "-per-niche", "1", "-clear")
		if code != 0 {
			t.Fatalf("seed run %d exit = %d, stderr: %s", i, code, stderr)
		}
	}

	src, err := dataset.OpenBadgerSource(filepath.Join(dir, "badger"))
	if err != nil {
		t.Fatalf("OpenBadgerSource() error = %v", err)
	}
	defer src.Close()
	samples, err := src.Samples(context.Background())
	if err != nil {
		t.Fatalf("Samples() error = %v", err)
	}
	if len(samples) != len(dataset.Archetypes) {
		t.Errorf("len(samples) = %d after two cleared seeds, want %d", len(samples), len(dataset.Archetypes))
	}
}

func TestValidate_BlockingIssues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "one-label.json")
	oneLabel := []feature.Sample{
		{Features: feature.Vector{1, 2, 500, 10, 0.7, 0.2}, Label: "Brechó"},
		{Features: feature.Vector{1, 2, 600, 12, 0.6, 0.3}, Label: "Brechó"},
	}
	if err := dataset.WriteSamplesFile(path, oneLabel); err != nil {
		t.Fatalf("WriteSamplesFile() error = %v", err)
	}
	cfgPath := writeCLIConfig(t, dir, "  type: synthetic")

	code, stdout, stderr := runCLI(t, "validate", "-config", cfgPath, "-file", path)
	if code != 1 {
		t.Errorf("validate exit = %d, want 1", code)
	}
	if !strings.Contains(stdout, "blocking") {
		t.Errorf("validate output missing blocking issue: %q", stdout)
	}
	if !strings.Contains(stderr, "blocking quality issues") {
		t.Errorf("stderr = %q, want blocking quality message", stderr)
	}
}

func TestPredict_Errors(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeCLIConfig(t, dir, "  type: synthetic")

	tests := []struct {
		name     string
		args     []string
		wantCode int
	}{
		{"no features", []string{"predict", "-config", cfgPath}, 2},
		{"not a number", []string{"predict", "-config", cfgPath, "-features", "1,two,3"}, 2},
		{"no model yet", []string{"predict", "-config", cfgPath, "-features", "1,2,3,4,0.5,0.5"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tt.args...)
			if code != tt.wantCode {
				t.Errorf("exit = %d, want %d (stderr: %s)", code, tt.wantCode, stderr)
			}
		})
	}
}

func TestParseVector(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"1,2,3", 3, false},
		{"1 2 3 4", 4, false},
		{" 1, 2 ,3 ", 3, false},
		{"", 0, true},
		{"1,x", 0, true},
	}
	for _, tt := range tests {
		got, err := parseVector(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseVector(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if len(got) != tt.want {
			t.Errorf("parseVector(%q) = %v, want %d values", tt.in, got, tt.want)
		}
	}
}

func TestVersions_EmptyStore(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeCLIConfig(t, dir, "  type: synthetic")

	code, stdout, stderr := runCLI(t, "versions", "-config", cfgPath, "-o", "json")
	if code != 0 {
		t.Fatalf("versions exit = %d, stderr: %s", code, stderr)
	}
	if strings.TrimSpace(stdout) != "[]" {
		t.Errorf("versions output = %q, want []", stdout)
	}
}
