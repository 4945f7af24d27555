// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package feature

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestVector_CheckDim(t *testing.T) {
	t.Parallel()

	v := Vector{1, 2, 3}
	tests := []struct {
		name    string
		want    int
		wantErr bool
	}{
		{"exact", 3, false},
		{"one short", 4, true},
		{"one long", 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.CheckDim(tt.want)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckDim() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			var dm *DimensionMismatchError
			if !errors.As(err, &dm) {
				t.Fatalf("CheckDim() error type = %T, want *DimensionMismatchError", err)
			}
			if dm.Want != tt.want || dm.Got != 3 {
				t.Errorf("DimensionMismatchError = %+v, want Want=%d Got=3", dm, tt.want)
			}
			if !errors.Is(err, ErrDimensionMismatch) {
				t.Error("errors.Is(err, ErrDimensionMismatch) = false")
			}
		})
	}
}

func TestVector_CheckFinite(t *testing.T) {
	t.Parallel()

	if err := (Vector{0, -1.5, 1e9}).CheckFinite(); err != nil {
		t.Errorf("CheckFinite() unexpected error: %v", err)
	}

	err := Vector{1, math.NaN(), math.Inf(1)}.CheckFinite()
	var nf *NonFiniteError
	if !errors.As(err, &nf) {
		t.Fatalf("CheckFinite() error = %v, want *NonFiniteError", err)
	}
	if nf.Index != 1 {
		t.Errorf("NonFiniteError.Index = %d, want 1", nf.Index)
	}
}

func TestVector_Clone(t *testing.T) {
	t.Parallel()

	v := Vector{1, 2}
	c := v.Clone()
	c[0] = 99
	if v[0] != 1 {
		t.Error("Clone() shares backing array with original")
	}
	if Vector(nil).Clone() != nil {
		t.Error("Clone() of nil should be nil")
	}
}

func TestLabels(t *testing.T) {
	t.Parallel()

	samples := []Sample{
		{Label: "Padaria"},
		{Label: "Brechó"},
		{Label: "Padaria"},
		{Label: "Agência de Viagens"},
	}
	got := Labels(samples)
	want := []string{"Agência de Viagens", "Brechó", "Padaria"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Labels() = %v, want %v", got, want)
	}
}

func TestDimension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		samples []Sample
		want    int
		wantErr error
	}{
		{"empty", nil, 0, ErrInsufficientData},
		{"zero width", []Sample{{Features: Vector{}}}, 0, ErrInsufficientData},
		{"ragged", []Sample{{Features: Vector{1, 2}}, {Features: Vector{1}}}, 0, ErrDimensionMismatch},
		{"consistent", []Sample{{Features: Vector{1, 2}}, {Features: Vector{3, 4}}}, 2, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Dimension(tt.samples)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Dimension() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Dimension() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestName(t *testing.T) {
	t.Parallel()

	if got := Name(2); got != "investment" {
		t.Errorf("Name(2) = %q, want %q", got, "investment")
	}
	if got := Name(7); got != "feature_7" {
		t.Errorf("Name(7) = %q, want %q", got, "feature_7")
	}
}
