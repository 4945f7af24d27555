// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package validation

import (
	"math"
	"strings"
	"testing"
)

// ===================================================================================================
// Singleton Validator Tests
// ===================================================================================================

func TestValidatorInstance_Singleton(t *testing.T) {
	v1 := validatorInstance()
	v2 := validatorInstance()

	if v1 != v2 {
		t.Error("validatorInstance() should return the same singleton instance")
	}
	if v1 == nil {
		t.Error("validatorInstance() should not return nil")
	}
}

// ===================================================================================================
// ValidateStruct Tests
// ===================================================================================================

type predictShape struct {
	Features  []float64 `json:"features" validate:"required,min=1,max=64,dive,finite"`
	Threshold *float64  `json:"confidence_threshold,omitempty" validate:"omitempty,finite,gte=0,lte=1"`
	TopK      int       `json:"top_k,omitempty" validate:"omitempty,min=1,max=50"`
}

type namedShape struct {
	Name  string `json:"name" validate:"required,min=2,max=10"`
	Kind  string `json:"kind" validate:"omitempty,oneof=mongo badger file synthetic"`
	NoTag int    `validate:"min=0"`
}

func ptr(f float64) *float64 { return &f }

func TestValidateStruct_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
	}{
		{"single feature", &predictShape{Features: []float64{1}}},
		{"full request", &predictShape{Features: []float64{3, 2, 5000, 20, 0.7, 0.4}, Threshold: ptr(0.8), TopK: 3}},
		{"threshold zero", &predictShape{Features: []float64{1, 2}, Threshold: ptr(0)}},
		{"threshold one", &predictShape{Features: []float64{1, 2}, Threshold: ptr(1)}},
		{"negative features", &predictShape{Features: []float64{-1, -2.5}}},
		{"named", &namedShape{Name: "ok", Kind: "badger"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateStruct(tt.input); err != nil {
				t.Errorf("ValidateStruct() error = %v, want nil", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		input     interface{}
		wantField string
		wantTag   string
	}{
		{"missing features", &predictShape{}, "features", "required"},
		{"empty features", &predictShape{Features: []float64{}}, "features", "min"},
		{"NaN feature", &predictShape{Features: []float64{1, math.NaN()}}, "features[1]", "finite"},
		{"Inf feature", &predictShape{Features: []float64{math.Inf(1)}}, "features[0]", "finite"},
		{"threshold above one", &predictShape{Features: []float64{1}, Threshold: ptr(1.2)}, "confidence_threshold", "lte"},
		{"threshold negative", &predictShape{Features: []float64{1}, Threshold: ptr(-0.1)}, "confidence_threshold", "gte"},
		{"threshold NaN", &predictShape{Features: []float64{1}, Threshold: ptr(math.NaN())}, "confidence_threshold", "finite"},
		{"top k too large", &predictShape{Features: []float64{1}, TopK: 51}, "top_k", "max"},
		{"name too short", &namedShape{Name: "a"}, "name", "min"},
		{"bad kind", &namedShape{Name: "ok", Kind: "postgres"}, "kind", "oneof"},
		{"go name fallback", &namedShape{Name: "ok", NoTag: -1}, "NoTag", "min"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if err == nil {
				t.Fatal("ValidateStruct() error = nil, want validation error")
			}
			errs := err.Errors()
			if len(errs) != 1 {
				t.Fatalf("ValidateStruct() returned %d errors, want 1: %v", len(errs), err)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", errs[0].Tag(), tt.wantTag)
			}
		})
	}
}

// ===================================================================================================
// APIError Conversion Tests
// ===================================================================================================

func TestToAPIError_SingleError(t *testing.T) {
	err := ValidateStruct(&predictShape{Features: []float64{math.NaN()}})
	if err == nil {
		t.Fatal("ValidateStruct() error = nil, want error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Message != "features[0] must be a finite number" {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if apiErr.Details["field"] != "features[0]" {
		t.Errorf("Details[field] = %v, want features[0]", apiErr.Details["field"])
	}
	if v, ok := apiErr.Details["value"].(string); !ok || v != "NaN" {
		t.Errorf("Details[value] = %v, want string NaN", apiErr.Details["value"])
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	err := ValidateStruct(&predictShape{TopK: 100})
	if err == nil {
		t.Fatal("ValidateStruct() error = nil, want error")
	}

	apiErr := err.ToAPIError()
	if !strings.Contains(apiErr.Message, "features: features is required") {
		t.Errorf("Message = %q, want features entry", apiErr.Message)
	}
	if !strings.Contains(apiErr.Message, "top_k: top_k must be at most 50") {
		t.Errorf("Message = %q, want top_k entry", apiErr.Message)
	}
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 2 {
		t.Errorf("Details[fields] = %v, want 2 entries", apiErr.Details["fields"])
	}
}

func TestToAPIError_Empty(t *testing.T) {
	apiErr := (&RequestValidationError{}).ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" || apiErr.Message != "Validation failed" {
		t.Errorf("ToAPIError() = %+v", apiErr)
	}
}

// ===================================================================================================
// Error Message Tests
// ===================================================================================================

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  string
	}{
		{"required", &predictShape{}, "features is required"},
		{"list min", &predictShape{Features: []float64{}}, "features must contain at least 1 items"},
		{"list max", &predictShape{Features: make([]float64, 65)}, "features must contain at most 64 items"},
		{"numeric lte", &predictShape{Features: []float64{1}, Threshold: ptr(2)}, "confidence_threshold must be less than or equal to 1"},
		{"string min", &namedShape{Name: "a"}, "name must be at least 2 characters"},
		{"string max", &namedShape{Name: strings.Repeat("x", 11)}, "name must be at most 10 characters"},
		{"oneof", &namedShape{Name: "ok", Kind: "x"}, "kind must be one of: mongo badger file synthetic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if err == nil {
				t.Fatal("ValidateStruct() error = nil, want error")
			}
			if err.Error() != tt.want {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.want)
			}
		})
	}
}
