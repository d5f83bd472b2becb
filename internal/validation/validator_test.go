// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package validation

import (
	"strings"
	"sync"
	"testing"
)

// ===================================================================================================
// Singleton Validator Tests
// ===================================================================================================

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}

	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

func TestGetValidator_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = ValidateStruct(&trainingSection{Workers: 1, Store: "dense"})
		}()
	}
	wg.Wait()
}

// ===================================================================================================
// ValidateStruct Tests
// ===================================================================================================

type trainingSection struct {
	Workers int    `koanf:"workers" validate:"gte=0"`
	Store   string `koanf:"store" validate:"oneof=dense sparse"`
}

type testConfig struct {
	Training trainingSection `koanf:"training"`
	Name     string          `koanf:"name" validate:"required,max=5"`
}

type testQuery struct {
	User int64 `json:"user" validate:"required"`
}

type testRequest struct {
	Queries []testQuery `json:"queries" validate:"required,min=1,max=2,dive"`
}

func TestValidateStruct_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
	}{
		{"config", &testConfig{Training: trainingSection{Workers: 0, Store: "sparse"}, Name: "svd"}},
		{"request", &testRequest{Queries: []testQuery{{User: 1}, {User: 2}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateStruct(tt.input); err != nil {
				t.Errorf("ValidateStruct() = %v, want nil", err)
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
		wantMsg   string
	}{
		{
			name:      "nested koanf path",
			input:     &testConfig{Training: trainingSection{Workers: -1, Store: "dense"}, Name: "svd"},
			wantField: "training.workers",
			wantTag:   "gte",
			wantMsg:   "training.workers must be greater than or equal to 0",
		},
		{
			name:      "oneof",
			input:     &testConfig{Training: trainingSection{Store: "columnar"}, Name: "svd"},
			wantField: "training.store",
			wantTag:   "oneof",
			wantMsg:   "training.store must be one of: dense sparse",
		},
		{
			name:      "required string",
			input:     &testConfig{Training: trainingSection{Store: "dense"}},
			wantField: "name",
			wantTag:   "required",
			wantMsg:   "name is required",
		},
		{
			name:      "string max",
			input:     &testConfig{Training: trainingSection{Store: "dense"}, Name: "toolong"},
			wantField: "name",
			wantTag:   "max",
			wantMsg:   "name must have at most 5 characters",
		},
		{
			name:      "slice max",
			input:     &testRequest{Queries: make([]testQuery, 3)},
			wantField: "queries",
			wantTag:   "max",
			wantMsg:   "queries must have at most 2 entries",
		},
		{
			name:      "dive into slice",
			input:     &testRequest{Queries: []testQuery{{User: 1}, {}}},
			wantField: "queries[1].user",
			wantTag:   "required",
			wantMsg:   "queries[1].user is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if err == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}

			errs := err.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), err)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", errs[0].Tag(), tt.wantTag)
			}
			if errs[0].Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", errs[0].Error(), tt.wantMsg)
			}
		})
	}
}

// ===================================================================================================
// APIError Conversion Tests
// ===================================================================================================

func TestToAPIError(t *testing.T) {
	t.Run("single error", func(t *testing.T) {
		err := ValidateStruct(&testRequest{})
		if err == nil {
			t.Fatal("ValidateStruct() = nil, want error")
		}
		apiErr := err.ToAPIError()
		if apiErr.Code != "VALIDATION_ERROR" {
			t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
		}
		if apiErr.Details["field"] != "queries" {
			t.Errorf("Details[field] = %v, want queries", apiErr.Details["field"])
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		err := ValidateStruct(&testConfig{Training: trainingSection{Workers: -1, Store: "x"}})
		if err == nil {
			t.Fatal("ValidateStruct() = nil, want error")
		}
		apiErr := err.ToAPIError()
		fields, ok := apiErr.Details["fields"].([]map[string]interface{})
		if !ok || len(fields) != 3 {
			t.Fatalf("Details[fields] = %v, want 3 entries", apiErr.Details["fields"])
		}
		if !strings.Contains(apiErr.Message, "; ") {
			t.Errorf("Message = %q, want joined messages", apiErr.Message)
		}
	})

	t.Run("empty", func(t *testing.T) {
		apiErr := (&RequestValidationError{}).ToAPIError()
		if apiErr.Message != "Validation failed" {
			t.Errorf("Message = %q", apiErr.Message)
		}
	})
}
