package config

import (
	"testing"
)

func TestValidatorRequireNonEmpty(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		wantError bool
	}{
		{
			name:      "non-empty value",
			value:     "valid",
			wantError: false,
		},
		{
			name:      "empty value",
			value:     "",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator()
			v.RequireNonEmpty("test_field", tt.value)
			if v.HasErrors() != tt.wantError {
				t.Errorf("HasErrors() = %v, want %v", v.HasErrors(), tt.wantError)
			}
		})
	}
}

func TestValidatorRequirePositive(t *testing.T) {
	tests := []struct {
		name      string
		value     int
		wantError bool
	}{
		{name: "positive value", value: 10, wantError: false},
		{name: "zero value", value: 0, wantError: true},
		{name: "negative value", value: -5, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator()
			v.RequirePositive("test_field", tt.value)
			if v.HasErrors() != tt.wantError {
				t.Errorf("HasErrors() = %v, want %v", v.HasErrors(), tt.wantError)
			}
		})
	}
}

func TestValidatorValidateFloatRange(t *testing.T) {
	tests := []struct {
		name      string
		value     float64
		wantError bool
	}{
		{name: "inside range", value: 0.3, wantError: false},
		{name: "lower bound", value: 0.0, wantError: false},
		{name: "upper bound", value: 1.0, wantError: false},
		{name: "above range", value: 1.5, wantError: true},
		{name: "below range", value: -0.1, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator()
			v.ValidateFloatRange("score", tt.value, 0.0, 1.0)
			if v.HasErrors() != tt.wantError {
				t.Errorf("HasErrors() = %v, want %v", v.HasErrors(), tt.wantError)
			}
		})
	}
}

func TestValidatorValidateOneOf(t *testing.T) {
	v := NewValidator()
	v.ValidateOneOf("sslMode", "disable", "disable", "require")
	if v.HasErrors() {
		t.Fatalf("expected no errors for allowed value, got %v", v.Errors())
	}

	v = NewValidator()
	v.ValidateOneOf("sslMode", "bogus", "disable", "require")
	if !v.HasErrors() {
		t.Fatal("expected error for disallowed value")
	}
}

func TestValidatorCombinedError(t *testing.T) {
	v := NewValidator()
	v.RequireNonEmpty("host", "")
	v.RequirePositive("port", -1)

	err := v.Error()
	if err == nil {
		t.Fatal("expected combined error")
	}
	if len(v.Errors()) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(v.Errors()))
	}
}

func TestValidateEngineConfig(t *testing.T) {
	if err := ValidateEngineConfig(5, 0.3, 0.2); err != nil {
		t.Fatalf("expected valid engine config, got %v", err)
	}
	if err := ValidateEngineConfig(0, 0.3, 0.2); err == nil {
		t.Fatal("expected error for non-positive topK")
	}
	if err := ValidateEngineConfig(5, 1.3, 0.2); err == nil {
		t.Fatal("expected error for out-of-range score threshold")
	}
}

func TestValidateRedisConfig(t *testing.T) {
	if err := ValidateRedisConfig("localhost:6379", 0, "deepresearch:session:"); err != nil {
		t.Fatalf("expected valid redis config, got %v", err)
	}
	if err := ValidateRedisConfig("", 0, "prefix"); err == nil {
		t.Fatal("expected error for empty addr")
	}
	if err := ValidateRedisConfig("localhost:6379", 42, "prefix"); err == nil {
		t.Fatal("expected error for out-of-range db number")
	}
}
