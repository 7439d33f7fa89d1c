package validation

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestConfigValidator_Required(t *testing.T) {
	if !NewConfigValidator("C").Required("Name", "").HasErrors() {
		t.Error("Expected error for empty required field")
	}
	if NewConfigValidator("C").Required("Name", "value").HasErrors() {
		t.Error("Expected no error for non-empty required field")
	}
}

func TestConfigValidator_Ints(t *testing.T) {
	tests := []struct {
		name    string
		apply   func(*ConfigValidator)
		wantErr bool
	}{
		{"min below", func(cv *ConfigValidator) { cv.MinInt("MaxIterations", 0, 1) }, true},
		{"min at", func(cv *ConfigValidator) { cv.MinInt("MaxIterations", 1, 1) }, false},
		{"non-negative negative", func(cv *ConfigValidator) { cv.NonNegative("MaxSteps", -1) }, true},
		{"non-negative zero", func(cv *ConfigValidator) { cv.NonNegative("MaxSteps", 0) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cv := NewConfigValidator("Options")
			tt.apply(cv)
			if cv.HasErrors() != tt.wantErr {
				t.Errorf("HasErrors() = %v, want %v (%v)", cv.HasErrors(), tt.wantErr, cv.Errors())
			}
		})
	}
}

func TestConfigValidator_Floats(t *testing.T) {
	tests := []struct {
		name    string
		apply   func(*ConfigValidator)
		wantErr bool
	}{
		{"unit interval inside", func(cv *ConfigValidator) { cv.UnitInterval("Damping", 0.85) }, false},
		{"unit interval edges", func(cv *ConfigValidator) { cv.UnitInterval("Damping", 0).UnitInterval("Decay", 1) }, false},
		{"unit interval above", func(cv *ConfigValidator) { cv.UnitInterval("Damping", 1.2) }, true},
		{"unit interval NaN", func(cv *ConfigValidator) { cv.UnitInterval("Damping", math.NaN()) }, true},
		{"positive zero", func(cv *ConfigValidator) { cv.PositiveFloat("Tolerance", 0) }, true},
		{"positive NaN", func(cv *ConfigValidator) { cv.PositiveFloat("Tolerance", math.NaN()) }, true},
		{"positive small", func(cv *ConfigValidator) { cv.PositiveFloat("Tolerance", 1e-9) }, false},
		{"finite inf", func(cv *ConfigValidator) { cv.Finite("Threshold", math.Inf(1)) }, true},
		{"finite", func(cv *ConfigValidator) { cv.Finite("Threshold", 0.05) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cv := NewConfigValidator("Options")
			tt.apply(cv)
			if cv.HasErrors() != tt.wantErr {
				t.Errorf("HasErrors() = %v, want %v (%v)", cv.HasErrors(), tt.wantErr, cv.Errors())
			}
		})
	}
}

func TestConfigValidator_OneOf(t *testing.T) {
	allowed := []string{"max", "noisy_or"}
	if NewConfigValidator("Build").OneOf("Aggregation", "max", allowed).HasErrors() {
		t.Error("Expected no error for allowed value")
	}
	cv := NewConfigValidator("Build").OneOf("Aggregation", "sum", allowed)
	if !cv.HasErrors() {
		t.Fatal("Expected error for disallowed value")
	}
	if !strings.Contains(cv.Validate().Error(), "Build.Aggregation") {
		t.Errorf("Error should name the field, got %v", cv.Validate())
	}
}

func TestConfigValidator_CustomAndWhen(t *testing.T) {
	sentinel := errors.New("bucket required for s3")
	cv := NewConfigValidator("Storage").
		When(true, func(cv *ConfigValidator) {
			cv.Custom("Bucket", func() error { return sentinel })
		}).
		When(false, func(cv *ConfigValidator) {
			cv.Required("Never", "")
		})

	if len(cv.Errors()) != 1 {
		t.Fatalf("Expected 1 error, got %d", len(cv.Errors()))
	}
	if !errors.Is(cv.Validate(), sentinel) {
		t.Errorf("Custom error should wrap the cause, got %v", cv.Validate())
	}
}

func TestConfigValidator_Validate(t *testing.T) {
	if err := NewConfigValidator("C").Validate(); err != nil {
		t.Errorf("Expected nil, got %v", err)
	}

	err := NewConfigValidator("Influence").
		UnitInterval("DampingFactor", 2).
		MinInt("MaxIterations", 0, 1).
		PositiveFloat("Tolerance", -1).
		Validate()
	if err == nil {
		t.Fatal("Expected error")
	}
	if !strings.Contains(err.Error(), "3 errors") {
		t.Errorf("Expected error count in message, got %v", err)
	}
}

type selfValidating struct{ err error }

func (s selfValidating) Validate() error { return s.err }

func TestValidateConfig(t *testing.T) {
	if err := ValidateConfig(nil); err == nil {
		t.Error("Expected error for nil config")
	}
	if err := ValidateConfig(selfValidating{}); err != nil {
		t.Errorf("Expected nil, got %v", err)
	}
	want := errors.New("bad")
	if err := ValidateConfig(selfValidating{err: want}); !errors.Is(err, want) {
		t.Errorf("Expected %v, got %v", want, err)
	}
}

func TestDefaultOrAndClamp(t *testing.T) {
	if DefaultOr(0, 7) != 7 || DefaultOr(3, 7) != 3 {
		t.Error("DefaultOr[int] mismatch")
	}
	if DefaultOr("", "max") != "max" {
		t.Error("DefaultOr[string] mismatch")
	}
	if ClampFloat(-0.1, 0, 1) != 0 || ClampFloat(1.5, 0, 1) != 1 || ClampFloat(0.4, 0, 1) != 0.4 {
		t.Error("ClampFloat mismatch")
	}
}
