package validation

import (
	"errors"
	"math"
	"testing"
)

type sampleRecord struct {
	ID       string  `json:"company_id" validate:"required"`
	Score    float64 `json:"score" validate:"finite,gte=0"`
	Reliance float64 `json:"operational_reliance" validate:"finite"`
	Internal string  `validate:"omitempty,max=3"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name      string
		record    sampleRecord
		wantField string
		wantTag   string
	}{
		{"valid", sampleRecord{ID: "A", Score: 1.5}, "", ""},
		{"zero score is valid", sampleRecord{ID: "A"}, "", ""},
		{"missing id", sampleRecord{Score: 1}, "company_id", "required"},
		{"negative score", sampleRecord{ID: "A", Score: -1}, "score", "gte"},
		{"infinite reliance", sampleRecord{ID: "A", Reliance: math.Inf(1)}, "operational_reliance", "finite"},
		{"untagged json uses field name", sampleRecord{ID: "A", Internal: "toolong"}, "Internal", "max"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.record)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Struct() error = %v, want nil", err)
				}
				return
			}

			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("Struct() error = %v, want *FieldError", err)
			}
			if fe.Field != tt.wantField || fe.Tag != tt.wantTag {
				t.Errorf("FieldError = %+v, want field %s tag %s", fe, tt.wantField, tt.wantTag)
			}
			if fe.Error() == "" {
				t.Error("Expected non-empty message")
			}
		})
	}
}

func TestStruct_NaNRejected(t *testing.T) {
	if err := Struct(sampleRecord{ID: "A", Score: math.NaN()}); err == nil {
		t.Error("Expected NaN score to be rejected")
	}
}

func TestStruct_Nil(t *testing.T) {
	if err := Struct(nil); err == nil {
		t.Error("Expected error for nil record")
	}
}

func TestIsMissing(t *testing.T) {
	err := Struct(sampleRecord{})
	if !IsMissing(err, "company_id") {
		t.Errorf("IsMissing(company_id) = false for %v", err)
	}
	if !IsMissing(err, "") {
		t.Error("IsMissing with empty field should match any required field")
	}
	if IsMissing(err, "supplier_id") {
		t.Error("IsMissing(supplier_id) should be false")
	}
	if IsMissing(errors.New("other"), "") {
		t.Error("IsMissing should be false for non-field errors")
	}
}
