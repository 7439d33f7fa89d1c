package graph

import (
	"fmt"
)

// DiagnosticKind classifies a record the builder skipped or replaced.
type DiagnosticKind string

const (
	DiagUnknownOwner     DiagnosticKind = "unknown_owner"
	DiagUnknownSupplier  DiagnosticKind = "unknown_supplier"
	DiagMalformedAsset   DiagnosticKind = "malformed_asset"
	DiagMalformedCompany DiagnosticKind = "malformed_company"
	DiagDuplicateCompany DiagnosticKind = "duplicate_company"
)

// Diagnostic records one input record the builder did not use as given.
type Diagnostic struct {
	Kind       DiagnosticKind `json:"kind" yaml:"kind"`
	Entity     string         `json:"entity" yaml:"entity"`
	Index      int            `json:"index" yaml:"index"`
	CompanyID  string         `json:"company_id,omitempty" yaml:"company_id,omitempty"`
	SupplierID string         `json:"supplier_id,omitempty" yaml:"supplier_id,omitempty"`
	AssetID    string         `json:"asset_id,omitempty" yaml:"asset_id,omitempty"`
	Message    string         `json:"message" yaml:"message"`
	Err        error          `json:"-" yaml:"-"`
}

// String renders the diagnostic on one line.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s[%d]: %s", d.Kind, d.Entity, d.Index, d.Message)
}

// Diagnostics is the ordered list produced by one build.
type Diagnostics []Diagnostic

// Count returns how many diagnostics have the given kind.
func (ds Diagnostics) Count(kind DiagnosticKind) int {
	n := 0
	for _, d := range ds {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// ByKind tallies diagnostics per kind.
func (ds Diagnostics) ByKind() map[DiagnosticKind]int {
	counts := make(map[DiagnosticKind]int)
	for _, d := range ds {
		counts[d.Kind]++
	}
	return counts
}
