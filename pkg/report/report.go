// Package report assembles the results of one analysis run and writes them
// as JSON, YAML or CSV.
package report

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/algorithms"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/graph"
)

// Report is the outcome of one analysis run.
type Report struct {
	RunID       string                    `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time                 `json:"generated_at" yaml:"generated_at"`
	Summary     algorithms.Summary        `json:"summary" yaml:"summary"`
	Influence   Influence                 `json:"influence" yaml:"influence"`
	Systemic    []algorithms.RankedNode   `json:"systemic_importance" yaml:"systemic_importance"`
	Cascade     *Cascade                  `json:"cascade,omitempty" yaml:"cascade,omitempty"`
	BlastRadius []algorithms.CascadeEntry `json:"blast_radius,omitempty" yaml:"blast_radius,omitempty"`
	Diagnostics Diagnostics               `json:"diagnostics" yaml:"diagnostics"`
}

// Influence summarises an influence computation.
type Influence struct {
	Converged  bool                    `json:"converged" yaml:"converged"`
	Iterations int                     `json:"iterations" yaml:"iterations"`
	Top        []algorithms.RankedNode `json:"top" yaml:"top"`
}

// Impact is one dependent hit by a simulated failure.
type Impact struct {
	NodeID string  `json:"node_id" yaml:"node_id"`
	Impact float64 `json:"impact" yaml:"impact"`
}

// Cascade is a failure simulation with impacts listed in the order nodes
// first crossed the threshold.
type Cascade struct {
	Start       string   `json:"start" yaml:"start"`
	TotalImpact float64  `json:"total_impact" yaml:"total_impact"`
	Steps       int      `json:"steps" yaml:"steps"`
	Truncated   bool     `json:"truncated" yaml:"truncated"`
	Impacts     []Impact `json:"impacts" yaml:"impacts"`
}

// Diagnostics counts the records the builder skipped.
type Diagnostics struct {
	Total   int                `json:"total" yaml:"total"`
	ByKind  map[string]int     `json:"by_kind,omitempty" yaml:"by_kind,omitempty"`
	Records []graph.Diagnostic `json:"records,omitempty" yaml:"records,omitempty"`
}

// MaxDiagnosticRecords caps how many individual diagnostics a report lists.
const MaxDiagnosticRecords = 50

// NewRunID returns a fresh random run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// New starts a report for runID. An empty runID gets a fresh one.
func New(runID string, at time.Time) *Report {
	if runID == "" {
		runID = NewRunID()
	}
	return &Report{
		RunID:       runID,
		GeneratedAt: at.UTC(),
		Systemic:    []algorithms.RankedNode{},
	}
}

// NewInfluence keeps the convergence details and the top n nodes of r.
func NewInfluence(r *algorithms.InfluenceResult, n int) Influence {
	return Influence{
		Converged:  r.Converged,
		Iterations: r.Iterations,
		Top:        algorithms.TopNodes(r.Scores, n),
	}
}

// NewCascade flattens a failure result.
func NewCascade(r *algorithms.FailureResult) *Cascade {
	c := &Cascade{
		Start:       r.Start,
		TotalImpact: r.TotalImpact(),
		Steps:       r.Steps,
		Truncated:   r.Truncated,
		Impacts:     make([]Impact, 0, len(r.Order)),
	}
	for _, id := range r.Order {
		c.Impacts = append(c.Impacts, Impact{NodeID: id, Impact: r.Impacted[id]})
	}
	return c
}

// NewDiagnostics tallies ds and keeps the first MaxDiagnosticRecords.
func NewDiagnostics(ds graph.Diagnostics) Diagnostics {
	d := Diagnostics{Total: len(ds)}
	if len(ds) == 0 {
		return d
	}
	d.ByKind = make(map[string]int)
	for kind, n := range ds.ByKind() {
		d.ByKind[string(kind)] = n
	}
	d.Records = append(d.Records, ds[:min(len(ds), MaxDiagnosticRecords)]...)
	return d
}

// Kinds returns the diagnostic kinds present, sorted.
func (d Diagnostics) Kinds() []string {
	kinds := make([]string, 0, len(d.ByKind))
	for k := range d.ByKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
