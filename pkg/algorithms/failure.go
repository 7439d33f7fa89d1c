package algorithms

import (
	"sort"

	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/graph"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/logging"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/validation"
)

// FailureOptions configures the failure simulator
type FailureOptions struct {
	DecayFactor float64 // Attenuation applied at every hop
	Threshold   float64 // Impacts at or below this are dropped
	MaxSteps    int     // Frontier expansions; 0 means one per node
	Logger      logging.Logger
}

// DefaultFailureOptions returns default simulator configuration
func DefaultFailureOptions() FailureOptions {
	return FailureOptions{
		DecayFactor: 0.7,
		Threshold:   0.05,
	}
}

// Validate checks the option ranges.
func (o FailureOptions) Validate() error {
	return validation.NewConfigValidator("FailureOptions").
		UnitInterval("DecayFactor", o.DecayFactor).
		UnitInterval("Threshold", o.Threshold).
		NonNegative("MaxSteps", o.MaxSteps).
		Validate()
}

// FailureResult describes how a single failure propagates to dependents.
type FailureResult struct {
	Start     string             `json:"start" yaml:"start"`
	Impacted  map[string]float64 `json:"impacted" yaml:"impacted"` // Excludes Start
	Order     []string           `json:"order" yaml:"order"`       // First threshold crossings
	Steps     int                `json:"steps" yaml:"steps"`
	Truncated bool               `json:"truncated" yaml:"truncated"` // Step cap hit with work pending
}

// Impact returns the impact on a node; the start node always reports 1.
func (r *FailureResult) Impact(nodeID string) float64 {
	if nodeID == r.Start && r.Start != "" {
		return 1
	}
	return r.Impacted[nodeID]
}

// TotalImpact sums the impact on every dependent.
func (r *FailureResult) TotalImpact() float64 {
	total := 0.0
	for _, v := range r.Impacted {
		total += v
	}
	return total
}

// SimulateFailure propagates the failure of start to the owners that rely on
// it. Each hop multiplies the impact by the reliance weight and the decay
// factor; a dependent is updated only when the new impact is above the
// threshold and strictly higher than what it already has, and is then expanded
// again. Expansion stops after MaxSteps frontier rounds.
func SimulateFailure(g *graph.Graph, start string, opts FailureOptions) (*FailureResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	result := &FailureResult{
		Start:    start,
		Impacted: make(map[string]float64),
		Order:    []string{},
	}
	if g.Len() == 0 {
		return result, nil
	}
	if !g.Has(start) {
		return nil, &graph.UnknownNodeError{Op: "simulate_failure", ID: start}
	}

	log := logging.OrNop(opts.Logger).With(logging.Component("failure"), logging.NodeID(start))
	timer := logging.StartTimer(log, "failure simulated")

	maxSteps := validation.DefaultOr(opts.MaxSteps, g.Len())

	impact := map[string]float64{start: 1}
	frontier := []string{start}

	for len(frontier) > 0 && result.Steps < maxSteps {
		result.Steps++

		// Snapshot the frontier so updates in this round only feed the next one.
		current := frontier
		frontier = nil
		queued := make(map[string]bool)

		for _, failed := range current {
			dependents, err := g.Predecessors(failed)
			if err != nil {
				return nil, err
			}
			for _, e := range dependents {
				if e.Owner == start {
					continue
				}
				candidate := impact[failed] * e.Weight * opts.DecayFactor
				if candidate <= opts.Threshold || candidate <= impact[e.Owner] {
					continue
				}
				if _, seen := impact[e.Owner]; !seen {
					result.Order = append(result.Order, e.Owner)
				}
				impact[e.Owner] = candidate
				if !queued[e.Owner] {
					queued[e.Owner] = true
					frontier = append(frontier, e.Owner)
				}
			}
		}
		sort.Strings(frontier)
	}
	result.Truncated = len(frontier) > 0

	for id, v := range impact {
		if id != start {
			result.Impacted[id] = v
		}
	}

	timer.End(logging.Count(len(result.Impacted)), logging.Int("steps", result.Steps))
	if result.Truncated {
		log.Warn("failure propagation stopped at step cap", logging.Int("max_steps", maxSteps))
	}
	return result, nil
}

// ThresholdCascade marks every owner whose reliance on a failed company is at
// least threshold as failed too, until no new failures appear. The returned
// ids include start and are sorted.
func ThresholdCascade(g *graph.Graph, start string, threshold float64) ([]string, error) {
	if !g.Has(start) {
		return nil, &graph.UnknownNodeError{Op: "threshold_cascade", ID: start}
	}

	failed := map[string]bool{start: true}
	frontier := []string{start}

	for len(frontier) > 0 {
		var next []string
		for _, id := range frontier {
			dependents, err := g.Predecessors(id)
			if err != nil {
				return nil, err
			}
			for _, e := range dependents {
				if e.Weight >= threshold && !failed[e.Owner] {
					failed[e.Owner] = true
					next = append(next, e.Owner)
				}
			}
		}
		frontier = next
	}

	ids := make([]string, 0, len(failed))
	for id := range failed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
