package scoring

import (
	"math"

	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/validation"
)

// RelianceMetrics are the reported shares for one asset, each expected in
// [0, 1]. Out-of-range values are clamped before weighting.
type RelianceMetrics struct {
	RevenueShare         float64
	CriticalServiceShare float64
	ClientShare          float64
	CapacityShare        float64
	RedundancyLevel      float64
}

// RelianceWeights weight the four exposure shares. Redundancy is not
// weighted; it scales the whole sum down.
type RelianceWeights struct {
	RevenueShare         float64 `mapstructure:"revenue_share" yaml:"revenue_share"`
	CriticalServiceShare float64 `mapstructure:"critical_service_share" yaml:"critical_service_share"`
	ClientShare          float64 `mapstructure:"client_share" yaml:"client_share"`
	CapacityShare        float64 `mapstructure:"capacity_share" yaml:"capacity_share"`
}

// DefaultRelianceWeights returns the regulator defaults.
func DefaultRelianceWeights() RelianceWeights {
	return RelianceWeights{
		RevenueShare:         0.3,
		CriticalServiceShare: 0.3,
		ClientShare:          0.2,
		CapacityShare:        0.2,
	}
}

// Validate checks that every weight is a finite non-negative number.
func (w RelianceWeights) Validate() error {
	cv := validation.NewConfigValidator("RelianceWeights")
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"RevenueShare", w.RevenueShare},
		{"CriticalServiceShare", w.CriticalServiceShare},
		{"ClientShare", w.ClientShare},
		{"CapacityShare", w.CapacityShare},
	} {
		cv.Finite(f.name, f.value).RangeFloat(f.name, f.value, 0, math.MaxFloat64)
	}
	return cv.Validate()
}

// OperationalReliance computes how dependent an owner is on one supplied
// asset. The result is always in [0, 1].
func OperationalReliance(m RelianceMetrics, w RelianceWeights) float64 {
	sum := w.RevenueShare*unit(m.RevenueShare) +
		w.CriticalServiceShare*unit(m.CriticalServiceShare) +
		w.ClientShare*unit(m.ClientShare) +
		w.CapacityShare*unit(m.CapacityShare)
	return unit(sum * (1 - unit(m.RedundancyLevel)))
}

func unit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return validation.ClampFloat(v, 0, 1)
}
