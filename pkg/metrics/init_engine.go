package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initEngineMetrics() {
	r.InfluenceRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "cidm_influence_runs_total",
			Help: "Influence computations by convergence outcome",
		},
		[]string{"converged"},
	)

	r.InfluenceIterations = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cidm_influence_iterations",
			Help:    "Power iterations per influence computation",
			Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500},
		},
	)

	r.InfluenceDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cidm_influence_duration_seconds",
			Help:    "Influence computation duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
	)

	r.SimulationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "cidm_failure_simulations_total",
			Help: "Failure simulations by outcome",
		},
		[]string{"status"},
	)

	r.SimulationImpacted = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cidm_failure_impacted_nodes",
			Help:    "Companies impacted per simulated failure",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100, 500},
		},
	)

	r.SimulationDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cidm_failure_duration_seconds",
			Help:    "Failure simulation duration in seconds",
			Buckets: []float64{0.0001, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
	)
}
