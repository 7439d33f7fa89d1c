package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.GraphNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "cidm_graph_nodes",
			Help: "Companies in the current dependency graph",
		},
	)

	r.GraphEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "cidm_graph_edges",
			Help: "Aggregated dependencies in the current graph",
		},
	)

	r.BuildRecordsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "cidm_build_records_total",
			Help: "Input records seen by the graph builder",
		},
		[]string{"entity", "outcome"},
	)

	r.BuildDiagnosticsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "cidm_build_diagnostics_total",
			Help: "Records skipped during graph build, by reason",
		},
		[]string{"kind"},
	)

	r.BuildDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cidm_build_duration_seconds",
			Help:    "Graph build duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
	)
}
