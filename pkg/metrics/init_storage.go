package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initStorageMetrics() {
	r.StorageOperationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "cidm_storage_operations_total",
			Help: "Total number of snapshot store operations",
		},
		[]string{"backend", "operation", "status"},
	)

	r.StorageOperationDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cidm_storage_operation_duration_seconds",
			Help:    "Snapshot store operation duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
		[]string{"backend", "operation"},
	)

	r.StorageBytesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "cidm_storage_bytes_total",
			Help: "Bytes moved through the snapshot store",
		},
		[]string{"backend", "direction"},
	)
}
