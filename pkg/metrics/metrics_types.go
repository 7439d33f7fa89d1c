package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Graph Metrics
	GraphNodes            prometheus.Gauge
	GraphEdges            prometheus.Gauge
	BuildRecordsTotal     *prometheus.CounterVec
	BuildDiagnosticsTotal *prometheus.CounterVec
	BuildDuration         prometheus.Histogram

	// Influence Metrics
	InfluenceRunsTotal  *prometheus.CounterVec
	InfluenceIterations prometheus.Histogram
	InfluenceDuration   prometheus.Histogram

	// Failure Simulation Metrics
	SimulationsTotal   *prometheus.CounterVec
	SimulationImpacted prometheus.Histogram
	SimulationDuration prometheus.Histogram

	// Storage Metrics
	StorageOperationsTotal   *prometheus.CounterVec
	StorageOperationDuration *prometheus.HistogramVec
	StorageBytesTotal        *prometheus.CounterVec

	// System Metrics
	LastRunTimestamp prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge
	MemorySysBytes   prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.Mutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	// Initialize all metrics
	r.initGraphMetrics()
	r.initEngineMetrics()
	r.initStorageMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
