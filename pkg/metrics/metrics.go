package metrics

import (
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Status label values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

func statusOf(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}

// RecordGraph sets the size of the graph currently in use
func (r *Registry) RecordGraph(nodes, edges int) {
	r.GraphNodes.Set(float64(nodes))
	r.GraphEdges.Set(float64(edges))
}

// RecordBuildRecords counts n input records of an entity ("company",
// "asset") with the given outcome ("accepted", "skipped").
func (r *Registry) RecordBuildRecords(entity, outcome string, n int) {
	r.BuildRecordsTotal.WithLabelValues(entity, outcome).Add(float64(n))
}

// RecordDiagnostics counts skipped records by diagnostic kind
func (r *Registry) RecordDiagnostics(byKind map[string]int) {
	for kind, n := range byKind {
		r.BuildDiagnosticsTotal.WithLabelValues(kind).Add(float64(n))
	}
}

// RecordBuild records a graph build duration
func (r *Registry) RecordBuild(duration time.Duration) {
	r.BuildDuration.Observe(duration.Seconds())
}

// RecordInfluence records one influence computation
func (r *Registry) RecordInfluence(iterations int, converged bool, duration time.Duration) {
	r.InfluenceRunsTotal.WithLabelValues(strconv.FormatBool(converged)).Inc()
	r.InfluenceIterations.Observe(float64(iterations))
	r.InfluenceDuration.Observe(duration.Seconds())
}

// RecordSimulation records one failure simulation
func (r *Registry) RecordSimulation(impacted int, err error, duration time.Duration) {
	r.SimulationsTotal.WithLabelValues(statusOf(err)).Inc()
	r.SimulationDuration.Observe(duration.Seconds())
	if err == nil {
		r.SimulationImpacted.Observe(float64(impacted))
	}
}

// RecordStorageOperation records a snapshot store operation. Bytes are
// counted as written for "put" and read for "get".
func (r *Registry) RecordStorageOperation(backend, operation string, bytes int, err error, duration time.Duration) {
	r.StorageOperationsTotal.WithLabelValues(backend, operation, statusOf(err)).Inc()
	r.StorageOperationDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())

	if err != nil || bytes <= 0 {
		return
	}
	switch operation {
	case "put":
		r.StorageBytesTotal.WithLabelValues(backend, "written").Add(float64(bytes))
	case "get":
		r.StorageBytesTotal.WithLabelValues(backend, "read").Add(float64(bytes))
	}
}

// MarkRun stamps the end of an analysis run
func (r *Registry) MarkRun(at time.Time) {
	r.LastRunTimestamp.Set(float64(at.Unix()))
}

// UpdateSystemMetrics samples goroutine and memory statistics
func (r *Registry) UpdateSystemMetrics() {
	r.mu.Lock()
	defer r.mu.Unlock()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(m.Alloc))
	r.MemorySysBytes.Set(float64(m.Sys))
}

// WriteTextfile writes every metric in the text exposition format, for the
// node_exporter textfile collector. The file is replaced atomically.
func (r *Registry) WriteTextfile(path string) error {
	r.UpdateSystemMetrics()
	return prometheus.WriteToTextfile(path, r.registry)
}
