package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	// Verify all metrics are initialized
	if r.GraphNodes == nil {
		t.Error("GraphNodes not initialized")
	}
	if r.InfluenceRunsTotal == nil {
		t.Error("InfluenceRunsTotal not initialized")
	}
	if r.SimulationsTotal == nil {
		t.Error("SimulationsTotal not initialized")
	}
	if r.StorageOperationsTotal == nil {
		t.Error("StorageOperationsTotal not initialized")
	}
	if r.GetPrometheusRegistry() == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	// Should return the same instance
	if DefaultRegistry() != DefaultRegistry() {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordGraphAndBuild(t *testing.T) {
	r := NewRegistry()

	r.RecordGraph(20, 45)
	r.RecordBuildRecords("asset", "accepted", 55)
	r.RecordBuildRecords("asset", "skipped", 5)
	r.RecordBuildRecords("asset", "skipped", 2)
	r.RecordDiagnostics(map[string]int{"unknown_supplier": 4, "malformed_asset": 3})
	r.RecordBuild(20 * time.Millisecond)

	if got := testutil.ToFloat64(r.GraphNodes); got != 20 {
		t.Errorf("GraphNodes = %v, want 20", got)
	}
	if got := testutil.ToFloat64(r.GraphEdges); got != 45 {
		t.Errorf("GraphEdges = %v, want 45", got)
	}

	counter, err := r.BuildRecordsTotal.GetMetricWithLabelValues("asset", "skipped")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 7 {
		t.Errorf("skipped assets = %v, want 7", metric.Counter.GetValue())
	}

	if got := testutil.ToFloat64(r.BuildDiagnosticsTotal.WithLabelValues("unknown_supplier")); got != 4 {
		t.Errorf("unknown_supplier diagnostics = %v, want 4", got)
	}
}

func TestRecordInfluence(t *testing.T) {
	r := NewRegistry()

	r.RecordInfluence(12, true, 3*time.Millisecond)
	r.RecordInfluence(100, false, 30*time.Millisecond)
	r.RecordInfluence(8, true, 2*time.Millisecond)

	if got := testutil.ToFloat64(r.InfluenceRunsTotal.WithLabelValues("true")); got != 2 {
		t.Errorf("converged runs = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.InfluenceRunsTotal.WithLabelValues("false")); got != 1 {
		t.Errorf("unconverged runs = %v, want 1", got)
	}

	var metric dto.Metric
	if err := r.InfluenceIterations.Write(&metric); err != nil {
		t.Fatalf("Failed to write histogram: %v", err)
	}
	if metric.Histogram.GetSampleCount() != 3 || metric.Histogram.GetSampleSum() != 120 {
		t.Errorf("iterations histogram count/sum = %d/%v, want 3/120",
			metric.Histogram.GetSampleCount(), metric.Histogram.GetSampleSum())
	}
}

func TestRecordSimulation(t *testing.T) {
	r := NewRegistry()

	r.RecordSimulation(2, nil, time.Millisecond)
	r.RecordSimulation(0, errors.New("unknown node"), time.Millisecond)

	if got := testutil.ToFloat64(r.SimulationsTotal.WithLabelValues(StatusSuccess)); got != 1 {
		t.Errorf("successful simulations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.SimulationsTotal.WithLabelValues(StatusError)); got != 1 {
		t.Errorf("failed simulations = %v, want 1", got)
	}

	var metric dto.Metric
	if err := r.SimulationImpacted.Write(&metric); err != nil {
		t.Fatalf("Failed to write histogram: %v", err)
	}
	if metric.Histogram.GetSampleCount() != 1 {
		t.Errorf("impacted samples = %d, want 1 (errors are not observed)", metric.Histogram.GetSampleCount())
	}
}

func TestRecordStorageOperation(t *testing.T) {
	r := NewRegistry()

	r.RecordStorageOperation("local", "put", 1024, nil, 10*time.Millisecond)
	r.RecordStorageOperation("local", "get", 512, nil, 5*time.Millisecond)
	r.RecordStorageOperation("s3", "get", 0, errors.New("no such key"), 5*time.Millisecond)

	tests := []struct {
		labels []string
		want   float64
	}{
		{[]string{"local", "put", StatusSuccess}, 1},
		{[]string{"local", "get", StatusSuccess}, 1},
		{[]string{"s3", "get", StatusError}, 1},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(r.StorageOperationsTotal.WithLabelValues(tt.labels...)); got != tt.want {
			t.Errorf("operations%v = %v, want %v", tt.labels, got, tt.want)
		}
	}

	if got := testutil.ToFloat64(r.StorageBytesTotal.WithLabelValues("local", "written")); got != 1024 {
		t.Errorf("bytes written = %v, want 1024", got)
	}
	if got := testutil.ToFloat64(r.StorageBytesTotal.WithLabelValues("local", "read")); got != 512 {
		t.Errorf("bytes read = %v, want 512", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	r := NewRegistry()
	r.RecordGraph(3, 2)
	r.MarkRun(time.Unix(1700000000, 0))

	path := filepath.Join(t.TempDir(), "cidm.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read textfile: %v", err)
	}
	out := string(data)
	for _, want := range []string{"cidm_graph_nodes 3", "cidm_graph_edges 2", "cidm_last_run_timestamp_seconds 1.7e+09", "cidm_goroutines"} {
		if !strings.Contains(out, want) {
			t.Errorf("Textfile missing %q:\n%s", want, out)
		}
	}
}
