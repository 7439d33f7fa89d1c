package algorithms

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/graph"
)

func TestSimulateFailures_MatchesSequential(t *testing.T) {
	g := newTestGraph(t, []string{"A", "B", "C", "D", "E"},
		dep{"A", "B", 0.9},
		dep{"B", "C", 0.6},
		dep{"C", "A", 0.4},
		dep{"D", "C", 0.8},
		dep{"E", "D", 0.3},
	)
	opts := DefaultFailureOptions()

	batch, err := SimulateFailures(g, g.NodeIDs(), opts, 3)
	if err != nil {
		t.Fatalf("SimulateFailures failed: %v", err)
	}
	if len(batch) != g.Len() {
		t.Fatalf("Expected %d results, got %d", g.Len(), len(batch))
	}

	for _, id := range g.NodeIDs() {
		want, err := SimulateFailure(g, id, opts)
		if err != nil {
			t.Fatalf("SimulateFailure(%s) failed: %v", id, err)
		}
		if !reflect.DeepEqual(batch[id], want) {
			t.Errorf("batch[%s] = %+v, want %+v", id, batch[id], want)
		}
	}
}

func TestSimulateFailures_UnknownStart(t *testing.T) {
	g := scenarioGraph(t)

	results, err := SimulateFailures(g, []string{"A", "Z", "C"}, DefaultFailureOptions(), 2)
	if !errors.Is(err, graph.ErrUnknownNode) {
		t.Fatalf("Expected ErrUnknownNode, got %v", err)
	}
	if _, ok := results["C"]; !ok {
		t.Error("Completed results should still be returned")
	}
	if _, ok := results["Z"]; ok {
		t.Error("Failed start must not have a result")
	}
}

func TestSimulateFailures_DefaultWorkers(t *testing.T) {
	results, err := SimulateFailures(scenarioGraph(t), []string{"C"}, DefaultFailureOptions(), 0)
	if err != nil {
		t.Fatalf("SimulateFailures failed: %v", err)
	}
	if len(results["C"].Impacted) != 2 {
		t.Errorf("Impacted = %v", results["C"].Impacted)
	}
}

func TestCascadeRanking(t *testing.T) {
	ranking, err := CascadeRanking(scenarioGraph(t), DefaultFailureOptions(), 2)
	if err != nil {
		t.Fatalf("CascadeRanking failed: %v", err)
	}

	// B takes down A (0.56); C takes down B and A (0.35 + 0.196).
	want := []struct {
		id       string
		total    float64
		impacted int
	}{
		{"B", 0.56, 1},
		{"C", 0.546, 2},
		{"A", 0, 0},
	}
	if len(ranking) != len(want) {
		t.Fatalf("ranking = %v", ranking)
	}
	for i, w := range want {
		got := ranking[i]
		if got.NodeID != w.id || math.Abs(got.TotalImpact-w.total) > 1e-12 || got.Impacted != w.impacted {
			t.Errorf("ranking[%d] = %+v, want %s/%f/%d", i, got, w.id, w.total, w.impacted)
		}
	}
}
