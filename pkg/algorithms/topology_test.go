package algorithms

import (
	"errors"
	"reflect"
	"testing"
)

func TestTopologicalSort(t *testing.T) {
	g := newTestGraph(t, []string{"A", "B", "C", "D"},
		dep{"A", "C", 0.5},
		dep{"B", "C", 0.5},
		dep{"C", "D", 0.5},
	)

	order, err := TopologicalSort(g)
	if err != nil {
		t.Fatalf("TopologicalSort failed: %v", err)
	}
	if !reflect.DeepEqual(order, []string{"A", "B", "C", "D"}) {
		t.Errorf("order = %v", order)
	}
	if !IsDAG(g) || HasCycle(g) {
		t.Error("Expected a DAG")
	}
}

func TestTopologicalSort_Cycle(t *testing.T) {
	g := newTestGraph(t, []string{"A", "B"}, dep{"A", "B", 1}, dep{"B", "A", 1})

	if _, err := TopologicalSort(g); !errors.Is(err, ErrCyclic) {
		t.Errorf("Expected ErrCyclic, got %v", err)
	}
	if _, err := SupplyTiers(g); !errors.Is(err, ErrCyclic) {
		t.Errorf("Expected ErrCyclic from SupplyTiers, got %v", err)
	}
	if !HasCycle(g) {
		t.Error("Expected a cycle")
	}
}

func TestSupplyTiers(t *testing.T) {
	g := newTestGraph(t, []string{"A", "B", "C", "D", "E"},
		dep{"A", "B", 0.8},
		dep{"B", "C", 0.5},
		dep{"A", "D", 0.3},
	)

	tiers, err := SupplyTiers(g)
	if err != nil {
		t.Fatalf("SupplyTiers failed: %v", err)
	}
	want := [][]string{{"C", "D", "E"}, {"B"}, {"A"}}
	if !reflect.DeepEqual(tiers, want) {
		t.Errorf("tiers = %v, want %v", tiers, want)
	}
}
