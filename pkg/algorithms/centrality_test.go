package algorithms

import (
	"math"
	"testing"

	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/graph"
)

func assertScores(t *testing.T, name string, got, want map[string]float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("%s: got %d scores, want %d", name, len(got), len(want))
	}
	for id, w := range want {
		if math.Abs(got[id]-w) > 1e-9 {
			t.Errorf("%s[%s] = %f, want %f", name, id, got[id], w)
		}
	}
}

// TestDegreeCentrality_LinearChain tests degree centrality on A->B->C
func TestDegreeCentrality_LinearChain(t *testing.T) {
	assertScores(t, "degree", DegreeCentrality(scenarioGraph(t)), map[string]float64{
		"A": 0.5,
		"B": 1.0,
		"C": 0.5,
	})
}

// TestDegreeCentrality_SingleNode tests degree centrality on single node
func TestDegreeCentrality_SingleNode(t *testing.T) {
	assertScores(t, "degree", DegreeCentrality(newTestGraph(t, []string{"solo"})), map[string]float64{
		"solo": 0,
	})
}

func TestDegreeCentrality_EmptyGraph(t *testing.T) {
	if got := DegreeCentrality(graph.Empty()); len(got) != 0 {
		t.Errorf("Expected no scores, got %v", got)
	}
}

func TestDependencyCentrality(t *testing.T) {
	g := newTestGraph(t, []string{"A", "B", "C", "hub"},
		dep{"A", "hub", 0.9},
		dep{"B", "hub", 0.4},
		dep{"C", "hub", 0.2},
		dep{"hub", "C", 0.1},
	)

	assertScores(t, "dependency", DependencyCentrality(g), map[string]float64{
		"A":   0,
		"B":   0,
		"C":   0.1,
		"hub": 1.5,
	})
}

// TestBetweennessCentrality_LinearChain tests betweenness on A->B->C
func TestBetweennessCentrality_LinearChain(t *testing.T) {
	assertScores(t, "betweenness", BetweennessCentrality(scenarioGraph(t)), map[string]float64{
		"A": 0,
		"B": 0.5, // On the single A→C chain, normalised by (n-1)(n-2) = 2
		"C": 0,
	})
}

// TestBetweennessCentrality_Diamond splits the A→D chains evenly over B and C
func TestBetweennessCentrality_Diamond(t *testing.T) {
	g := newTestGraph(t, []string{"A", "B", "C", "D"},
		dep{"A", "B", 1},
		dep{"A", "C", 1},
		dep{"B", "D", 1},
		dep{"C", "D", 1},
	)

	// Raw 0.5 each, normalised by 3·2
	assertScores(t, "betweenness", BetweennessCentrality(g), map[string]float64{
		"A": 0,
		"B": 0.5 / 6,
		"C": 0.5 / 6,
		"D": 0,
	})
}

func TestSystemicImportance(t *testing.T) {
	g := scenarioGraph(t)
	global := map[string]float64{"A": 0.1, "B": 0.2, "C": 0.7}

	ranked := SystemicImportance(g, global)

	// dependency: A 0, B 0.8, C 0.5
	want := []RankedNode{{"C", 0.58}, {"B", 0.56}, {"A", 0.04}}
	if len(ranked) != len(want) {
		t.Fatalf("ranked = %v", ranked)
	}
	for i, w := range want {
		if ranked[i].NodeID != w.NodeID || math.Abs(ranked[i].Score-w.Score) > 1e-9 {
			t.Errorf("ranked[%d] = %v, want %v", i, ranked[i], w)
		}
	}
}

func TestSystemicImportance_UsesAttachedGlobal(t *testing.T) {
	g := scenarioGraph(t).WithInfluence(map[string]float64{"A": 1})

	ranked := SystemicImportance(g, nil)
	scores := make(map[string]float64)
	for _, rn := range ranked {
		scores[rn.NodeID] = rn.Score
	}

	assertScores(t, "importance", scores, map[string]float64{
		"A": 0.4,
		"B": 0.48,
		"C": 0.3,
	})
}

func TestComputeAllCentrality(t *testing.T) {
	result := ComputeAllCentrality(scenarioGraph(t), 2)

	if len(result.Degree) != 3 || len(result.Betweenness) != 3 || len(result.Dependency) != 3 {
		t.Fatalf("Expected 3 scores per measure, got %+v", result)
	}
	if len(result.TopByDegree) != 2 || result.TopByDegree[0].NodeID != "B" {
		t.Errorf("TopByDegree = %v", result.TopByDegree)
	}
	if result.TopByBetweenness[0].NodeID != "B" {
		t.Errorf("TopByBetweenness = %v", result.TopByBetweenness)
	}
	if result.TopByDependency[0].NodeID != "B" {
		t.Errorf("TopByDependency = %v", result.TopByDependency)
	}
}
