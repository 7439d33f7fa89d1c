package algorithms

import (
	"testing"

	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/graph"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/records"
)

// dep is one owner→supplier reliance in a test graph.
type dep struct {
	owner    string
	supplier string
	weight   float64
}

// newTestGraph builds a graph over ids with unit economic and societal
// scores and the given dependencies.
func newTestGraph(t testing.TB, ids []string, deps ...dep) *graph.Graph {
	t.Helper()

	companies := make([]records.Company, len(ids))
	for i, id := range ids {
		companies[i] = records.Company{CompanyID: id, EconomicScore: 1, SocietalScore: 1}
	}
	assets := make([]records.Asset, len(deps))
	for i, d := range deps {
		assets[i] = records.Asset{CompanyID: d.owner, SupplierID: d.supplier, OperationalReliance: d.weight}
	}

	g, diags, err := graph.Build(companies, assets, graph.DefaultBuildOptions())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("Unexpected diagnostics: %v", diags)
	}
	return g
}

// scenarioGraph is A→B (0.8), B→C (0.5): A relies on B, which relies on C.
func scenarioGraph(t testing.TB) *graph.Graph {
	t.Helper()
	return newTestGraph(t, []string{"A", "B", "C"},
		dep{"A", "B", 0.8},
		dep{"B", "C", 0.5},
	)
}
