package algorithms

import (
	"errors"
	"sort"

	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/graph"
)

// ErrCyclic is returned when an ordering needs an acyclic graph.
var ErrCyclic = errors.New("dependency graph contains cycles")

// HasCycle reports whether any chain of reliance loops back on itself.
func HasCycle(g *graph.Graph) bool {
	return len(MutualRelianceGroups(g)) > 0
}

// IsDAG checks if the graph is a Directed Acyclic Graph
func IsDAG(g *graph.Graph) bool {
	return !HasCycle(g)
}

// TopologicalSort returns nodes in topological order using Kahn's algorithm:
// every owner comes before the suppliers it relies on. Ready nodes are taken
// in id order. Returns ErrCyclic if the graph is not a DAG.
func TopologicalSort(g *graph.Graph) ([]string, error) {
	nodeIDs := g.NodeIDs()

	inDegree := make(map[string]int, len(nodeIDs))
	for _, id := range nodeIDs {
		in, _ := g.InEdges(id)
		inDegree[id] = len(in)
	}

	var queue []string
	for _, id := range nodeIDs {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	sorted := make([]string, 0, len(nodeIDs))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		sorted = append(sorted, current)

		var ready []string
		succ, _ := g.Successors(current)
		for _, e := range succ {
			inDegree[e.Supplier]--
			if inDegree[e.Supplier] == 0 {
				ready = append(ready, e.Supplier)
			}
		}
		queue = append(queue, ready...)
		sort.Strings(queue)
	}

	if len(sorted) != len(nodeIDs) {
		return nil, ErrCyclic
	}
	return sorted, nil
}

// SupplyTiers groups nodes by their depth in the supply chain: tier 0 holds
// companies that rely on nobody, and each other company sits one tier above
// the deepest supplier it relies on. Returns ErrCyclic for cyclic graphs.
func SupplyTiers(g *graph.Graph) ([][]string, error) {
	order, err := TopologicalSort(g)
	if err != nil {
		return nil, err
	}

	tier := make(map[string]int, len(order))
	maxTier := -1
	// Suppliers come after their owners, so walk backwards.
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		t := 0
		succ, _ := g.Successors(id)
		for _, e := range succ {
			t = max(t, tier[e.Supplier]+1)
		}
		tier[id] = t
		maxTier = max(maxTier, t)
	}

	tiers := make([][]string, maxTier+1)
	for _, id := range g.NodeIDs() {
		tiers[tier[id]] = append(tiers[tier[id]], id)
	}
	return tiers, nil
}
