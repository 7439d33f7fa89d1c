package algorithms

import (
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/graph"
)

// Weights of the systemic importance index.
const (
	DependencyShare = 0.6
	GlobalShare     = 0.4
)

// brandesBetweenness runs a single O(VE) Brandes pass over owner→supplier
// edges and returns raw, unnormalised node betweenness. Edge weights are
// ignored; paths are counted by hops.
func brandesBetweenness(g *graph.Graph) map[string]float64 {
	nodeIDs := g.NodeIDs()
	betweenness := make(map[string]float64, len(nodeIDs))
	for _, id := range nodeIDs {
		betweenness[id] = 0
	}

	for _, source := range nodeIDs {
		stack := make([]string, 0, len(nodeIDs))
		predecessors := make(map[string][]string, len(nodeIDs))
		sigma := map[string]float64{source: 1}
		distance := map[string]int{source: 0}

		queue := []string{source}
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			stack = append(stack, v)

			succ, _ := g.Successors(v)
			for _, e := range succ {
				w := e.Supplier
				if _, seen := distance[w]; !seen {
					queue = append(queue, w)
					distance[w] = distance[v] + 1
				}
				if distance[w] == distance[v]+1 {
					sigma[w] += sigma[v]
					predecessors[w] = append(predecessors[w], v)
				}
			}
		}

		// Back-propagation
		delta := make(map[string]float64, len(stack))
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range predecessors[w] {
				delta[v] += (sigma[v] / sigma[w]) * (1 + delta[w])
			}
			if w != source {
				betweenness[w] += delta[w]
			}
		}
	}

	return betweenness
}

// BetweennessCentrality computes betweenness centrality for all nodes.
// Measures how often a company sits on the shortest dependency chains between
// other companies.
func BetweennessCentrality(g *graph.Graph) map[string]float64 {
	betweenness := brandesBetweenness(g)

	if n := g.Len(); n > 2 {
		normFactor := 1.0 / float64((n-1)*(n-2))
		for id := range betweenness {
			betweenness[id] *= normFactor
		}
	}

	return betweenness
}

// DegreeCentrality computes degree centrality for all nodes:
// (in-degree + out-degree) / (N-1), or 0 for a single node.
func DegreeCentrality(g *graph.Graph) map[string]float64 {
	nodeIDs := g.NodeIDs()
	degree := make(map[string]float64, len(nodeIDs))

	for _, id := range nodeIDs {
		in, _ := g.InEdges(id)
		out, _ := g.OutEdges(id)

		if len(nodeIDs) > 1 {
			degree[id] = float64(len(in)+len(out)) / float64(len(nodeIDs)-1)
		} else {
			degree[id] = 0
		}
	}

	return degree
}

// DependencyCentrality is the total reliance other companies place on each
// node: the sum of its inbound edge weights.
func DependencyCentrality(g *graph.Graph) map[string]float64 {
	nodeIDs := g.NodeIDs()
	dependency := make(map[string]float64, len(nodeIDs))

	for _, id := range nodeIDs {
		in, _ := g.InEdges(id)
		sum := 0.0
		for _, w := range in {
			sum += w
		}
		dependency[id] = sum
	}

	return dependency
}

// SystemicImportance combines inbound reliance with systemic influence:
//
//	importance(n) = 0.6·dependency(n) + 0.4·global(n)
//
// global comes from the map when present, else from the node's attached
// global weight, else 0. Nodes are returned highest first.
func SystemicImportance(g *graph.Graph, global map[string]float64) []RankedNode {
	dependency := DependencyCentrality(g)

	importance := make(map[string]float64, len(dependency))
	for id, dep := range dependency {
		glob, ok := global[id]
		if !ok {
			if node, err := g.Node(id); err == nil && node.Weights.Global != nil {
				glob = *node.Weights.Global
			}
		}
		importance[id] = DependencyShare*dep + GlobalShare*glob
	}

	return Rank(importance)
}

// CentralityResult contains centrality measures for all nodes.
type CentralityResult struct {
	Betweenness      map[string]float64
	Degree           map[string]float64
	Dependency       map[string]float64
	TopByBetweenness []RankedNode
	TopByDegree      []RankedNode
	TopByDependency  []RankedNode
}

// ComputeAllCentrality computes every centrality measure and the top n nodes
// for each.
func ComputeAllCentrality(g *graph.Graph, n int) *CentralityResult {
	betweenness := BetweennessCentrality(g)
	degree := DegreeCentrality(g)
	dependency := DependencyCentrality(g)

	return &CentralityResult{
		Betweenness:      betweenness,
		Degree:           degree,
		Dependency:       dependency,
		TopByBetweenness: TopNodes(betweenness, n),
		TopByDegree:      TopNodes(degree, n),
		TopByDependency:  TopNodes(dependency, n),
	}
}
