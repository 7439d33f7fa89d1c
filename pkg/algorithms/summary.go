package algorithms

import (
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/graph"
)

// DefaultSampleSize is how many nodes and edges a Summary samples.
const DefaultSampleSize = 5

// Summary is a snapshot of the network's scale and structure.
type Summary struct {
	Nodes         int          `json:"nodes" yaml:"nodes"`
	Edges         int          `json:"edges" yaml:"edges"`
	Isolated      int          `json:"isolated" yaml:"isolated"`             // No edges either way
	Independent   int          `json:"independent" yaml:"independent"`       // Rely on nobody
	MeanReliance  float64      `json:"mean_reliance" yaml:"mean_reliance"`   // Average edge weight
	MutualGroups  int          `json:"mutual_groups" yaml:"mutual_groups"`   // Cycles of reliance
	LargestMutual int          `json:"largest_mutual" yaml:"largest_mutual"` // Members of the biggest one
	Acyclic       bool         `json:"acyclic" yaml:"acyclic"`
	SampleNodes   []graph.Node `json:"sample_nodes" yaml:"sample_nodes"`
	SampleEdges   []graph.Edge `json:"sample_edges" yaml:"sample_edges"`
}

// Summarize describes g, sampling the first n nodes and edges in id order.
// A non-positive n uses DefaultSampleSize.
func Summarize(g *graph.Graph, n int) Summary {
	if n <= 0 {
		n = DefaultSampleSize
	}

	s := Summary{
		Nodes:       g.Len(),
		Edges:       g.EdgeCount(),
		SampleNodes: []graph.Node{},
		SampleEdges: []graph.Edge{},
	}

	for _, id := range g.NodeIDs() {
		in, _ := g.InEdges(id)
		out, _ := g.OutEdges(id)
		if len(out) == 0 {
			s.Independent++
			if len(in) == 0 {
				s.Isolated++
			}
		}
		if len(s.SampleNodes) < n {
			node, _ := g.Node(id)
			s.SampleNodes = append(s.SampleNodes, node)
		}
	}

	edges := g.Edges()
	total := 0.0
	for _, e := range edges {
		total += e.Weight
	}
	if len(edges) > 0 {
		s.MeanReliance = total / float64(len(edges))
	}
	s.SampleEdges = append(s.SampleEdges, edges[:min(n, len(edges))]...)

	mutual := MutualRelianceGroups(g)
	s.MutualGroups = len(mutual)
	if len(mutual) > 0 {
		s.LargestMutual = mutual[0].Size()
	}
	s.Acyclic = len(mutual) == 0

	return s
}
