// Package graph holds the company dependency graph: one node per company and
// one weighted edge per owner→supplier reliance. A Graph is immutable once
// built and safe for concurrent readers.
package graph

import (
	"maps"
	"math"
	"slices"
	"sort"

	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/scoring"
)

// Weights are the per-node scalars. Global is the systemic-influence score
// and stays nil until influence results are attached.
type Weights struct {
	Economic float64  `json:"economic" yaml:"economic"`
	Societal float64  `json:"societal" yaml:"societal"`
	Global   *float64 `json:"global,omitempty" yaml:"global,omitempty"`
}

// Intrinsic is the node's own criticality, blended with the same
// economic/societal split used for company total criticality.
func (w Weights) Intrinsic() float64 {
	return scoring.Blend(w.Economic, w.Societal)
}

func (w Weights) clone() Weights {
	if w.Global != nil {
		g := *w.Global
		w.Global = &g
	}
	return w
}

// Node is one company.
type Node struct {
	ID      string  `json:"id" yaml:"id"`
	Weights Weights `json:"weights" yaml:"weights"`
}

// Edge is a dependency: Owner relies on Supplier with the given weight.
type Edge struct {
	Owner    string  `json:"owner" yaml:"owner"`
	Supplier string  `json:"supplier" yaml:"supplier"`
	Weight   float64 `json:"weight" yaml:"weight"`
}

// Graph is an immutable weighted directed dependency graph.
type Graph struct {
	nodes map[string]Weights
	order []string                      // sorted node ids
	out   map[string]map[string]float64 // owner -> supplier -> weight
	in    map[string]map[string]float64 // supplier -> owner -> weight
	edges int
}

// Empty returns a graph with no nodes.
func Empty() *Graph {
	g, _ := newGraph(nil, nil)
	return g
}

// newGraph checks every invariant and builds both adjacency directions once.
// Duplicate edges are rejected; aggregation happens before this point.
func newGraph(nodes []Node, edges []Edge) (*Graph, error) {
	g := &Graph{
		nodes: make(map[string]Weights, len(nodes)),
		order: make([]string, 0, len(nodes)),
		out:   make(map[string]map[string]float64, len(nodes)),
		in:    make(map[string]map[string]float64, len(nodes)),
	}

	for _, n := range nodes {
		if n.ID == "" {
			return nil, invalid("node with empty id")
		}
		if _, dup := g.nodes[n.ID]; dup {
			return nil, invalid("duplicate node %q", n.ID)
		}
		if !validScore(n.Weights.Economic) || !validScore(n.Weights.Societal) {
			return nil, invalid("node %q has negative or non-finite weights", n.ID)
		}
		if n.Weights.Global != nil && !validScore(*n.Weights.Global) {
			return nil, invalid("node %q has an invalid global weight", n.ID)
		}
		g.nodes[n.ID] = n.Weights.clone()
		g.order = append(g.order, n.ID)
		g.out[n.ID] = make(map[string]float64)
		g.in[n.ID] = make(map[string]float64)
	}
	sort.Strings(g.order)

	for _, e := range edges {
		if e.Owner == e.Supplier {
			return nil, invalid("self-loop on %q", e.Owner)
		}
		if _, ok := g.nodes[e.Owner]; !ok {
			return nil, invalid("edge owner %q is not a node", e.Owner)
		}
		if _, ok := g.nodes[e.Supplier]; !ok {
			return nil, invalid("edge supplier %q is not a node", e.Supplier)
		}
		if math.IsNaN(e.Weight) || e.Weight < 0 || e.Weight > 1 {
			return nil, invalid("edge %s->%s weight %v outside [0, 1]", e.Owner, e.Supplier, e.Weight)
		}
		if _, dup := g.out[e.Owner][e.Supplier]; dup {
			return nil, invalid("duplicate edge %s->%s", e.Owner, e.Supplier)
		}
		g.out[e.Owner][e.Supplier] = e.Weight
		g.in[e.Supplier][e.Owner] = e.Weight
		g.edges++
	}
	return g, nil
}

func validScore(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.order) }

// EdgeCount returns the number of aggregated edges.
func (g *Graph) EdgeCount() int { return g.edges }

// Has reports whether id is a node.
func (g *Graph) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// NodeIDs returns the node ids in ascending order.
func (g *Graph) NodeIDs() []string {
	return slices.Clone(g.order)
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, error) {
	w, ok := g.nodes[id]
	if !ok {
		return Node{}, unknownNode("node", id)
	}
	return Node{ID: id, Weights: w.clone()}, nil
}

// OutEdges returns supplier id → weight for the dependencies owned by id.
func (g *Graph) OutEdges(id string) (map[string]float64, error) {
	adj, ok := g.out[id]
	if !ok {
		return nil, unknownNode("out_edges", id)
	}
	return maps.Clone(adj), nil
}

// InEdges returns owner id → weight for the dependents relying on id.
func (g *Graph) InEdges(id string) (map[string]float64, error) {
	adj, ok := g.in[id]
	if !ok {
		return nil, unknownNode("in_edges", id)
	}
	return maps.Clone(adj), nil
}

// Successors returns the dependencies owned by id as edges sorted by
// supplier id.
func (g *Graph) Successors(id string) ([]Edge, error) {
	adj, ok := g.out[id]
	if !ok {
		return nil, unknownNode("successors", id)
	}
	edges := make([]Edge, 0, len(adj))
	for supplier, w := range adj {
		edges = append(edges, Edge{Owner: id, Supplier: supplier, Weight: w})
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].Supplier < edges[j].Supplier })
	return edges, nil
}

// Predecessors returns the edges of owners relying on id, sorted by owner id.
func (g *Graph) Predecessors(id string) ([]Edge, error) {
	adj, ok := g.in[id]
	if !ok {
		return nil, unknownNode("predecessors", id)
	}
	edges := make([]Edge, 0, len(adj))
	for owner, w := range adj {
		edges = append(edges, Edge{Owner: owner, Supplier: id, Weight: w})
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].Owner < edges[j].Owner })
	return edges, nil
}

// Edges returns every edge ordered by owner then supplier.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, g.edges)
	for _, owner := range g.order {
		succ, _ := g.Successors(owner)
		edges = append(edges, succ...)
	}
	return edges
}

// WithInfluence returns a copy of g whose nodes carry the given global
// scores. Ids missing from scores keep their current value; unknown ids are
// ignored. Adjacency is shared with g since neither graph mutates it.
func (g *Graph) WithInfluence(scores map[string]float64) *Graph {
	next := &Graph{
		nodes: make(map[string]Weights, len(g.nodes)),
		order: g.order,
		out:   g.out,
		in:    g.in,
		edges: g.edges,
	}
	for id, w := range g.nodes {
		w = w.clone()
		if s, ok := scores[id]; ok {
			w.Global = &s
		}
		next.nodes[id] = w
	}
	return next
}
