package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
)

// NodeData is the persisted form of one node: its weights and its outgoing
// dependencies keyed by supplier id.
type NodeData struct {
	Weights Weights            `json:"weights"`
	Edges   map[string]float64 `json:"edges"`
}

// Data is the persisted graph keyed by node id, the graph_data.json layout.
type Data map[string]NodeData

// Data returns the persisted form of g.
func (g *Graph) Data() Data {
	d := make(Data, len(g.order))
	for _, id := range g.order {
		d[id] = NodeData{
			Weights: g.nodes[id].clone(),
			Edges:   maps.Clone(g.out[id]),
		}
	}
	return d
}

// FromData rebuilds a Graph from its persisted form, enforcing the same
// invariants as Build. Unlike Build it rejects bad input outright: a
// snapshot is either valid as a whole or unusable.
func FromData(d Data) (*Graph, error) {
	nodes := make([]Node, 0, len(d))
	var edges []Edge
	for id, nd := range d {
		nodes = append(nodes, Node{ID: id, Weights: nd.Weights})
		for supplier, w := range nd.Edges {
			edges = append(edges, Edge{Owner: id, Supplier: supplier, Weight: w})
		}
	}
	return newGraph(nodes, edges)
}

// Encode writes g as indented graph_data.json.
func Encode(w io.Writer, g *Graph) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g.Data()); err != nil {
		return fmt.Errorf("encode graph: %w", err)
	}
	return nil
}

// Decode reads graph_data.json and validates it.
func Decode(r io.Reader) (*Graph, error) {
	var d Data
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}
	return FromData(d)
}
