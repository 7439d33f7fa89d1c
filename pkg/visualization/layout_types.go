// Package visualization lays out the dependency graph in two dimensions and
// renders it as SVG or as positioned JSON for external viewers.
package visualization

import (
	"fmt"
	"strings"

	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/graph"
)

// Position represents a 2D coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LayoutConfig configures layout parameters
type LayoutConfig struct {
	Width      float64 // Canvas width
	Height     float64 // Canvas height
	Iterations int     // Number of iterations for iterative algorithms
	Padding    float64 // Padding from edges
	Seed       uint64  // Initial placement seed for iterative algorithms
}

// DefaultLayoutConfig returns an 800x600 canvas.
func DefaultLayoutConfig() *LayoutConfig {
	return &LayoutConfig{Width: 800, Height: 600, Iterations: 50, Padding: 50, Seed: 42}
}

// Layout interface for different layout algorithms
type Layout interface {
	ComputeLayout(g *graph.Graph) (map[string]Position, error)
}

// Layout names accepted by NewLayout.
const (
	LayoutForce        = "force"
	LayoutCircular     = "circular"
	LayoutHierarchical = "hierarchical"
)

// NewLayout returns the named layout. The name is case-insensitive; "spring"
// is accepted for the force layout and "tiers" for the hierarchical one.
func NewLayout(name string, config *LayoutConfig) (Layout, error) {
	if config == nil {
		config = DefaultLayoutConfig()
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", LayoutForce, "spring":
		return NewForceDirectedLayout(config), nil
	case LayoutCircular:
		return NewCircularLayout(config), nil
	case LayoutHierarchical, "tiers":
		return NewHierarchicalLayout(config), nil
	default:
		return nil, fmt.Errorf("unknown layout %q (want force, circular or hierarchical)", name)
	}
}

// Visualization represents a graph visualization with layout
type Visualization struct {
	Nodes     []graph.Node
	Edges     []graph.Edge
	Positions map[string]Position
	Width     float64
	Height    float64
}

// New lays out g with layout.
func New(g *graph.Graph, layout Layout, config *LayoutConfig) (*Visualization, error) {
	if config == nil {
		config = DefaultLayoutConfig()
	}
	positions, err := layout.ComputeLayout(g)
	if err != nil {
		return nil, err
	}

	v := &Visualization{
		Nodes:     make([]graph.Node, 0, g.Len()),
		Edges:     g.Edges(),
		Positions: positions,
		Width:     config.Width,
		Height:    config.Height,
	}
	for _, id := range g.NodeIDs() {
		node, err := g.Node(id)
		if err != nil {
			return nil, err
		}
		v.Nodes = append(v.Nodes, node)
	}
	return v, nil
}
