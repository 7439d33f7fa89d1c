package visualization

import (
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/graph"
)

// HierarchicalLayout arranges nodes in rows: companies nobody relies on at
// the top, their suppliers below them, and so on down the supply chain.
type HierarchicalLayout struct {
	config *LayoutConfig
}

// NewHierarchicalLayout creates a new hierarchical layout
func NewHierarchicalLayout(config *LayoutConfig) *HierarchicalLayout {
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &HierarchicalLayout{config: config}
}

// ComputeLayout arranges nodes hierarchically
func (hl *HierarchicalLayout) ComputeLayout(g *graph.Graph) (map[string]Position, error) {
	ids := g.NodeIDs()
	positions := make(map[string]Position, len(ids))

	if len(ids) == 0 {
		return positions, nil
	}

	// Roots have no dependents
	roots := make([]string, 0)
	for _, id := range ids {
		dependents, _ := g.InEdges(id)
		if len(dependents) == 0 {
			roots = append(roots, id)
		}
	}

	if len(roots) == 0 {
		// Everything sits on a reliance cycle
		roots = []string{ids[0]}
	}

	// Build levels using BFS
	levels := make([][]string, 0)
	visited := make(map[string]bool)
	for _, id := range roots {
		visited[id] = true
	}
	currentLevel := roots

	for len(currentLevel) > 0 {
		levels = append(levels, currentLevel)
		nextLevel := make([]string, 0)

		for _, id := range currentLevel {
			suppliers, _ := g.Successors(id)
			for _, e := range suppliers {
				if !visited[e.Supplier] {
					nextLevel = append(nextLevel, e.Supplier)
					visited[e.Supplier] = true
				}
			}
		}

		currentLevel = nextLevel
	}

	// Add unvisited nodes to last level
	for _, id := range ids {
		if !visited[id] {
			levels[len(levels)-1] = append(levels[len(levels)-1], id)
		}
	}

	// Position nodes
	levelHeight := (hl.config.Height - 2*hl.config.Padding) / float64(len(levels))

	for levelIdx, level := range levels {
		y := hl.config.Padding + float64(levelIdx)*levelHeight + levelHeight/2
		levelWidth := hl.config.Width - 2*hl.config.Padding
		spacing := levelWidth / float64(len(level)+1)

		for nodeIdx, id := range level {
			x := hl.config.Padding + spacing*float64(nodeIdx+1)
			positions[id] = Position{X: x, Y: y}
		}
	}

	return positions, nil
}
