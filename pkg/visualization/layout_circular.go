package visualization

import (
	"math"

	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/algorithms"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/graph"
)

// CircularLayout arranges companies on a ring by systemic importance.
type CircularLayout struct {
	config *LayoutConfig
}

// NewCircularLayout creates a new circular layout
func NewCircularLayout(config *LayoutConfig) *CircularLayout {
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &CircularLayout{config: config}
}

// ComputeLayout puts the most systemically important company at twelve
// o'clock and the rest clockwise in decreasing importance. Ties keep id
// order.
func (cl *CircularLayout) ComputeLayout(g *graph.Graph) (map[string]Position, error) {
	ranked := algorithms.SystemicImportance(g, nil)
	positions := make(map[string]Position, len(ranked))
	if len(ranked) == 0 {
		return positions, nil
	}

	centerX := cl.config.Width / 2
	centerY := cl.config.Height / 2
	radius := math.Min(centerX, centerY) - cl.config.Padding
	step := 2 * math.Pi / float64(len(ranked))

	for i, r := range ranked {
		angle := float64(i)*step - math.Pi/2
		positions[r.NodeID] = Position{
			X: centerX + radius*math.Cos(angle),
			Y: centerY + radius*math.Sin(angle),
		}
	}
	return positions, nil
}
