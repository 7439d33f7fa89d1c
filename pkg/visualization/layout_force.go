package visualization

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/graph"
)

// ForceDirectedLayout implements force-directed graph layout
type ForceDirectedLayout struct {
	config *LayoutConfig
}

// NewForceDirectedLayout creates a new force-directed layout
func NewForceDirectedLayout(config *LayoutConfig) *ForceDirectedLayout {
	if config.Iterations == 0 {
		config.Iterations = 50
	}
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &ForceDirectedLayout{config: config}
}

// ComputeLayout computes positions with a Fruchterman-Reingold style
// simulation. Edges pull in proportion to their reliance weight. The same
// seed and graph always give the same layout.
func (fdl *ForceDirectedLayout) ComputeLayout(g *graph.Graph) (map[string]Position, error) {
	ids := g.NodeIDs()
	if len(ids) == 0 {
		return make(map[string]Position), nil
	}

	// Single node - center it
	if len(ids) == 1 {
		return map[string]Position{
			ids[0]: {
				X: fdl.config.Width / 2,
				Y: fdl.config.Height / 2,
			},
		}, nil
	}

	rng := rand.New(rand.NewPCG(fdl.config.Seed, 0))
	positions := make([]Position, len(ids))
	for i := range positions {
		positions[i] = Position{
			X: rng.Float64()*(fdl.config.Width-2*fdl.config.Padding) + fdl.config.Padding,
			Y: rng.Float64()*(fdl.config.Height-2*fdl.config.Padding) + fdl.config.Padding,
		}
	}

	// Undirected springs; a mutual reliance keeps the stronger weight.
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}
	type spring struct {
		a, b     int
		strength float64
	}
	springs := make(map[[2]int]float64)
	for _, e := range g.Edges() {
		a, b := index[e.Owner], index[e.Supplier]
		if a > b {
			a, b = b, a
		}
		springs[[2]int{a, b}] = math.Max(springs[[2]int{a, b}], e.Weight)
	}
	pairs := make([]spring, 0, len(springs))
	for k, w := range springs {
		pairs = append(pairs, spring{a: k[0], b: k[1], strength: 0.5 + w})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].a != pairs[j].a {
			return pairs[i].a < pairs[j].a
		}
		return pairs[i].b < pairs[j].b
	})

	k := math.Sqrt((fdl.config.Width * fdl.config.Height) / float64(len(ids))) // Optimal distance
	temperature := fdl.config.Width / 10.0
	forces := make([]Position, len(ids))

	for iter := 0; iter < fdl.config.Iterations; iter++ {
		clear(forces)

		// Repulsion between all nodes
		for i := range positions {
			for j := i + 1; j < len(positions); j++ {
				dx := positions[i].X - positions[j].X
				dy := positions[i].Y - positions[j].Y
				dist := math.Max(math.Hypot(dx, dy), 0.01)

				force := (k * k) / dist
				fx := (dx / dist) * force
				fy := (dy / dist) * force

				forces[i].X += fx
				forces[i].Y += fy
				forces[j].X -= fx
				forces[j].Y -= fy
			}
		}

		// Attraction along edges
		for _, s := range pairs {
			dx := positions[s.a].X - positions[s.b].X
			dy := positions[s.a].Y - positions[s.b].Y
			dist := math.Hypot(dx, dy)
			if dist < 0.01 {
				continue
			}

			force := s.strength * (dist * dist) / k
			fx := (dx / dist) * force
			fy := (dy / dist) * force

			forces[s.a].X -= fx
			forces[s.a].Y -= fy
			forces[s.b].X += fx
			forces[s.b].Y += fy
		}

		// Apply forces with cooling
		cool := 1.0 - float64(iter)/float64(fdl.config.Iterations)
		for i, f := range forces {
			force := math.Hypot(f.X, f.Y)
			if force > 0 {
				step := math.Min(force, temperature) * cool
				positions[i].X += (f.X / force) * step
				positions[i].Y += (f.Y / force) * step
			}
		}

		temperature *= 0.95
	}

	out := make(map[string]Position, len(ids))
	for i, id := range ids {
		out[id] = positions[i]
	}
	return normalizePositions(out, fdl.config.Width, fdl.config.Height, fdl.config.Padding), nil
}
