package visualization

import (
	"bufio"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// ExportJSON exports the visualization to JSON
func (v *Visualization) ExportJSON() ([]byte, error) {
	type NodeViz struct {
		ID       string   `json:"id"`
		Economic float64  `json:"economic"`
		Societal float64  `json:"societal"`
		Global   *float64 `json:"global,omitempty"`
		X        float64  `json:"x"`
		Y        float64  `json:"y"`
	}

	type EdgeViz struct {
		Owner    string  `json:"from"`
		Supplier string  `json:"to"`
		Weight   float64 `json:"weight"`
	}

	type VizData struct {
		Width  float64   `json:"width"`
		Height float64   `json:"height"`
		Nodes  []NodeViz `json:"nodes"`
		Edges  []EdgeViz `json:"edges"`
	}

	data := VizData{
		Width:  v.Width,
		Height: v.Height,
		Nodes:  make([]NodeViz, 0, len(v.Nodes)),
		Edges:  make([]EdgeViz, 0, len(v.Edges)),
	}

	for _, node := range v.Nodes {
		pos := v.Positions[node.ID]
		data.Nodes = append(data.Nodes, NodeViz{
			ID:       node.ID,
			Economic: node.Weights.Economic,
			Societal: node.Weights.Societal,
			Global:   node.Weights.Global,
			X:        pos.X,
			Y:        pos.Y,
		})
	}

	for _, edge := range v.Edges {
		data.Edges = append(data.Edges, EdgeViz{
			Owner:    edge.Owner,
			Supplier: edge.Supplier,
			Weight:   edge.Weight,
		})
	}

	return json.Marshal(data)
}

// SVGStyle controls how node and edge attributes map onto the drawing.
type SVGStyle struct {
	MinRadius, MaxRadius float64 // Node radius range, scaled by global influence
	LowColor, HighColor  string  // Node fill range, scaled by societal criticality
	EdgeWidth            float64 // Stroke width of a weight-1 edge
	Labels               bool
}

// DefaultSVGStyle runs from dark violet to yellow like the viridis map.
func DefaultSVGStyle() SVGStyle {
	return SVGStyle{
		MinRadius: 6,
		MaxRadius: 24,
		LowColor:  "#440154",
		HighColor: "#fde725",
		EdgeWidth: 4,
		Labels:    true,
	}
}

// WriteSVG renders the visualization. Node size follows the global influence
// score (intrinsic criticality when none is attached), node colour follows
// the societal score, and edge width follows the reliance weight. Arrows
// point from owner to supplier.
func (v *Visualization) WriteSVG(w io.Writer, style SVGStyle) error {
	low, err := colorful.Hex(style.LowColor)
	if err != nil {
		return fmt.Errorf("low color: %w", err)
	}
	high, err := colorful.Hex(style.HighColor)
	if err != nil {
		return fmt.Errorf("high color: %w", err)
	}

	sizes := make([]float64, len(v.Nodes))
	colours := make([]float64, len(v.Nodes))
	for i, n := range v.Nodes {
		sizes[i] = n.Weights.Intrinsic()
		if n.Weights.Global != nil {
			sizes[i] = *n.Weights.Global
		}
		colours[i] = n.Weights.Societal
	}
	sizeLo, sizeHi := minMax(sizes)
	colourLo, colourHi := minMax(colours)

	radius := make(map[string]float64, len(v.Nodes))
	for i, n := range v.Nodes {
		radius[n.ID] = style.MinRadius + scale(sizes[i], sizeLo, sizeHi)*(style.MaxRadius-style.MinRadius)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%g" height="%g" viewBox="0 0 %g %g">`+"\n",
		v.Width, v.Height, v.Width, v.Height)
	bw.WriteString(`<defs><marker id="arrow" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="6" markerHeight="6" orient="auto-start-reverse">` +
		`<path d="M 0 0 L 10 5 L 0 10 z" fill="#888"/></marker></defs>` + "\n")
	fmt.Fprintf(bw, `<rect width="100%%" height="100%%" fill="white"/>`+"\n")

	bw.WriteString(`<g class="edges" stroke="#888" stroke-opacity="0.7">` + "\n")
	for _, e := range v.Edges {
		from, okFrom := v.Positions[e.Owner]
		to, okTo := v.Positions[e.Supplier]
		if !okFrom || !okTo {
			continue
		}
		// Stop the line at the supplier's rim so the arrow head stays visible.
		dx, dy := to.X-from.X, to.Y-from.Y
		dist := math.Hypot(dx, dy)
		if dist < 1e-9 {
			continue
		}
		r := radius[e.Supplier]
		x2, y2 := to.X-dx/dist*r, to.Y-dy/dist*r
		fmt.Fprintf(bw, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke-width="%.2f" marker-end="url(#arrow)"><title>%s → %s (%.3f)</title></line>`+"\n",
			from.X, from.Y, x2, y2, math.Max(0.5, e.Weight*style.EdgeWidth),
			html.EscapeString(e.Owner), html.EscapeString(e.Supplier), e.Weight)
	}
	bw.WriteString("</g>\n")

	bw.WriteString(`<g class="nodes" stroke="#222" stroke-width="0.5">` + "\n")
	for i, n := range v.Nodes {
		pos, ok := v.Positions[n.ID]
		if !ok {
			continue
		}
		fill := low.BlendLab(high, scale(colours[i], colourLo, colourHi)).Clamped().Hex()
		id := html.EscapeString(n.ID)
		fmt.Fprintf(bw, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"><title>%s</title></circle>`+"\n",
			pos.X, pos.Y, radius[n.ID], fill, id)
		if style.Labels {
			fmt.Fprintf(bw, `<text x="%.2f" y="%.2f" font-family="sans-serif" font-size="10" text-anchor="middle" stroke="none">%s</text>`+"\n",
				pos.X, pos.Y-radius[n.ID]-3, id)
		}
	}
	bw.WriteString("</g>\n</svg>\n")
	return bw.Flush()
}
