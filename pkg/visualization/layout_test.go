package visualization

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"math"
	"strings"
	"testing"

	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/graph"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/records"
)

// buildGraph builds a graph from owner->supplier pairs, all with reliance 0.5.
func buildGraph(t *testing.T, ids []string, deps [][2]string) *graph.Graph {
	t.Helper()
	companies := make([]records.Company, len(ids))
	for i, id := range ids {
		companies[i] = records.Company{CompanyID: id, EconomicScore: float64(i + 1), SocietalScore: float64(len(ids) - i)}
	}
	assets := make([]records.Asset, len(deps))
	for i, d := range deps {
		assets[i] = records.Asset{CompanyID: d[0], SupplierID: d[1], OperationalReliance: 0.5}
	}
	g, _, err := graph.Build(companies, assets, graph.DefaultBuildOptions())
	if err != nil {
		t.Fatalf("Failed to build graph: %v", err)
	}
	return g
}

func chain(t *testing.T) *graph.Graph {
	return buildGraph(t, []string{"A", "B", "C"}, [][2]string{{"A", "B"}, {"B", "C"}})
}

func checkBounds(t *testing.T, positions map[string]Position, width, height float64) {
	t.Helper()
	for id, pos := range positions {
		if pos.X < 0 || pos.X > width {
			t.Errorf("Node %s X position %f out of bounds", id, pos.X)
		}
		if pos.Y < 0 || pos.Y > height {
			t.Errorf("Node %s Y position %f out of bounds", id, pos.Y)
		}
	}
}

// TestForceDirectedLayout tests the force-directed layout algorithm
func TestForceDirectedLayout(t *testing.T) {
	g := chain(t)

	layout := NewForceDirectedLayout(&LayoutConfig{
		Width:      800,
		Height:     600,
		Iterations: 50,
	})

	positions, err := layout.ComputeLayout(g)
	if err != nil {
		t.Fatalf("Layout computation failed: %v", err)
	}

	if len(positions) != 3 {
		t.Errorf("Expected 3 positions, got %d", len(positions))
	}
	checkBounds(t, positions, 800, 600)

	// A and C are not directly connected, should be furthest apart
	dist12 := distance(positions["A"], positions["B"])
	dist23 := distance(positions["B"], positions["C"])
	dist13 := distance(positions["A"], positions["C"])
	if dist13 < dist12 || dist13 < dist23 {
		t.Error("Force-directed layout did not separate unconnected nodes properly")
	}
}

// TestForceDirectedLayout_Deterministic tests that a seed fixes the layout
func TestForceDirectedLayout_Deterministic(t *testing.T) {
	g := buildGraph(t, []string{"A", "B", "C", "D", "E"},
		[][2]string{{"A", "B"}, {"B", "C"}, {"C", "A"}, {"D", "E"}})

	first, _ := NewForceDirectedLayout(&LayoutConfig{Width: 400, Height: 400, Seed: 9}).ComputeLayout(g)
	second, _ := NewForceDirectedLayout(&LayoutConfig{Width: 400, Height: 400, Seed: 9}).ComputeLayout(g)

	for id, pos := range first {
		if second[id] != pos {
			t.Errorf("Node %s moved between runs: %v vs %v", id, pos, second[id])
		}
	}
}

// TestCircularLayout tests circular layout algorithm
func TestCircularLayout(t *testing.T) {
	ids := []string{"A", "B", "C", "D", "E"}
	g := buildGraph(t, ids, nil)

	layout := NewCircularLayout(&LayoutConfig{
		Width:  800,
		Height: 600,
	})

	positions, err := layout.ComputeLayout(g)
	if err != nil {
		t.Fatalf("Layout computation failed: %v", err)
	}

	if len(positions) != 5 {
		t.Errorf("Expected 5 positions, got %d", len(positions))
	}

	// All nodes should be equidistant from center
	center := Position{X: 400, Y: 300}
	expected := 250.0
	for _, id := range ids {
		dist := distance(positions[id], center)
		if math.Abs(dist-expected) > 1e-6 {
			t.Errorf("Node %s not on circle: distance %f, expected %f", id, dist, expected)
		}
	}

	// Equal importance falls back to id order, starting at twelve o'clock
	if math.Abs(positions["A"].X-400) > 1e-6 || math.Abs(positions["A"].Y-50) > 1e-6 {
		t.Errorf("Node A at %v, expected (400, 50)", positions["A"])
	}
	if positions["B"].X <= 400 {
		t.Errorf("Node B at %v, expected clockwise of A", positions["B"])
	}

	// Everyone relies on E, so E moves to the top
	g = buildGraph(t, ids, [][2]string{{"A", "E"}, {"B", "E"}, {"C", "E"}})
	positions, err = layout.ComputeLayout(g)
	if err != nil {
		t.Fatalf("Layout computation failed: %v", err)
	}
	if math.Abs(positions["E"].X-400) > 1e-6 || math.Abs(positions["E"].Y-50) > 1e-6 {
		t.Errorf("Node E at %v, expected (400, 50)", positions["E"])
	}
}

// TestHierarchicalLayout tests hierarchical layout algorithm
func TestHierarchicalLayout(t *testing.T) {
	// A and D rely on B; B relies on C.
	g := buildGraph(t, []string{"A", "B", "C", "D"},
		[][2]string{{"A", "B"}, {"D", "B"}, {"B", "C"}})

	layout := NewHierarchicalLayout(&LayoutConfig{
		Width:  800,
		Height: 600,
	})

	positions, err := layout.ComputeLayout(g)
	if err != nil {
		t.Fatalf("Layout computation failed: %v", err)
	}

	if len(positions) != 4 {
		t.Fatalf("Expected 4 positions, got %d", len(positions))
	}

	if positions["A"].Y != positions["D"].Y {
		t.Errorf("Dependents A and D should share a row: %f vs %f", positions["A"].Y, positions["D"].Y)
	}
	if !(positions["A"].Y < positions["B"].Y && positions["B"].Y < positions["C"].Y) {
		t.Errorf("Rows should descend the supply chain: A=%f B=%f C=%f",
			positions["A"].Y, positions["B"].Y, positions["C"].Y)
	}
	checkBounds(t, positions, 800, 600)
}

// TestHierarchicalLayout_Cycle tests that a pure reliance cycle still places
// every node
func TestHierarchicalLayout_Cycle(t *testing.T) {
	g := buildGraph(t, []string{"A", "B", "C"},
		[][2]string{{"A", "B"}, {"B", "C"}, {"C", "A"}})

	positions, err := NewHierarchicalLayout(&LayoutConfig{Width: 300, Height: 300}).ComputeLayout(g)
	if err != nil {
		t.Fatalf("Layout computation failed: %v", err)
	}
	if len(positions) != 3 {
		t.Errorf("Expected 3 positions, got %d", len(positions))
	}
}

// TestLayoutNormalization tests that coordinates are normalized to bounds
func TestLayoutNormalization(t *testing.T) {
	g := buildGraph(t, []string{"A", "B", "C"}, nil)

	layout := NewForceDirectedLayout(&LayoutConfig{
		Width:      100,
		Height:     100,
		Iterations: 10,
	})

	positions, _ := layout.ComputeLayout(g)
	checkBounds(t, positions, 100, 100)

	flat := normalizePositions(map[string]Position{"A": {X: 5, Y: 1}, "B": {X: 5, Y: 9}}, 100, 100, 10)
	if flat["A"].X != 50 || flat["B"].X != 50 {
		t.Errorf("Degenerate axis should collapse to the midline: %v", flat)
	}
	if flat["A"].Y != 10 || flat["B"].Y != 90 {
		t.Errorf("Expected Y to span the padded canvas: %v", flat)
	}
}

// TestEmptyGraph tests layout on empty graph
func TestEmptyGraph(t *testing.T) {
	for _, name := range []string{LayoutForce, LayoutCircular, LayoutHierarchical} {
		layout, err := NewLayout(name, nil)
		if err != nil {
			t.Fatalf("NewLayout(%q): %v", name, err)
		}

		positions, err := layout.ComputeLayout(graph.Empty())
		if err != nil {
			t.Fatalf("%s: empty graph should not error: %v", name, err)
		}
		if len(positions) != 0 {
			t.Errorf("%s: expected 0 positions for empty graph, got %d", name, len(positions))
		}
	}
}

// TestSingleNodeLayout tests layout with single node
func TestSingleNodeLayout(t *testing.T) {
	g := buildGraph(t, []string{"A"}, nil)

	layout := NewForceDirectedLayout(&LayoutConfig{
		Width:  800,
		Height: 600,
	})

	positions, err := layout.ComputeLayout(g)
	if err != nil {
		t.Fatalf("Single node layout failed: %v", err)
	}

	if len(positions) != 1 {
		t.Errorf("Expected 1 position, got %d", len(positions))
	}

	pos := positions["A"]
	if pos.X != 400 || pos.Y != 300 {
		t.Errorf("Single node not centered: (%f, %f)", pos.X, pos.Y)
	}
}

// TestNewLayout tests layout name parsing
func TestNewLayout(t *testing.T) {
	cases := map[string]any{
		"":             &ForceDirectedLayout{},
		"spring":       &ForceDirectedLayout{},
		"Circular":     &CircularLayout{},
		"tiers":        &HierarchicalLayout{},
		"hierarchical": &HierarchicalLayout{},
	}
	for name, want := range cases {
		got, err := NewLayout(name, nil)
		if err != nil {
			t.Errorf("NewLayout(%q): %v", name, err)
			continue
		}
		if gotType, wantType := typeName(got), typeName(want); gotType != wantType {
			t.Errorf("NewLayout(%q) = %s, want %s", name, gotType, wantType)
		}
	}

	if _, err := NewLayout("kamada_kawai", nil); err == nil {
		t.Error("Expected an error for an unknown layout")
	}
}

// TestVisualizationExport tests exporting layout to JSON
func TestVisualizationExport(t *testing.T) {
	g := chain(t).WithInfluence(map[string]float64{"A": 0.2, "B": 0.3, "C": 0.5})

	viz, err := New(g, NewCircularLayout(&LayoutConfig{Width: 800, Height: 600}), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	jsonData, err := viz.ExportJSON()
	if err != nil {
		t.Fatalf("JSON export failed: %v", err)
	}

	var decoded struct {
		Nodes []struct {
			ID     string   `json:"id"`
			Global *float64 `json:"global"`
			X      float64  `json:"x"`
		} `json:"nodes"`
		Edges []struct {
			From   string  `json:"from"`
			To     string  `json:"to"`
			Weight float64 `json:"weight"`
		} `json:"edges"`
	}
	if err := json.Unmarshal(jsonData, &decoded); err != nil {
		t.Fatalf("JSON export is not valid JSON: %v", err)
	}

	if len(decoded.Nodes) != 3 || len(decoded.Edges) != 2 {
		t.Fatalf("Expected 3 nodes and 2 edges, got %d and %d", len(decoded.Nodes), len(decoded.Edges))
	}
	if decoded.Nodes[2].ID != "C" || decoded.Nodes[2].Global == nil || *decoded.Nodes[2].Global != 0.5 {
		t.Errorf("Node C exported wrong: %+v", decoded.Nodes[2])
	}
	if decoded.Edges[0].From != "A" || decoded.Edges[0].To != "B" || decoded.Edges[0].Weight != 0.5 {
		t.Errorf("Edge exported wrong: %+v", decoded.Edges[0])
	}
}

// TestWriteSVG tests SVG rendering
func TestWriteSVG(t *testing.T) {
	g := buildGraph(t, []string{"A", "B", "<C&>"}, [][2]string{{"A", "B"}, {"B", "<C&>"}}).
		WithInfluence(map[string]float64{"A": 0.1, "B": 0.3, "<C&>": 0.6})

	viz, err := New(g, NewHierarchicalLayout(DefaultLayoutConfig()), DefaultLayoutConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	var buf bytes.Buffer
	if err := viz.WriteSVG(&buf, DefaultSVGStyle()); err != nil {
		t.Fatalf("WriteSVG failed: %v", err)
	}

	// The output must be well-formed XML
	dec := xml.NewDecoder(bytes.NewReader(buf.Bytes()))
	circles, lines := 0, 0
	radii := map[string]string{}
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		el, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch el.Name.Local {
		case "circle":
			circles++
			radii[attr(el, "cx")] = attr(el, "r")
		case "line":
			lines++
		}
	}
	if circles != 3 || lines != 2 {
		t.Errorf("Expected 3 circles and 2 lines, got %d and %d", circles, lines)
	}

	svg := buf.String()
	if !strings.Contains(svg, "&lt;C&amp;&gt;") {
		t.Error("Node ids should be escaped")
	}
	// Largest global gets the largest radius, smallest the smallest
	if !strings.Contains(svg, `r="24.00"`) || !strings.Contains(svg, `r="6.00"`) {
		t.Errorf("Expected radii scaled to [6, 24], got %v", radii)
	}
	// Colour range endpoints
	if !strings.Contains(svg, `fill="#440154"`) || !strings.Contains(svg, `fill="#fde725"`) {
		t.Error("Expected societal colours to span the style range")
	}

	if err := viz.WriteSVG(&bytes.Buffer{}, SVGStyle{LowColor: "violet", HighColor: "#fff"}); err == nil {
		t.Error("Expected an error for an invalid colour")
	}
}

// Helper function to calculate distance between two positions
func distance(p1, p2 Position) float64 {
	return math.Hypot(p1.X-p2.X, p1.Y-p2.Y)
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func typeName(v any) string {
	switch v.(type) {
	case *ForceDirectedLayout:
		return "ForceDirectedLayout"
	case *CircularLayout:
		return "CircularLayout"
	case *HierarchicalLayout:
		return "HierarchicalLayout"
	}
	return "unknown"
}
