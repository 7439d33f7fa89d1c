package algorithms

import (
	"bytes"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/graph"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/logging"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/records"
)

func sumScores(scores map[string]float64) float64 {
	total := 0.0
	for _, s := range scores {
		total += s
	}
	return total
}

func TestComputeInfluence_Scenario(t *testing.T) {
	result, err := ComputeInfluence(scenarioGraph(t), DefaultInfluenceOptions())
	if err != nil {
		t.Fatalf("ComputeInfluence failed: %v", err)
	}

	if !result.Converged {
		t.Errorf("Expected convergence, stopped after %d iterations", result.Iterations)
	}
	a, b, c := result.Score("A"), result.Score("B"), result.Score("C")
	if !(c > b && b > a) {
		t.Errorf("Expected C > B > A, got A=%f B=%f C=%f", a, b, c)
	}
	if total := sumScores(result.Scores); math.Abs(total-1) > 1e-9 {
		t.Errorf("Scores sum to %f, want 1", total)
	}

	want := []string{"C", "B", "A"}
	for i, rn := range result.TopNodes {
		if rn.NodeID != want[i] {
			t.Errorf("TopNodes[%d] = %s, want %s", i, rn.NodeID, want[i])
		}
	}
}

func TestComputeInfluence_FixedPoint(t *testing.T) {
	g := scenarioGraph(t)
	opts := DefaultInfluenceOptions()
	opts.Tolerance = 1e-12
	opts.MaxIterations = 1000

	result, err := ComputeInfluence(g, opts)
	if err != nil {
		t.Fatalf("ComputeInfluence failed: %v", err)
	}

	// At the fixed point with equal bases and C as the only dangling node:
	//   A = (1-d)/3 + d·C/3
	//   B = A + d·A
	//   C = A + d·B
	d := opts.DampingFactor
	a, b, c := result.Score("A"), result.Score("B"), result.Score("C")
	checks := map[string][2]float64{
		"A": {a, (1-d)/3 + d*c/3},
		"B": {b, a + d*a},
		"C": {c, a + d*b},
	}
	for id, pair := range checks {
		if math.Abs(pair[0]-pair[1]) > 1e-9 {
			t.Errorf("score(%s) = %f, fixed point wants %f", id, pair[0], pair[1])
		}
	}
}

func TestComputeInfluence_EmptyGraph(t *testing.T) {
	result, err := ComputeInfluence(graph.Empty(), DefaultInfluenceOptions())
	if err != nil {
		t.Fatalf("ComputeInfluence failed: %v", err)
	}
	if len(result.Scores) != 0 || !result.Converged || result.Iterations != 0 {
		t.Errorf("Expected empty converged result, got %+v", result)
	}
}

func TestComputeInfluence_SingleNode(t *testing.T) {
	g := newTestGraph(t, []string{"solo"})

	for _, d := range []float64{0, 0.5, 0.85, 1} {
		opts := DefaultInfluenceOptions()
		opts.DampingFactor = d

		result, err := ComputeInfluence(g, opts)
		if err != nil {
			t.Fatalf("ComputeInfluence(d=%v) failed: %v", d, err)
		}
		if math.Abs(result.Score("solo")-1) > 1e-12 {
			t.Errorf("d=%v: score = %f, want 1", d, result.Score("solo"))
		}
	}
}

func TestComputeInfluence_ZeroIntrinsicIsUniform(t *testing.T) {
	g, _, err := graph.Build(
		[]records.Company{{CompanyID: "A"}, {CompanyID: "B"}, {CompanyID: "C"}, {CompanyID: "D"}},
		nil,
		graph.DefaultBuildOptions(),
	)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	result, err := ComputeInfluence(g, DefaultInfluenceOptions())
	if err != nil {
		t.Fatalf("ComputeInfluence failed: %v", err)
	}
	for id, s := range result.Scores {
		if math.Abs(s-0.25) > 1e-12 {
			t.Errorf("score(%s) = %f, want 0.25", id, s)
		}
	}
}

func TestComputeInfluence_IntrinsicSeedsBase(t *testing.T) {
	// Two isolated companies: with no edges the result is the normalised
	// intrinsic weight for any damping.
	g, _, err := graph.Build(
		[]records.Company{
			{CompanyID: "big", EconomicScore: 3, SocietalScore: 3},
			{CompanyID: "small", EconomicScore: 1, SocietalScore: 1},
		},
		nil,
		graph.DefaultBuildOptions(),
	)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	result, err := ComputeInfluence(g, DefaultInfluenceOptions())
	if err != nil {
		t.Fatalf("ComputeInfluence failed: %v", err)
	}
	// base = 0.75/0.25; dangling mass is the whole graph, split evenly.
	d := 0.85
	wantBig := (1-d)*0.75 + d*0.5
	if math.Abs(result.Score("big")-wantBig) > 1e-9 {
		t.Errorf("score(big) = %f, want %f", result.Score("big"), wantBig)
	}
}

func TestComputeInfluence_ZeroWeightOwnerIsDangling(t *testing.T) {
	g := newTestGraph(t, []string{"A", "B"}, dep{"A", "B", 0})

	result, err := ComputeInfluence(g, DefaultInfluenceOptions())
	if err != nil {
		t.Fatalf("ComputeInfluence failed: %v", err)
	}
	// Both nodes are dangling with equal bases, so the edge carries nothing.
	if math.Abs(result.Score("A")-result.Score("B")) > 1e-12 {
		t.Errorf("Expected equal scores, got %v", result.Scores)
	}
}

func TestComputeInfluence_IterationCap(t *testing.T) {
	opts := DefaultInfluenceOptions()
	opts.MaxIterations = 1
	opts.Tolerance = 1e-15

	result, err := ComputeInfluence(scenarioGraph(t), opts)
	if err != nil {
		t.Fatalf("ComputeInfluence failed: %v", err)
	}
	if result.Converged || result.Iterations != 1 {
		t.Errorf("Expected 1 unconverged iteration, got %d (converged=%v)", result.Iterations, result.Converged)
	}
	if total := sumScores(result.Scores); math.Abs(total-1) > 1e-9 {
		t.Errorf("Scores sum to %f after one step, want 1", total)
	}
}

func TestComputeInfluence_InvalidOptions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*InfluenceOptions)
	}{
		{"damping above one", func(o *InfluenceOptions) { o.DampingFactor = 1.5 }},
		{"negative damping", func(o *InfluenceOptions) { o.DampingFactor = -0.1 }},
		{"no iterations", func(o *InfluenceOptions) { o.MaxIterations = 0 }},
		{"zero tolerance", func(o *InfluenceOptions) { o.Tolerance = 0 }},
		{"nan tolerance", func(o *InfluenceOptions) { o.Tolerance = math.NaN() }},
		{"negative top n", func(o *InfluenceOptions) { o.TopN = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultInfluenceOptions()
			tt.mutate(&opts)
			if _, err := ComputeInfluence(scenarioGraph(t), opts); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestComputeInfluence_Logging(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultInfluenceOptions()
	opts.MaxIterations = 2
	opts.Tolerance = 1e-15
	opts.Logger = logging.NewJSONLogger(&buf, logging.InfoLevel)

	if _, err := ComputeInfluence(scenarioGraph(t), opts); err != nil {
		t.Fatalf("ComputeInfluence failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{`"msg":"influence computed"`, `"component":"influence"`, "influence did not converge"} {
		if !strings.Contains(out, want) {
			t.Errorf("Log output missing %s:\n%s", want, out)
		}
	}
}

func TestTopNodes(t *testing.T) {
	scores := map[string]float64{"a": 0.1, "b": 0.4, "c": 0.4, "d": 0.05, "e": 0.3}

	got := TopNodes(scores, 3)
	want := []RankedNode{{"b", 0.4}, {"c", 0.4}, {"e", 0.3}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopNodes = %v, want %v", got, want)
	}

	if TopNodes(scores, 0) != nil {
		t.Error("Expected nil for n=0")
	}
	if all := Rank(scores); len(all) != 5 || all[4].NodeID != "d" {
		t.Errorf("Rank = %v", all)
	}
	if len(TopNodes(scores, 10)) != 5 {
		t.Error("TopNodes should cap at the number of scores")
	}
}

func TestInfluenceResult_Top(t *testing.T) {
	r := &InfluenceResult{TopNodes: []RankedNode{{"a", 3}, {"b", 2}, {"c", 1}}}
	if got := r.Top(2); len(got) != 2 || got[1].NodeID != "b" {
		t.Errorf("Top(2) = %v", got)
	}
	if got := r.Top(5); len(got) != 3 {
		t.Errorf("Top(5) = %v", got)
	}
}
