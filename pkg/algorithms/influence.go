package algorithms

import (
	"container/heap"
	"math"

	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/graph"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/logging"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/validation"
)

// DefaultTopN is how many nodes InfluenceResult.TopNodes holds unless
// configured otherwise.
const DefaultTopN = 10

// InfluenceOptions configures the influence engine
type InfluenceOptions struct {
	DampingFactor float64 // Usually 0.85
	MaxIterations int
	Tolerance     float64 // Convergence threshold on the largest per-node change
	TopN          int     // Size of TopNodes; 0 means DefaultTopN
	Logger        logging.Logger
}

// DefaultInfluenceOptions returns default influence configuration
func DefaultInfluenceOptions() InfluenceOptions {
	return InfluenceOptions{
		DampingFactor: 0.85,
		MaxIterations: 100,
		Tolerance:     1e-6,
		TopN:          DefaultTopN,
	}
}

// Validate checks the option ranges.
func (o InfluenceOptions) Validate() error {
	return validation.NewConfigValidator("InfluenceOptions").
		UnitInterval("DampingFactor", o.DampingFactor).
		MinInt("MaxIterations", o.MaxIterations, 1).
		PositiveFloat("Tolerance", o.Tolerance).
		Finite("Tolerance", o.Tolerance).
		NonNegative("TopN", o.TopN).
		Validate()
}

// InfluenceResult contains systemic-influence scores for all nodes
type InfluenceResult struct {
	Scores     map[string]float64 // Node ID -> influence score
	Iterations int                // Number of iterations performed
	Converged  bool               // Whether the tolerance was met before the cap
	TopNodes   []RankedNode       // Top N nodes by score
}

// RankedNode represents a node with its score
type RankedNode struct {
	NodeID string  `json:"node_id" yaml:"node_id"`
	Score  float64 `json:"score" yaml:"score"`
}

// ComputeInfluence runs the power iteration seeded by each node's intrinsic
// criticality. Influence flows from owners to the suppliers they rely on:
//
//	new(n) = (1-d)·base(n) + d·Σ_{o→n} score(o)·w(o→n)/Σ_k w(o→k) + d·dangling/N
//
// where base(n) is the node's normalised intrinsic weight and owners without
// outgoing reliance mass pool their score into dangling. The total score is
// conserved at 1 on every iteration, and scores are returned unscaled.
func ComputeInfluence(g *graph.Graph, opts InfluenceOptions) (*InfluenceResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	log := logging.OrNop(opts.Logger).With(logging.Component("influence"))

	ids := g.NodeIDs()
	n := len(ids)
	if n == 0 {
		return &InfluenceResult{
			Scores:    make(map[string]float64),
			Converged: true,
		}, nil
	}

	timer := logging.StartTimer(log, "influence computed", logging.Int("nodes", n))

	index := make(map[string]int, n)
	for i, id := range ids {
		index[id] = i
	}

	base := intrinsicBase(g, ids)

	// inbound[i] lists owners relying on node i with the share of their
	// outgoing reliance that goes to i.
	type share struct {
		owner int
		frac  float64
	}
	inbound := make([][]share, n)
	dangling := make([]bool, n)
	for j, id := range ids {
		succ, _ := g.Successors(id)
		outSum := 0.0
		for _, e := range succ {
			outSum += e.Weight
		}
		if outSum <= 0 {
			dangling[j] = true
			continue
		}
		for _, e := range succ {
			if e.Weight > 0 {
				i := index[e.Supplier]
				inbound[i] = append(inbound[i], share{owner: j, frac: e.Weight / outSum})
			}
		}
	}

	d := opts.DampingFactor
	scores := make([]float64, n)
	copy(scores, base)
	next := make([]float64, n)

	converged := false
	iterations := 0

	for iterations < opts.MaxIterations {
		iterations++

		danglingMass := 0.0
		for j, isDangling := range dangling {
			if isDangling {
				danglingMass += scores[j]
			}
		}
		redistributed := d * danglingMass / float64(n)

		maxDiff := 0.0
		for i := range next {
			s := (1-d)*base[i] + redistributed
			for _, in := range inbound[i] {
				s += d * scores[in.owner] * in.frac
			}
			next[i] = s
			if diff := math.Abs(s - scores[i]); diff > maxDiff {
				maxDiff = diff
			}
		}

		scores, next = next, scores

		if maxDiff < opts.Tolerance {
			converged = true
			break
		}
	}

	result := make(map[string]float64, n)
	for i, id := range ids {
		result[id] = scores[i]
	}

	timer.End(logging.Iterations(iterations), logging.Bool("converged", converged))
	if !converged {
		log.Warn("influence did not converge",
			logging.Iterations(iterations),
			logging.Float64("tolerance", opts.Tolerance))
	}

	return &InfluenceResult{
		Scores:     result,
		Iterations: iterations,
		Converged:  converged,
		TopNodes:   TopNodes(result, validation.DefaultOr(opts.TopN, DefaultTopN)),
	}, nil
}

// intrinsicBase returns each node's share of total intrinsic criticality,
// falling back to a uniform split when every node has zero intrinsic weight.
func intrinsicBase(g *graph.Graph, ids []string) []float64 {
	base := make([]float64, len(ids))
	total := 0.0
	for i, id := range ids {
		node, _ := g.Node(id)
		base[i] = node.Weights.Intrinsic()
		total += base[i]
	}
	for i := range base {
		if total > 0 {
			base[i] /= total
		} else {
			base[i] = 1 / float64(len(ids))
		}
	}
	return base
}

// rankedNodeHeap implements a min-heap for RankedNode by score.
// We use a min-heap to efficiently find top N elements:
// - Keep at most N elements in the heap
// - The weakest element is at the root
// - When adding a new element, if heap is full and new beats the root, replace it
// Ties on score rank the smaller node id higher so output is deterministic.
type rankedNodeHeap []RankedNode

func (h rankedNodeHeap) Len() int           { return len(h) }
func (h rankedNodeHeap) Less(i, j int) bool { return ranksBelow(h[i], h[j]) }
func (h rankedNodeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *rankedNodeHeap) Push(x any) {
	*h = append(*h, x.(RankedNode))
}

func (h *rankedNodeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// ranksBelow reports whether a ranks strictly below b.
func ranksBelow(a, b RankedNode) bool {
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	return a.NodeID > b.NodeID
}

// TopNodes returns the n highest-scoring nodes in descending order.
// Time complexity: O(m log n) where m = len(scores)
func TopNodes(scores map[string]float64, n int) []RankedNode {
	if n <= 0 {
		return nil
	}

	h := make(rankedNodeHeap, 0, n)
	heap.Init(&h)

	for nodeID, score := range scores {
		rn := RankedNode{NodeID: nodeID, Score: score}

		if h.Len() < n {
			heap.Push(&h, rn)
		} else if ranksBelow(h[0], rn) {
			heap.Pop(&h)
			heap.Push(&h, rn)
		}
	}

	// Extract elements from heap (will be in ascending order)
	result := make([]RankedNode, h.Len())
	for i := h.Len() - 1; i >= 0; i-- {
		result[i] = heap.Pop(&h).(RankedNode)
	}

	return result
}

// Rank returns every scored node in descending order.
func Rank(scores map[string]float64) []RankedNode {
	return TopNodes(scores, len(scores))
}

// Top returns at most n of the top nodes
func (r *InfluenceResult) Top(n int) []RankedNode {
	if n > len(r.TopNodes) {
		return r.TopNodes
	}
	return r.TopNodes[:n]
}

// Score returns the influence score for a specific node
func (r *InfluenceResult) Score(nodeID string) float64 {
	return r.Scores[nodeID]
}
