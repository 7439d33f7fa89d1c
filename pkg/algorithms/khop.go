package algorithms

import (
	"fmt"

	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/graph"
)

// Direction selects which side of the dependency edges a traversal follows.
type Direction string

const (
	// Upstream follows owner→supplier edges: who does this company rely on.
	Upstream Direction = "upstream"
	// Downstream follows edges backwards: who relies on this company.
	Downstream Direction = "downstream"
	// Both follows edges either way.
	Both Direction = "both"
)

// KHopOptions configures the k-hop neighbourhood traversal.
type KHopOptions struct {
	MaxHops    int // must be >= 1
	Direction  Direction
	MinWeight  float64 // edges lighter than this are not followed
	MaxResults int     // 0 = unlimited; BFS order gives closer nodes priority
}

// KHopResult holds the BFS neighbourhood of a source node.
type KHopResult struct {
	Source         string           `json:"source" yaml:"source"`
	ByHop          map[int][]string `json:"by_hop" yaml:"by_hop"`       // hop distance → node IDs at that distance
	Distances      map[string]int   `json:"distances" yaml:"distances"` // node ID → shortest hop count
	TotalReachable int              `json:"total_reachable" yaml:"total_reachable"`
}

// DefaultKHopOptions returns sensible defaults.
func DefaultKHopOptions() KHopOptions {
	return KHopOptions{
		MaxHops:   2,
		Direction: Upstream,
	}
}

type bfsEntry struct {
	nodeID string
	hop    int
}

// KHopNeighbours performs a BFS from source up to MaxHops levels, returning
// all discovered companies grouped by distance. The source is never included
// in results.
func KHopNeighbours(g *graph.Graph, source string, opts KHopOptions) (*KHopResult, error) {
	if opts.MaxHops < 1 {
		return nil, fmt.Errorf("MaxHops must be >= 1, got %d", opts.MaxHops)
	}
	switch opts.Direction {
	case Upstream, Downstream, Both:
	case "":
		opts.Direction = Upstream
	default:
		return nil, fmt.Errorf("unknown direction %q", opts.Direction)
	}
	if !g.Has(source) {
		return nil, &graph.UnknownNodeError{Op: "k_hop", ID: source}
	}

	visited := map[string]bool{source: true}
	result := &KHopResult{
		Source:    source,
		ByHop:     make(map[int][]string),
		Distances: make(map[string]int),
	}

	queue := []bfsEntry{{nodeID: source, hop: 0}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.hop >= opts.MaxHops {
			continue
		}
		nextHop := current.hop + 1

		for _, neighborID := range neighbours(g, current.nodeID, opts) {
			if visited[neighborID] {
				continue
			}
			visited[neighborID] = true
			result.Distances[neighborID] = nextHop
			result.ByHop[nextHop] = append(result.ByHop[nextHop], neighborID)
			result.TotalReachable++

			if opts.MaxResults > 0 && result.TotalReachable >= opts.MaxResults {
				return result, nil
			}

			queue = append(queue, bfsEntry{nodeID: neighborID, hop: nextHop})
		}
	}

	return result, nil
}

// neighbours collects adjacent ids in id order, suppliers before owners.
func neighbours(g *graph.Graph, id string, opts KHopOptions) []string {
	var ids []string

	if opts.Direction == Upstream || opts.Direction == Both {
		succ, _ := g.Successors(id)
		for _, e := range succ {
			if e.Weight >= opts.MinWeight {
				ids = append(ids, e.Supplier)
			}
		}
	}

	if opts.Direction == Downstream || opts.Direction == Both {
		pred, _ := g.Predecessors(id)
		for _, e := range pred {
			if e.Weight >= opts.MinWeight {
				ids = append(ids, e.Owner)
			}
		}
	}

	return ids
}
