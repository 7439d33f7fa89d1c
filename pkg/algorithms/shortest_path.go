package algorithms

import (
	"container/heap"
	"math"

	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/graph"
)

// DependencyPath finds the shortest owner→supplier chain from one company to
// another by hop count. Successors are visited in id order, so among equally
// short chains the lexicographically smallest is returned. A nil path with a
// nil error means the target is unreachable.
func DependencyPath(g *graph.Graph, from, to string) ([]string, error) {
	if !g.Has(from) {
		return nil, &graph.UnknownNodeError{Op: "dependency_path", ID: from}
	}
	if !g.Has(to) {
		return nil, &graph.UnknownNodeError{Op: "dependency_path", ID: to}
	}
	if from == to {
		return []string{from}, nil
	}

	parent := map[string]string{from: from}
	queue := []string{from}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		succ, _ := g.Successors(current)
		for _, e := range succ {
			if _, seen := parent[e.Supplier]; seen {
				continue
			}
			parent[e.Supplier] = current
			if e.Supplier == to {
				return walkBack(parent, from, to), nil
			}
			queue = append(queue, e.Supplier)
		}
	}

	return nil, nil // No path found
}

// HopDistances returns the hop count from source to every supplier reachable
// from it, source included at 0.
func HopDistances(g *graph.Graph, source string) (map[string]int, error) {
	if !g.Has(source) {
		return nil, &graph.UnknownNodeError{Op: "hop_distances", ID: source}
	}

	distances := map[string]int{source: 0}
	queue := []string{source}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		succ, _ := g.Successors(current)
		for _, e := range succ {
			if _, visited := distances[e.Supplier]; !visited {
				distances[e.Supplier] = distances[current] + 1
				queue = append(queue, e.Supplier)
			}
		}
	}

	return distances, nil
}

// WeightedDependencyPath finds the chain with the smallest total reliance
// weight using Dijkstra's algorithm. It returns the path and its cost, or a
// nil path when the target is unreachable.
func WeightedDependencyPath(g *graph.Graph, from, to string) ([]string, float64, error) {
	return dijkstra(g, from, to, "weighted_dependency_path", func(w float64) (float64, bool) {
		return w, true
	})
}

// StrongestDependencyChain finds the chain whose product of reliance weights
// is highest, i.e. the path along which a failure of to hits from hardest.
// Zero-weight edges carry nothing and are skipped. The returned strength is
// the weight product.
func StrongestDependencyChain(g *graph.Graph, from, to string) ([]string, float64, error) {
	path, cost, err := dijkstra(g, from, to, "strongest_dependency_chain", func(w float64) (float64, bool) {
		if w <= 0 {
			return 0, false
		}
		return -math.Log(w), true
	})
	if err != nil || path == nil {
		return path, 0, err
	}
	return path, math.Exp(-cost), nil
}

type pqItem struct {
	nodeID   string
	distance float64
}

type distanceHeap []pqItem

func (h distanceHeap) Len() int { return len(h) }
func (h distanceHeap) Less(i, j int) bool {
	if h[i].distance != h[j].distance {
		return h[i].distance < h[j].distance
	}
	return h[i].nodeID < h[j].nodeID
}
func (h distanceHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *distanceHeap) Push(x any) {
	*h = append(*h, x.(pqItem))
}

func (h *distanceHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// dijkstra runs Dijkstra's algorithm with cost mapping each reliance weight
// to a non-negative edge length; edges it rejects are not traversed.
func dijkstra(g *graph.Graph, from, to, op string, cost func(float64) (float64, bool)) ([]string, float64, error) {
	if !g.Has(from) {
		return nil, 0, &graph.UnknownNodeError{Op: op, ID: from}
	}
	if !g.Has(to) {
		return nil, 0, &graph.UnknownNodeError{Op: op, ID: to}
	}

	distances := map[string]float64{from: 0}
	parent := map[string]string{from: from}
	done := make(map[string]bool)

	pq := &distanceHeap{{nodeID: from}}

	for pq.Len() > 0 {
		current := heap.Pop(pq).(pqItem)
		if done[current.nodeID] {
			continue
		}
		done[current.nodeID] = true

		// Found target
		if current.nodeID == to {
			return walkBack(parent, from, to), distances[to], nil
		}

		succ, _ := g.Successors(current.nodeID)
		for _, e := range succ {
			length, ok := cost(e.Weight)
			if !ok || done[e.Supplier] {
				continue
			}
			newDist := current.distance + length
			if oldDist, visited := distances[e.Supplier]; !visited || newDist < oldDist {
				distances[e.Supplier] = newDist
				parent[e.Supplier] = current.nodeID
				heap.Push(pq, pqItem{nodeID: e.Supplier, distance: newDist})
			}
		}
	}

	return nil, 0, nil // No path found
}

// walkBack rebuilds the path from start to end out of a parent map.
func walkBack(parent map[string]string, start, end string) []string {
	path := []string{end}
	for node := end; node != start; {
		node = parent[node]
		path = append(path, node)
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
