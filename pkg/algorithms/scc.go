package algorithms

import (
	"sort"

	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/graph"
)

// RelianceGroup is a strongly connected set of companies: every member
// depends, directly or through others, on every other member. A failure in
// one can cycle back to all of them.
type RelianceGroup struct {
	ID      int      `json:"id" yaml:"id"`
	Members []string `json:"members" yaml:"members"` // Sorted
}

// Size returns the number of members.
func (g RelianceGroup) Size() int { return len(g.Members) }

// SCCResult holds the result of Tarjan's strongly connected components algorithm.
type SCCResult struct {
	Groups         []RelianceGroup // Every component, singletons included
	NodeGroup      map[string]int  // Node ID -> group ID
	SingletonCount int
}

// Mutual returns the groups with more than one member, largest first.
func (r *SCCResult) Mutual() []RelianceGroup {
	var mutual []RelianceGroup
	for _, g := range r.Groups {
		if g.Size() > 1 {
			mutual = append(mutual, g)
		}
	}
	sort.SliceStable(mutual, func(i, j int) bool {
		return mutual[i].Size() > mutual[j].Size()
	})
	return mutual
}

// CondensationEdge is an edge of the condensation DAG, where each group has
// been contracted to a single node.
type CondensationEdge struct {
	FromGroup int `json:"from_group" yaml:"from_group"`
	ToGroup   int `json:"to_group" yaml:"to_group"`
	EdgeCount int `json:"edge_count" yaml:"edge_count"`
}

// tarjanState holds per-node state during Tarjan's DFS.
type tarjanState struct {
	index   int
	lowlink int
	onStack bool
}

// StronglyConnectedComponents finds all SCCs using Tarjan's algorithm in O(V+E) time.
// Only owner→supplier edges are followed. Group ids follow the order in which
// Tarjan completes them, which is deterministic because nodes and successors
// are visited in id order.
func StronglyConnectedComponents(g *graph.Graph) *SCCResult {
	nodeIDs := g.NodeIDs()

	state := make(map[string]*tarjanState, len(nodeIDs))
	var stack []string
	indexCounter := 0
	var groups []RelianceGroup
	nodeGroup := make(map[string]int, len(nodeIDs))

	var strongconnect func(u string)
	strongconnect = func(u string) {
		state[u] = &tarjanState{
			index:   indexCounter,
			lowlink: indexCounter,
			onStack: true,
		}
		indexCounter++
		stack = append(stack, u)

		succ, _ := g.Successors(u)
		for _, e := range succ {
			v := e.Supplier
			if _, exists := state[v]; !exists {
				strongconnect(v)
				state[u].lowlink = min(state[u].lowlink, state[v].lowlink)
			} else if state[v].onStack {
				state[u].lowlink = min(state[u].lowlink, state[v].index)
			}
		}

		// If u is a root node, pop the stack to form a component
		if state[u].lowlink == state[u].index {
			id := len(groups)
			var members []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				state[w].onStack = false
				members = append(members, w)
				nodeGroup[w] = id
				if w == u {
					break
				}
			}
			sort.Strings(members)
			groups = append(groups, RelianceGroup{ID: id, Members: members})
		}
	}

	for _, id := range nodeIDs {
		if _, exists := state[id]; !exists {
			strongconnect(id)
		}
	}

	singletons := 0
	for _, grp := range groups {
		if grp.Size() == 1 {
			singletons++
		}
	}

	return &SCCResult{
		Groups:         groups,
		NodeGroup:      nodeGroup,
		SingletonCount: singletons,
	}
}

// MutualRelianceGroups returns the components with more than one member.
func MutualRelianceGroups(g *graph.Graph) []RelianceGroup {
	return StronglyConnectedComponents(g).Mutual()
}

// Condensation builds the condensation DAG from an SCC result. Edges between
// groups are aggregated with their count and sorted by (from, to).
func Condensation(g *graph.Graph, scc *SCCResult) []CondensationEdge {
	type edgeKey struct{ from, to int }
	counts := make(map[edgeKey]int)

	for _, e := range g.Edges() {
		from, to := scc.NodeGroup[e.Owner], scc.NodeGroup[e.Supplier]
		if from == to {
			continue // intra-group edge
		}
		counts[edgeKey{from, to}]++
	}

	result := make([]CondensationEdge, 0, len(counts))
	for key, count := range counts {
		result = append(result, CondensationEdge{
			FromGroup: key.from,
			ToGroup:   key.to,
			EdgeCount: count,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].FromGroup != result[j].FromGroup {
			return result[i].FromGroup < result[j].FromGroup
		}
		return result[i].ToGroup < result[j].ToGroup
	})

	return result
}
