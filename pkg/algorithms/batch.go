package algorithms

import (
	"errors"
	"runtime"
	"sort"
	"sync"

	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/graph"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/logging"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/parallel"
)

// SimulateFailures runs SimulateFailure for every start id on a shared worker
// pool. The graph is read-only, so each task only writes its own slot.
// Results are keyed by start id; the first error wins and is returned with
// whatever results completed.
func SimulateFailures(g *graph.Graph, starts []string, opts FailureOptions, workers int) (map[string]*FailureResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// Per-run logging from every task is noise at this scale.
	log := logging.OrNop(opts.Logger)
	taskOpts := opts
	taskOpts.Logger = nil

	pool, err := parallel.NewWorkerPool(workers, parallel.WithLogger(log))
	if err != nil {
		return nil, err
	}

	results := make([]*FailureResult, len(starts))
	errs := make([]error, len(starts))
	var wg sync.WaitGroup

	for i, start := range starts {
		wg.Add(1)
		ok := pool.Submit(func() {
			defer wg.Done()
			results[i], errs[i] = SimulateFailure(g, start, taskOpts)
		})
		if !ok {
			wg.Done()
		}
	}
	wg.Wait()
	pool.Close()

	out := make(map[string]*FailureResult, len(starts))
	for i, start := range starts {
		if results[i] != nil {
			out[start] = results[i]
		}
	}

	if err := errors.Join(errs...); err != nil {
		return out, err
	}

	log.Info("failure batch completed",
		logging.Component("failure"),
		logging.Count(len(out)),
		logging.Int("workers", pool.Workers()))
	return out, nil
}

// CascadeEntry summarises the blast radius of one node's failure.
type CascadeEntry struct {
	NodeID      string  `json:"node_id" yaml:"node_id"`
	TotalImpact float64 `json:"total_impact" yaml:"total_impact"`
	Impacted    int     `json:"impacted" yaml:"impacted"`
}

// CascadeRanking simulates the failure of every node and ranks them by the
// total impact on their dependents, highest first. Ties go to the smaller id.
func CascadeRanking(g *graph.Graph, opts FailureOptions, workers int) ([]CascadeEntry, error) {
	all, err := SimulateFailures(g, g.NodeIDs(), opts, workers)
	if err != nil {
		return nil, err
	}

	ranking := make([]CascadeEntry, 0, len(all))
	for id, r := range all {
		ranking = append(ranking, CascadeEntry{
			NodeID:      id,
			TotalImpact: r.TotalImpact(),
			Impacted:    len(r.Impacted),
		})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].TotalImpact != ranking[j].TotalImpact {
			return ranking[i].TotalImpact > ranking[j].TotalImpact
		}
		return ranking[i].NodeID < ranking[j].NodeID
	})
	return ranking, nil
}
