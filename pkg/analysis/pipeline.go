// Package analysis runs the dependency-graph workflow end to end: load the
// disclosure records, build the graph, compute systemic influence, persist
// the snapshot and assemble a report.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/algorithms"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/config"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/graph"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/logging"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/metrics"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/records"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/report"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/storage"
)

// Pipeline holds everything one analysis needs. It is safe to reuse for
// several runs but not for concurrent ones.
type Pipeline struct {
	cfg     config.Config
	store   storage.BlobStore
	metrics *metrics.Registry
	log     logging.Logger
	now     func() time.Time
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithStore uses store instead of opening the configured backend.
func WithStore(store storage.BlobStore) Option {
	return func(p *Pipeline) {
		p.store = store
	}
}

// WithMetrics records into reg instead of the default registry.
func WithMetrics(reg *metrics.Registry) Option {
	return func(p *Pipeline) {
		p.metrics = reg
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(p *Pipeline) {
		p.log = l
	}
}

// WithClock overrides the time source used for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// New validates cfg and opens the configured store unless one is supplied.
func New(ctx context.Context, cfg config.Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	if p.metrics == nil {
		p.metrics = metrics.DefaultRegistry()
	}
	p.log = logging.OrNop(p.log).With(logging.Component("analysis"))

	if p.store == nil {
		store, err := storage.Open(ctx, cfg.StorageOptions(), p.metrics, p.log)
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		p.store = store
	}
	return p, nil
}

// Config returns the configuration the pipeline was built with.
func (p *Pipeline) Config() config.Config { return p.cfg }

// Store returns the snapshot and record store.
func (p *Pipeline) Store() storage.BlobStore { return p.store }

// Metrics returns the registry runs are recorded into.
func (p *Pipeline) Metrics() *metrics.Registry { return p.metrics }

// Logger returns the pipeline logger.
func (p *Pipeline) Logger() logging.Logger { return p.log }

// LoadRecords reads the configured company and asset files, or the record
// databases in the store when no files are configured. CSV files are scored
// on the way in; JSON files are taken as stored.
func (p *Pipeline) LoadRecords(ctx context.Context) ([]records.Company, []records.Asset, error) {
	if p.cfg.Data.Companies == "" {
		companies, assets, err := storage.LoadRecords(ctx, p.store)
		if err != nil {
			return nil, nil, fmt.Errorf("load record databases: %w", err)
		}
		return companies, assets, nil
	}

	opts, err := p.csvOptions()
	if err != nil {
		return nil, nil, err
	}

	companies, err := readFile(p.cfg.Data.Companies, func(f *os.File, csv bool) ([]records.Company, error) {
		if csv {
			return records.ReadCompaniesCSV(f, opts)
		}
		return records.ReadCompanies(f)
	})
	if err != nil {
		return nil, nil, err
	}

	var assets []records.Asset
	if p.cfg.Data.Assets != "" {
		assets, err = readFile(p.cfg.Data.Assets, func(f *os.File, csv bool) ([]records.Asset, error) {
			if csv {
				return records.ReadAssetsCSV(f, opts)
			}
			return records.ReadAssets(f)
		})
		if err != nil {
			return nil, nil, err
		}
	}
	return companies, assets, nil
}

// csvOptions combines the data section with the sector title table.
func (p *Pipeline) csvOptions() (records.CSVOptions, error) {
	opts := p.cfg.CSVOptions()
	opts.Now = p.now
	if p.cfg.Data.SectorTable == "" {
		return opts, nil
	}
	f, err := os.Open(p.cfg.Data.SectorTable)
	if err != nil {
		return opts, fmt.Errorf("open sector table: %w", err)
	}
	defer f.Close()
	if opts.SectorNames, err = records.ReadSectorNames(f); err != nil {
		return opts, fmt.Errorf("%s: %w", p.cfg.Data.SectorTable, err)
	}
	return opts, nil
}

func readFile[T any](path string, read func(f *os.File, csv bool) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out, err := read(f, strings.EqualFold(filepath.Ext(path), ".csv"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// Build constructs the graph from companies and assets and records the
// outcome.
func (p *Pipeline) Build(companies []records.Company, assets []records.Asset) (*graph.Graph, graph.Diagnostics, error) {
	start := time.Now()
	g, diags, err := graph.Build(companies, assets, p.cfg.BuildOptions(p.log))
	if err != nil {
		return nil, diags, err
	}
	p.metrics.RecordBuild(time.Since(start))
	p.metrics.RecordGraph(g.Len(), g.EdgeCount())

	skipped := map[string]int{}
	for _, d := range diags {
		if d.Kind != graph.DiagDuplicateCompany {
			skipped[d.Entity]++
		}
	}
	p.metrics.RecordBuildRecords("company", "accepted", len(companies)-skipped["company"])
	p.metrics.RecordBuildRecords("company", "skipped", skipped["company"])
	p.metrics.RecordBuildRecords("asset", "accepted", len(assets)-skipped["asset"])
	p.metrics.RecordBuildRecords("asset", "skipped", skipped["asset"])

	byKind := make(map[string]int)
	for kind, n := range diags.ByKind() {
		byKind[string(kind)] = n
	}
	p.metrics.RecordDiagnostics(byKind)

	if len(diags) > 0 {
		p.log.Warn("records skipped during build", logging.Count(len(diags)), logging.Any("by_kind", byKind))
	}
	return g, diags, nil
}

// Influence computes systemic influence on g.
func (p *Pipeline) Influence(g *graph.Graph) (*algorithms.InfluenceResult, error) {
	start := time.Now()
	res, err := algorithms.ComputeInfluence(g, p.cfg.InfluenceOptions(p.log))
	if err != nil {
		return nil, err
	}
	p.metrics.RecordInfluence(res.Iterations, res.Converged, time.Since(start))
	return res, nil
}

// Simulate propagates the failure of start through g.
func (p *Pipeline) Simulate(g *graph.Graph, start string) (*algorithms.FailureResult, error) {
	began := time.Now()
	res, err := algorithms.SimulateFailure(g, start, p.cfg.FailureOptions(p.log))
	impacted := 0
	if res != nil {
		impacted = len(res.Impacted)
	}
	p.metrics.RecordSimulation(impacted, err, time.Since(began))
	return res, err
}

// BlastRadius ranks every node by the impact of its failure.
func (p *Pipeline) BlastRadius(g *graph.Graph) ([]algorithms.CascadeEntry, error) {
	return algorithms.CascadeRanking(g, p.cfg.FailureOptions(p.log), p.cfg.Workers)
}

// Snapshot loads the last persisted graph.
func (p *Pipeline) Snapshot(ctx context.Context) (*graph.Graph, error) {
	return storage.LoadGraph(ctx, p.store, storage.GraphKey)
}

// Built is a freshly built graph with influence attached.
type Built struct {
	Graph       *graph.Graph
	Influence   *algorithms.InfluenceResult
	Diagnostics graph.Diagnostics
}

// Rebuild loads the records, builds the graph, attaches influence scores and
// replaces the stored snapshot.
func (p *Pipeline) Rebuild(ctx context.Context) (*Built, error) {
	companies, assets, err := p.LoadRecords(ctx)
	if err != nil {
		return nil, err
	}
	built, err := p.compute(companies, assets)
	if err != nil {
		return nil, err
	}
	if err := storage.SaveGraph(ctx, p.store, storage.GraphKey, built.Graph); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}
	p.log.Info("graph snapshot saved",
		logging.Path(storage.GraphKey),
		logging.Int("nodes", built.Graph.Len()),
		logging.Int("edges", built.Graph.EdgeCount()))
	return built, nil
}

func (p *Pipeline) compute(companies []records.Company, assets []records.Asset) (*Built, error) {
	g, diags, err := p.Build(companies, assets)
	if err != nil {
		return nil, err
	}
	influence, err := p.Influence(g)
	if err != nil {
		return nil, err
	}
	return &Built{
		Graph:       g.WithInfluence(influence.Scores),
		Influence:   influence,
		Diagnostics: diags,
	}, nil
}

// Graph returns the graph to query. Configured input files are always built
// fresh; otherwise the stored snapshot is used and rebuilt from the record
// databases when there is none.
func (p *Pipeline) Graph(ctx context.Context) (*graph.Graph, error) {
	if p.cfg.Data.Companies != "" {
		companies, assets, err := p.LoadRecords(ctx)
		if err != nil {
			return nil, err
		}
		built, err := p.compute(companies, assets)
		if err != nil {
			return nil, err
		}
		return built.Graph, nil
	}

	g, err := p.Snapshot(ctx)
	if errors.Is(err, storage.ErrNoSnapshot) {
		p.log.Info("no snapshot stored, rebuilding")
		built, err := p.Rebuild(ctx)
		if err != nil {
			return nil, err
		}
		return built.Graph, nil
	}
	return g, err
}

// Result is the outcome of Run.
type Result struct {
	RunID       string
	Graph       *graph.Graph
	Influence   *algorithms.InfluenceResult
	Cascade     *algorithms.FailureResult
	Diagnostics graph.Diagnostics
	Report      *report.Report
}

// Run rebuilds the snapshot and analyses it. The cascade starts at start, or
// at the most systemically important node when start is empty. A graph with
// no nodes produces a report without a cascade. Report.TopN of 0 lists every
// node.
func (p *Pipeline) Run(ctx context.Context, start string) (*Result, error) {
	runID := report.NewRunID()
	log := p.log.With(logging.RunID(runID))
	timer := logging.StartTimer(log, "analysis run completed")

	built, err := p.Rebuild(ctx)
	if err != nil {
		timer.EndError(err)
		return nil, err
	}
	g := built.Graph

	topN := p.cfg.Report.TopN
	if topN <= 0 {
		topN = g.Len()
	}
	rep := report.New(runID, p.now())
	rep.Summary = algorithms.Summarize(g, 0)
	rep.Influence = report.NewInfluence(built.Influence, topN)
	rep.Diagnostics = report.NewDiagnostics(built.Diagnostics)

	systemic := algorithms.SystemicImportance(g, built.Influence.Scores)
	if len(systemic) > topN {
		systemic = systemic[:topN]
	}
	if systemic != nil {
		rep.Systemic = systemic
	}

	res := &Result{
		RunID:       runID,
		Graph:       g,
		Influence:   built.Influence,
		Diagnostics: built.Diagnostics,
		Report:      rep,
	}

	if start == "" && len(systemic) > 0 {
		start = systemic[0].NodeID
	}
	if start != "" {
		cascade, err := p.Simulate(g, start)
		if err != nil {
			timer.EndError(err)
			return nil, err
		}
		res.Cascade = cascade
		rep.Cascade = report.NewCascade(cascade)
	}

	if p.cfg.Report.BlastRadius {
		ranking, err := p.BlastRadius(g)
		if err != nil {
			timer.EndError(err)
			return nil, err
		}
		if len(ranking) > topN {
			ranking = ranking[:topN]
		}
		rep.BlastRadius = ranking
	}

	p.metrics.MarkRun(p.now())
	timer.End(logging.Int("nodes", g.Len()), logging.String("cascade_start", start))
	return res, nil
}
