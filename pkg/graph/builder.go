package graph

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/logging"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/records"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/validation"
)

// Aggregation selects how several assets between one owner and supplier
// combine into a single edge weight. Both policies stay within [0, 1].
type Aggregation string

const (
	// AggregateMax keeps the strongest single reliance.
	AggregateMax Aggregation = "max"
	// AggregateNoisyOr treats each asset as an independent failure channel:
	// 1 - Π(1 - wᵢ).
	AggregateNoisyOr Aggregation = "noisy_or"
)

// BuildOptions configures Build.
type BuildOptions struct {
	Aggregation Aggregation
	// ClampTolerance is how far outside [0, 1] a reliance may fall and still
	// be clamped. Anything further is malformed.
	ClampTolerance float64
	Logger         logging.Logger
}

// DefaultBuildOptions returns max aggregation with a 1e-6 clamp tolerance.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		Aggregation:    AggregateMax,
		ClampTolerance: 1e-6,
	}
}

// Validate checks the option values.
func (o BuildOptions) Validate() error {
	return validation.NewConfigValidator("BuildOptions").
		OneOf("Aggregation", string(o.Aggregation), []string{string(AggregateMax), string(AggregateNoisyOr)}).
		Finite("ClampTolerance", o.ClampTolerance).
		RangeFloat("ClampTolerance", o.ClampTolerance, 0, 0.5).
		Validate()
}

func (o BuildOptions) combine(current, next float64) float64 {
	if o.Aggregation == AggregateNoisyOr {
		return 1 - (1-current)*(1-next)
	}
	return math.Max(current, next)
}

// Build turns company and asset records into a validated Graph.
//
// A company without an id fails the whole build with a
// *records.MalformedRecordError. Every other problem skips the offending
// record and appends a Diagnostic: invalid company scores, assets missing an
// id, assets naming an unknown owner or supplier, and reliance values that
// cannot be clamped into [0, 1]. A repeated company id replaces the earlier
// record. Self-dependencies are dropped without a diagnostic.
func Build(companies []records.Company, assets []records.Asset, opts BuildOptions) (*Graph, Diagnostics, error) {
	opts.Aggregation = validation.DefaultOr(opts.Aggregation, AggregateMax)
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}
	log := logging.OrNop(opts.Logger).With(logging.Component("builder"))

	var diags Diagnostics
	weights := make(map[string]Weights, len(companies))
	var order []string

	for i := range companies {
		c := &companies[i]
		id := strings.TrimSpace(c.CompanyID)
		if id == "" {
			return nil, diags, records.Malformed("company", i, "", "company_id", errors.New("missing company id"))
		}

		if err := validation.Struct(c); err != nil {
			mre := records.Malformed("company", i, id, fieldOf(err), err)
			diags = append(diags, Diagnostic{
				Kind:      DiagMalformedCompany,
				Entity:    "company",
				Index:     i,
				CompanyID: id,
				Message:   err.Error(),
				Err:       mre,
			})
			log.Debug("company skipped", logging.Company(id), logging.Error(err))
			continue
		}

		if _, seen := weights[id]; seen {
			diags = append(diags, Diagnostic{
				Kind:      DiagDuplicateCompany,
				Entity:    "company",
				Index:     i,
				CompanyID: id,
				Message:   "company id repeated; later record replaces earlier",
			})
		} else {
			order = append(order, id)
		}
		weights[id] = Weights{Economic: c.EconomicScore, Societal: c.SocietalScore}
	}

	edgeWeights := make(map[[2]string]float64)
	var edgeOrder [][2]string

	for i := range assets {
		a := &assets[i]
		owner := strings.TrimSpace(a.CompanyID)
		supplier := strings.TrimSpace(a.SupplierID)
		diag := Diagnostic{Entity: "asset", Index: i, CompanyID: owner, SupplierID: supplier, AssetID: a.CompanyAssetID}

		if err := validation.Struct(a); err != nil || owner == "" || supplier == "" {
			if err == nil {
				err = errors.New("missing company or supplier id")
			}
			diag.Kind = DiagMalformedAsset
			diag.Message = err.Error()
			diag.Err = records.Malformed("asset", i, a.CompanyAssetID, fieldOf(err), err)
			diags = append(diags, diag)
			log.Debug("asset skipped", logging.Company(owner), logging.Supplier(supplier), logging.Error(err))
			continue
		}

		if _, ok := weights[owner]; !ok {
			diag.Kind = DiagUnknownOwner
			diag.Message = fmt.Sprintf("owner %q is not a known company", owner)
			diags = append(diags, diag)
			log.Debug("asset skipped", logging.Company(owner), logging.String("reason", string(diag.Kind)))
			continue
		}
		if _, ok := weights[supplier]; !ok {
			diag.Kind = DiagUnknownSupplier
			diag.Message = fmt.Sprintf("supplier %q is not a known company", supplier)
			diags = append(diags, diag)
			log.Debug("asset skipped", logging.Supplier(supplier), logging.String("reason", string(diag.Kind)))
			continue
		}

		if owner == supplier {
			continue
		}

		w, err := clampReliance(a.OperationalReliance, opts.ClampTolerance)
		if err != nil {
			diag.Kind = DiagMalformedAsset
			diag.Message = err.Error()
			diag.Err = records.Malformed("asset", i, a.CompanyAssetID, "operational_reliance", err)
			diags = append(diags, diag)
			log.Debug("asset skipped", logging.Company(owner), logging.Supplier(supplier), logging.Error(err))
			continue
		}
		if w != a.OperationalReliance {
			log.Debug("reliance clamped", logging.Company(owner), logging.Supplier(supplier),
				logging.Float64("reported", a.OperationalReliance), logging.Float64("clamped", w))
		}

		key := [2]string{owner, supplier}
		if current, ok := edgeWeights[key]; ok {
			edgeWeights[key] = opts.combine(current, w)
		} else {
			edgeWeights[key] = w
			edgeOrder = append(edgeOrder, key)
		}
	}

	nodes := make([]Node, 0, len(order))
	for _, id := range order {
		nodes = append(nodes, Node{ID: id, Weights: weights[id]})
	}
	edges := make([]Edge, 0, len(edgeOrder))
	for _, key := range edgeOrder {
		edges = append(edges, Edge{Owner: key[0], Supplier: key[1], Weight: edgeWeights[key]})
	}

	g, err := newGraph(nodes, edges)
	if err != nil {
		// Unreachable unless the checks above drift from newGraph's.
		return nil, diags, fmt.Errorf("build graph: %w", err)
	}

	log.Info("graph built",
		logging.Int("nodes", g.Len()),
		logging.Int("edges", g.EdgeCount()),
		logging.Int("diagnostics", len(diags)))
	if len(diags) > 0 {
		log.Warn("records skipped during build", logging.Count(len(diags)))
	}
	return g, diags, nil
}

// clampReliance accepts values within tol of [0, 1] and pulls them inside.
func clampReliance(v, tol float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("operational reliance %v is not a finite number", v)
	}
	if v < -tol || v > 1+tol {
		return 0, fmt.Errorf("operational reliance %v outside [0, 1]", v)
	}
	return validation.ClampFloat(v, 0, 1), nil
}

func fieldOf(err error) string {
	var fe *validation.FieldError
	if errors.As(err, &fe) {
		return fe.Field
	}
	return ""
}
