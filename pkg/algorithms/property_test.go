package algorithms

import (
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/graph"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/records"
)

// network is a generated graph description: scores per company and a list
// of owner/supplier/weight triples over company indexes.
type network struct {
	Scores []float64
	Deps   []dep
}

func genNetwork() gopter.Gen {
	return gen.IntRange(1, 8).FlatMap(func(v any) gopter.Gen {
		n := v.(int)
		depGen := gopter.CombineGens(
			gen.IntRange(0, n-1),
			gen.IntRange(0, n-1),
			gen.Float64Range(0, 1),
		).Map(func(vals []any) dep {
			return dep{
				owner:    fmt.Sprintf("N%d", vals[0].(int)),
				supplier: fmt.Sprintf("N%d", vals[1].(int)),
				weight:   vals[2].(float64),
			}
		})
		return gopter.CombineGens(
			gen.SliceOfN(n, gen.Float64Range(0, 100)),
			gen.SliceOf(depGen),
		).Map(func(vals []any) network {
			return network{Scores: vals[0].([]float64), Deps: vals[1].([]dep)}
		})
	}, reflect.TypeOf(network{}))
}

func (nw network) build() (*graph.Graph, error) {
	companies := make([]records.Company, len(nw.Scores))
	for i, s := range nw.Scores {
		companies[i] = records.Company{CompanyID: fmt.Sprintf("N%d", i), EconomicScore: s, SocietalScore: s / 2}
	}
	assets := make([]records.Asset, len(nw.Deps))
	for i, d := range nw.Deps {
		assets[i] = records.Asset{CompanyID: d.owner, SupplierID: d.supplier, OperationalReliance: d.weight}
	}
	g, _, err := graph.Build(companies, assets, graph.DefaultBuildOptions())
	return g, err
}

// TestInfluenceProperties checks conservation and determinism of the
// influence engine over random networks.
func TestInfluenceProperties(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("scores are non-negative and sum to one", prop.ForAll(
		func(nw network, d float64) bool {
			g, err := nw.build()
			if err != nil {
				return false
			}
			opts := DefaultInfluenceOptions()
			opts.DampingFactor = d
			result, err := ComputeInfluence(g, opts)
			if err != nil {
				return false
			}
			total := 0.0
			for _, s := range result.Scores {
				if s < 0 {
					return false
				}
				total += s
			}
			return len(result.Scores) == g.Len() && math.Abs(total-1) < 1e-9
		},
		genNetwork(),
		gen.Float64Range(0, 1),
	))

	properties.Property("influence is deterministic", prop.ForAll(
		func(nw network) bool {
			g, err := nw.build()
			if err != nil {
				return false
			}
			first, err1 := ComputeInfluence(g, DefaultInfluenceOptions())
			second, err2 := ComputeInfluence(g, DefaultInfluenceOptions())
			return err1 == nil && err2 == nil && reflect.DeepEqual(first, second)
		},
		genNetwork(),
	))

	properties.Property("failure impacts stay within (threshold, 1)", prop.ForAll(
		func(nw network) bool {
			g, err := nw.build()
			if err != nil {
				return false
			}
			opts := DefaultFailureOptions()
			for _, id := range g.NodeIDs() {
				result, err := SimulateFailure(g, id, opts)
				if err != nil || len(result.Order) != len(result.Impacted) {
					return false
				}
				for other, v := range result.Impacted {
					if other == id || v <= opts.Threshold || v >= 1 {
						return false
					}
				}
			}
			return true
		},
		genNetwork(),
	))

	properties.TestingRun(t)
}
