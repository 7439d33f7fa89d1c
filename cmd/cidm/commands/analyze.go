package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/algorithms"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/config"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/report"
)

func newInfluenceCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "influence",
		Short: "Score every company's global influence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.pipeline(cmd)
			if err != nil {
				return err
			}
			g, err := p.Graph(cmd.Context())
			if err != nil {
				return err
			}
			res, err := p.Influence(g)
			if err != nil {
				return err
			}

			out := report.NewInfluence(res, p.Config().Influence.TopN)
			return a.emit(cmd, out, func(w io.Writer) {
				printRanking(w, "Global influence", out.Top)
				status := "converged"
				if !out.Converged {
					status = "did not converge"
				}
				fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("%s after %d iterations", status, out.Iterations)))
			})
		},
	}
	addInfluenceFlags(cmd.Flags(), config.Defaults())
	return cmd
}

func newSimulateCmd(a *app) *cobra.Command {
	var reliance float64

	cmd := &cobra.Command{
		Use:   "simulate <company>",
		Short: "Simulate the failure of one company",
		Long: `Simulate the failure of one company and list the dependents it drags down,
strongest impact first. With --reliance the decaying simulation is replaced
by a threshold cascade: every company relying on a failed one at least that
much fails as well.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.pipeline(cmd)
			if err != nil {
				return err
			}
			g, err := p.Graph(cmd.Context())
			if err != nil {
				return err
			}

			if reliance > 0 {
				failed, err := algorithms.ThresholdCascade(g, args[0], reliance)
				if err != nil {
					return err
				}
				out := struct {
					Start     string   `json:"start"`
					Threshold float64  `json:"threshold"`
					Failed    []string `json:"failed"`
				}{args[0], reliance, failed}
				return a.emit(cmd, out, func(w io.Writer) {
					heading(w, fmt.Sprintf("Threshold cascade from %s (reliance >= %g)", args[0], reliance))
					for _, id := range failed {
						fmt.Fprintf(w, "  %s\n", id)
					}
					fmt.Fprintf(w, "failed: %d\n", len(failed))
				})
			}

			res, err := p.Simulate(g, args[0])
			if err != nil {
				return err
			}
			return a.emit(cmd, report.NewCascade(res), func(w io.Writer) {
				printCascade(w, res)
			})
		},
	}
	cmd.Flags().Float64Var(&reliance, "reliance", 0, "Run a threshold cascade at this reliance instead")
	addFailureFlags(cmd.Flags(), config.Defaults())
	return cmd
}

// Ranking measures accepted by rank --by.
const (
	measureSystemic    = "systemic"
	measureCascade     = "cascade"
	measureBetweenness = "betweenness"
	measureDegree      = "degree"
	measureDependency  = "dependency"
)

var measures = []string{measureSystemic, measureCascade, measureBetweenness, measureDegree, measureDependency}

func newRankCmd(a *app) *cobra.Command {
	var by string

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank companies by systemic importance or a centrality measure",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			by = strings.ToLower(by)
			p, err := a.pipeline(cmd)
			if err != nil {
				return err
			}
			g, err := p.Graph(cmd.Context())
			if err != nil {
				return err
			}
			n := p.Config().Influence.TopN

			var ranked []algorithms.RankedNode
			switch by {
			case measureSystemic:
				ranked = algorithms.SystemicImportance(g, nil)
				if n > 0 && len(ranked) > n {
					ranked = ranked[:n]
				}
			case measureCascade:
				entries, err := p.BlastRadius(g)
				if err != nil {
					return err
				}
				if n > 0 && len(entries) > n {
					entries = entries[:n]
				}
				return a.emit(cmd, entries, func(w io.Writer) {
					heading(w, "Blast radius")
					top := 0.0
					if len(entries) > 0 {
						top = entries[0].TotalImpact
					}
					for i, e := range entries {
						fmt.Fprintf(w, "%4d. %-20s %10.4f  %3d impacted  %s\n",
							i+1, e.NodeID, e.TotalImpact, e.Impacted, bar(e.TotalImpact, top, 20))
					}
				})
			case measureBetweenness:
				ranked = topOrAll(algorithms.BetweennessCentrality(g), n)
			case measureDegree:
				ranked = topOrAll(algorithms.DegreeCentrality(g), n)
			case measureDependency:
				ranked = topOrAll(algorithms.DependencyCentrality(g), n)
			default:
				return fmt.Errorf("unknown measure %q (want one of %s)", by, strings.Join(measures, ", "))
			}

			return a.emit(cmd, ranked, func(w io.Writer) {
				printRanking(w, "Ranking by "+by, ranked)
			})
		},
	}

	d := config.Defaults()
	cmd.Flags().StringVar(&by, "by", measureSystemic, "Measure: "+strings.Join(measures, ", "))
	addInfluenceFlags(cmd.Flags(), d)
	addFailureFlags(cmd.Flags(), d)
	return cmd
}

// topOrAll ranks every score when n is not positive.
func topOrAll(scores map[string]float64, n int) []algorithms.RankedNode {
	if n <= 0 {
		return algorithms.Rank(scores)
	}
	return algorithms.TopNodes(scores, n)
}

func newSummaryCmd(a *app) *cobra.Command {
	var sample int

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Describe the size and structure of the graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.pipeline(cmd)
			if err != nil {
				return err
			}
			g, err := p.Graph(cmd.Context())
			if err != nil {
				return err
			}
			s := algorithms.Summarize(g, sample)
			return a.emit(cmd, s, func(w io.Writer) {
				printSummary(w, s)
				if len(s.SampleEdges) > 0 {
					heading(w, "Sample dependencies")
					for _, e := range s.SampleEdges {
						fmt.Fprintf(w, "  %s -> %s  %.3f\n", e.Owner, e.Supplier, e.Weight)
					}
				}
			})
		},
	}
	cmd.Flags().IntVar(&sample, "sample", algorithms.DefaultSampleSize, "Nodes and edges to sample")
	return cmd
}
