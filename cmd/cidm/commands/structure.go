package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/algorithms"
)

type pathOutput struct {
	From      string   `json:"from"`
	To        string   `json:"to"`
	Mode      string   `json:"mode"`
	Path      []string `json:"path"`
	Reachable bool     `json:"reachable"`
	Value     float64  `json:"value,omitempty"`
}

func newPathCmd(a *app) *cobra.Command {
	var weighted, strongest bool

	cmd := &cobra.Command{
		Use:   "path <from> <to>",
		Short: "Find a dependency chain from one company to another",
		Long: `Find how <from> depends on <to> through its suppliers. By default the
chain with the fewest hops is shown; --weighted minimises the summed reliance
and --strongest maximises the product of reliance along the chain.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if weighted && strongest {
				return errors.New("--weighted and --strongest are mutually exclusive")
			}
			p, err := a.pipeline(cmd)
			if err != nil {
				return err
			}
			g, err := p.Graph(cmd.Context())
			if err != nil {
				return err
			}

			out := pathOutput{From: args[0], To: args[1], Mode: "hops"}
			switch {
			case weighted:
				out.Mode = "weighted"
				out.Path, out.Value, err = algorithms.WeightedDependencyPath(g, out.From, out.To)
			case strongest:
				out.Mode = "strongest"
				out.Path, out.Value, err = algorithms.StrongestDependencyChain(g, out.From, out.To)
			default:
				out.Path, err = algorithms.DependencyPath(g, out.From, out.To)
			}
			if err != nil {
				return err
			}
			out.Reachable = out.Path != nil
			if !out.Reachable {
				out.Value = 0
			}

			return a.emit(cmd, out, func(w io.Writer) {
				heading(w, fmt.Sprintf("%s -> %s", out.From, out.To))
				if !out.Reachable {
					fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("  %s does not depend on %s", out.From, out.To)))
					return
				}
				fmt.Fprintf(w, "  %s\n", strings.Join(out.Path, " -> "))
				switch out.Mode {
				case "weighted":
					fmt.Fprintf(w, "  total reliance: %.4f\n", out.Value)
				case "strongest":
					fmt.Fprintf(w, "  chain strength: %.4f\n", out.Value)
				default:
					fmt.Fprintf(w, "  hops: %d\n", len(out.Path)-1)
				}
			})
		},
	}
	cmd.Flags().BoolVar(&weighted, "weighted", false, "Minimise the summed reliance weight")
	cmd.Flags().BoolVar(&strongest, "strongest", false, "Maximise the product of reliance weights")
	return cmd
}

func newExposureCmd(a *app) *cobra.Command {
	opts := algorithms.DefaultKHopOptions()
	var direction string

	cmd := &cobra.Command{
		Use:   "exposure <company>",
		Short: "List the companies within a few hops of one company",
		Long: `List the suppliers a company relies on (upstream), the companies relying
on it (downstream) or both, grouped by hop distance.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Direction = algorithms.Direction(strings.ToLower(direction))
			p, err := a.pipeline(cmd)
			if err != nil {
				return err
			}
			g, err := p.Graph(cmd.Context())
			if err != nil {
				return err
			}
			res, err := algorithms.KHopNeighbours(g, args[0], opts)
			if err != nil {
				return err
			}

			return a.emit(cmd, res, func(w io.Writer) {
				heading(w, fmt.Sprintf("%s exposure of %s", opts.Direction, res.Source))
				for hop := 1; hop <= opts.MaxHops; hop++ {
					ids := res.ByHop[hop]
					if len(ids) == 0 {
						continue
					}
					fmt.Fprintf(w, "  hop %d: %s\n", hop, strings.Join(ids, ", "))
				}
				fmt.Fprintf(w, "reachable: %d\n", res.TotalReachable)
			})
		},
	}

	fs := cmd.Flags()
	fs.IntVar(&opts.MaxHops, "hops", opts.MaxHops, "Maximum hop distance")
	fs.StringVar(&direction, "direction", string(opts.Direction), "upstream, downstream or both")
	fs.Float64Var(&opts.MinWeight, "min-weight", opts.MinWeight, "Ignore edges lighter than this")
	fs.IntVar(&opts.MaxResults, "limit", opts.MaxResults, "Maximum companies to list (0 = all)")
	return cmd
}

func newTiersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tiers",
		Short: "Group companies by supply-chain depth",
		Long: `Group companies by supply-chain depth: tier 0 relies on nobody and every
other company sits one tier above its deepest supplier. Graphs with mutual
reliance have no tiers; the offending groups are listed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.pipeline(cmd)
			if err != nil {
				return err
			}
			g, err := p.Graph(cmd.Context())
			if err != nil {
				return err
			}

			tiers, err := algorithms.SupplyTiers(g)
			if errors.Is(err, algorithms.ErrCyclic) {
				groups := algorithms.MutualRelianceGroups(g)
				if !a.jsonOut {
					w := cmd.ErrOrStderr()
					for _, grp := range groups {
						fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("mutual reliance: %s", strings.Join(grp.Members, ", "))))
					}
				}
				return fmt.Errorf("%w: %d mutual reliance groups", err, len(groups))
			}
			if err != nil {
				return err
			}

			return a.emit(cmd, tiers, func(w io.Writer) {
				heading(w, "Supply tiers")
				for i, tier := range tiers {
					fmt.Fprintf(w, "  tier %d: %s\n", i, strings.Join(tier, ", "))
				}
			})
		},
	}
}

func newGroupsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "List groups of companies that rely on each other",
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

			scc := algorithms.StronglyConnectedComponents(g)
			groups := scc.Mutual()
			if groups == nil {
				groups = []algorithms.RelianceGroup{}
			}
			return a.emit(cmd, groups, func(w io.Writer) {
				heading(w, "Mutual reliance groups")
				if len(groups) == 0 {
					fmt.Fprintln(w, dimStyle.Render("  none"))
				}
				for _, grp := range groups {
					fmt.Fprintf(w, "  [%d] %d members: %s\n", grp.ID, grp.Size(), strings.Join(grp.Members, ", "))
				}
				fmt.Fprintf(w, "components: %d  singletons: %d\n", len(scc.Groups), scc.SingletonCount)
			})
		},
	}
}
