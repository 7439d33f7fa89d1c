package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/config"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/explorer"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/visualization"
)

func newVisualizeCmd(a *app) *cobra.Command {
	layoutCfg := visualization.DefaultLayoutConfig()
	style := visualization.DefaultSVGStyle()
	var layoutName, out string
	noLabels := false

	cmd := &cobra.Command{
		Use:   "visualize",
		Short: "Draw the dependency graph as SVG or export node positions as JSON",
		Long: `Lay out the dependency graph and write it as SVG (node size follows global
influence, colour follows societal criticality, edge width follows reliance)
or as JSON positions for another renderer. The format follows the --out
extension.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ext := strings.ToLower(filepath.Ext(out))
			if ext != ".svg" && ext != ".json" {
				return fmt.Errorf("unsupported output %q: use .svg or .json", out)
			}
			layout, err := visualization.NewLayout(layoutName, layoutCfg)
			if err != nil {
				return err
			}

			p, err := a.pipeline(cmd)
			if err != nil {
				return err
			}
			g, err := p.Graph(cmd.Context())
			if err != nil {
				return err
			}
			viz, err := visualization.New(g, layout, layoutCfg)
			if err != nil {
				return err
			}

			style.Labels = !noLabels
			err = writeFile(out, func(w io.Writer) error {
				if ext == ".svg" {
					return viz.WriteSVG(w, style)
				}
				data, err := viz.ExportJSON()
				if err != nil {
					return err
				}
				_, err = w.Write(data)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d companies drawn to %s\n", g.Len(), out)
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&out, "out", "o", "graph.svg", "Output file (.svg or .json)")
	fs.StringVar(&layoutName, "layout", visualization.LayoutForce, "Layout: force, circular or hierarchical")
	fs.Float64Var(&layoutCfg.Width, "width", layoutCfg.Width, "Canvas width")
	fs.Float64Var(&layoutCfg.Height, "height", layoutCfg.Height, "Canvas height")
	fs.IntVar(&layoutCfg.Iterations, "iterations", layoutCfg.Iterations, "Force layout iterations")
	fs.Uint64Var(&layoutCfg.Seed, "seed", layoutCfg.Seed, "Force layout seed")
	fs.StringVar(&style.LowColor, "low-color", style.LowColor, "Fill of the least societally critical node")
	fs.StringVar(&style.HighColor, "high-color", style.HighColor, "Fill of the most societally critical node")
	fs.BoolVar(&noLabels, "no-labels", false, "Omit node labels")
	return cmd
}

func newExploreCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Browse the graph interactively in the terminal",
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
			return explorer.Run(g, explorer.Options{
				Simulate: p.Simulate,
				TopN:     p.Config().Influence.TopN,
			})
		},
	}
	d := config.Defaults()
	addInfluenceFlags(cmd.Flags(), d)
	addFailureFlags(cmd.Flags(), d)
	return cmd
}
