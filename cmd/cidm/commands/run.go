package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/config"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/report"
)

func newRunCmd(a *app) *cobra.Command {
	var start string
	d := config.Defaults()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Rebuild the graph and write an analysis report",
		Long: `Rebuild the dependency graph from the record databases (or --companies and
--assets), score influence, simulate a failure and write the report.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.pipeline(cmd)
			if err != nil {
				return err
			}
			res, err := p.Run(cmd.Context(), start)
			if err != nil {
				return err
			}

			cfg := p.Config().Report
			format := report.FormatForPath(cfg.Output)
			if cfg.Output == "" || cmd.Flags().Changed("format") {
				if format, err = report.ParseFormat(cfg.Format); err != nil {
					return err
				}
			}
			if cfg.Output == "" {
				return report.Write(cmd.OutOrStdout(), res.Report, format)
			}
			if err := writeFile(cfg.Output, func(w io.Writer) error {
				return report.Write(w, res.Report, format)
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "report %s written to %s\n", res.RunID, cfg.Output)
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&start, "start", "", "Company whose failure to simulate (default: most systemically important)")
	fs.StringP("output", "o", d.Report.Output, "Report file (default stdout)")
	fs.String("format", d.Report.Format, "Report format: json, yaml or csv (default from the --output extension)")
	fs.Bool("blast-radius", d.Report.BlastRadius, "Rank every company by the impact of its failure")
	addInfluenceFlags(fs, d)
	addFailureFlags(fs, d)
	return cmd
}

func newRebuildCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild and store the graph snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.pipeline(cmd)
			if err != nil {
				return err
			}
			built, err := p.Rebuild(cmd.Context())
			if err != nil {
				return err
			}

			type rebuildOutput struct {
				Nodes       int            `json:"nodes"`
				Edges       int            `json:"edges"`
				Iterations  int            `json:"iterations"`
				Converged   bool           `json:"converged"`
				Diagnostics map[string]int `json:"diagnostics,omitempty"`
			}
			diags := report.NewDiagnostics(built.Diagnostics)
			out := rebuildOutput{
				Nodes:       built.Graph.Len(),
				Edges:       built.Graph.EdgeCount(),
				Iterations:  built.Influence.Iterations,
				Converged:   built.Influence.Converged,
				Diagnostics: diags.ByKind,
			}

			return a.emit(cmd, out, func(w io.Writer) {
				heading(w, "Snapshot rebuilt")
				fmt.Fprintf(w, "  companies:     %d\n", out.Nodes)
				fmt.Fprintf(w, "  dependencies:  %d\n", out.Edges)
				fmt.Fprintf(w, "  influence:     %d iterations, converged=%t\n", out.Iterations, out.Converged)
				for _, kind := range diags.Kinds() {
					fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("  %s: %d", kind, out.Diagnostics[kind])))
				}
			})
		},
	}
	addInfluenceFlags(cmd.Flags(), config.Defaults())
	return cmd
}

// writeFile writes through a temporary sibling so a failed write never
// leaves a truncated file behind.
func writeFile(path string, write func(w io.Writer) error) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close %s: %w", path, err)
	}
	return os.Rename(tmp, path)
}
