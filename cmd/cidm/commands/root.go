// Package commands wires the cidm command line.
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/analysis"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/config"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/logging"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/metrics"
)

// Version is overridden at link time with -ldflags "-X .../commands.Version=...".
var Version = "dev"

// app is the state shared by every subcommand of one invocation.
type app struct {
	cfgFile string
	jsonOut bool
	metrics *metrics.Registry
	cfg     *config.Config
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), errorStyle.Render("Error: "+err.Error()))
		stop()
		os.Exit(1)
	}
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	a := &app{metrics: metrics.NewRegistry()}
	d := config.Defaults()

	root := &cobra.Command{
		Use:   "cidm",
		Short: "Critical infrastructure dependency mapping",
		Long: `cidm builds a weighted dependency graph of companies and their suppliers,
scores how much influence each company carries and simulates how the
failure of one supplier cascades to the companies that rely on it.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.writeMetrics()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "Config file (default ./cidm.yaml)")
	pf.BoolVar(&a.jsonOut, "json", false, "Print JSON instead of tables")
	pf.String("log-level", d.Log.Level, "Log level: debug, info, warn or error")
	pf.String("metrics-file", "", "Write Prometheus metrics to this textfile on exit")
	pf.Int("workers", d.Workers, "Parallel simulations (0 = GOMAXPROCS)")
	addDataFlags(pf, d)
	addStorageFlags(pf, d)

	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		renderHelp(cmd)
	})

	root.AddCommand(
		newRunCmd(a),
		newRebuildCmd(a),
		newInfluenceCmd(a),
		newSimulateCmd(a),
		newRankCmd(a),
		newSummaryCmd(a),
		newPathCmd(a),
		newExposureCmd(a),
		newTiersCmd(a),
		newGroupsCmd(a),
		newScoreCmd(a),
		newIngestCmd(a),
		newGenerateCmd(a),
		newVisualizeCmd(a),
		newExploreCmd(a),
	)
	return root
}

func addDataFlags(fs *pflag.FlagSet, d config.Config) {
	fs.String("companies", d.Data.Companies, "Company records file (.csv or .json); default reads the stored database")
	fs.String("assets", d.Data.Assets, "Asset records file (.csv or .json)")
	fs.String("sector-table", d.Data.SectorTable, "CSV mapping sector codes to names")
	fs.StringSlice("regulated", d.Data.RegulatedSectors, "Sector names treated as regulated")
	fs.String("aggregation", d.Build.Aggregation, "How parallel assets combine into one edge: max or noisy_or")
}

func addStorageFlags(fs *pflag.FlagSet, d config.Config) {
	fs.String("storage", d.Storage.Backend, "Blob store backend: local or s3")
	fs.String("data-dir", d.Storage.Dir, "Local store directory")
	fs.Bool("compress", d.Storage.Compress, "Snappy-compress stored blobs")
	fs.String("s3-bucket", d.Storage.S3.Bucket, "S3 bucket")
	fs.String("s3-prefix", d.Storage.S3.Prefix, "S3 key prefix")
	fs.String("s3-region", d.Storage.S3.Region, "S3 region")
	fs.String("s3-endpoint", d.Storage.S3.Endpoint, "S3-compatible endpoint URL")
	fs.Bool("s3-path-style", d.Storage.S3.UsePathStyle, "Use path-style S3 addressing")
}

func addInfluenceFlags(fs *pflag.FlagSet, d config.Config) {
	fs.Float64("damping", d.Influence.Damping, "Influence damping factor")
	fs.Int("max-iterations", d.Influence.MaxIterations, "Influence iteration cap")
	fs.Float64("tolerance", d.Influence.Tolerance, "Influence convergence tolerance")
	fs.Int("top", d.Influence.TopN, "Number of top-ranked companies to list")
}

func addFailureFlags(fs *pflag.FlagSet, d config.Config) {
	fs.Float64("decay", d.Failure.DecayFactor, "Impact decay per hop")
	fs.Float64("threshold", d.Failure.Threshold, "Smallest impact that keeps propagating")
	fs.Int("max-steps", d.Failure.MaxSteps, "Propagation rounds (0 = one per company)")
}

// loadConfig resolves the config for cmd and keeps it for the metrics hook.
func (a *app) loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(a.cfgFile, cmd.Flags())
	if err != nil {
		return config.Config{}, err
	}
	a.cfg = &cfg
	return cfg, nil
}

func (a *app) pipeline(cmd *cobra.Command) (*analysis.Pipeline, error) {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log := logging.NewJSONLogger(cmd.ErrOrStderr(), logging.ParseLevel(cfg.Log.Level))
	return analysis.New(cmd.Context(), cfg,
		analysis.WithLogger(log.With(logging.Operation(cmd.Name()))),
		analysis.WithMetrics(a.metrics))
}

func (a *app) writeMetrics() error {
	if a.cfg == nil || a.cfg.Report.MetricsFile == "" {
		return nil
	}
	if err := a.metrics.WriteTextfile(a.cfg.Report.MetricsFile); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

func renderHelp(cmd *cobra.Command) {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00FF99")).
		MarginBottom(1)

	flagStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA"))

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("CIDM %s", Version)))
	if cmd.Long != "" {
		fmt.Fprintln(out, cmd.Long)
	} else {
		fmt.Fprintln(out, cmd.Short)
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, titleStyle.Render("USAGE"))
	fmt.Fprintf(out, "  %s\n\n", cmd.UseLine())

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintln(out, titleStyle.Render("COMMANDS"))
		for _, c := range cmd.Commands() {
			if c.IsAvailableCommand() {
				fmt.Fprintf(out, "  %-12s %s\n", c.Name(), c.Short)
			}
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, titleStyle.Render("FLAGS"))
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		line := fmt.Sprintf("  --%-15s %s", f.Name, f.Usage)
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" && f.DefValue != "[]" {
			line += fmt.Sprintf(" (default %s)", f.DefValue)
		}
		fmt.Fprintln(out, flagStyle.Render(line))
	})
	fmt.Fprintln(out)
}
