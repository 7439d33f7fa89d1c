package commands

import (
	"cmp"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/analysis"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/config"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/records"
)

func newIngestCmd(a *app) *cobra.Command {
	var noRebuild bool

	cmd := &cobra.Command{
		Use:   "ingest <dir>",
		Short: "Merge uploaded CSV disclosures into the record databases",
		Long: `Merge every *` + analysis.CompanyUploadSuffix + ` and *` + analysis.AssetUploadSuffix + ` file in <dir>
into the stored record databases, then rebuild the graph snapshot.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.pipeline(cmd)
			if err != nil {
				return err
			}
			sum, err := p.Ingest(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(sum.Files) > 0 && !noRebuild {
				if _, err := p.Rebuild(cmd.Context()); err != nil {
					return err
				}
			}

			return a.emit(cmd, sum, func(w io.Writer) {
				heading(w, "Ingest")
				if len(sum.Files) == 0 {
					fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("  no uploads found in %s", args[0])))
					return
				}
				for _, f := range sum.Files {
					fmt.Fprintf(w, "  %s\n", f)
				}
				fmt.Fprintf(w, "companies: %d read, %d stored\n", sum.Companies, sum.TotalCompanies)
				fmt.Fprintf(w, "assets:    %d read, %d stored\n", sum.Assets, sum.TotalAssets)
			})
		},
	}
	cmd.Flags().BoolVar(&noRebuild, "no-rebuild", false, "Leave the graph snapshot untouched")
	addInfluenceFlags(cmd.Flags(), config.Defaults())
	return cmd
}

func newGenerateCmd(a *app) *cobra.Command {
	opts := analysis.DefaultGenerateOptions()
	var dir, prefix string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic set of company and asset uploads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			companies, assets, err := analysis.Generate(opts)
			if err != nil {
				return err
			}
			companyPath, assetPath, err := analysis.WriteUploads(dir, prefix, companies, assets)
			if err != nil {
				return err
			}

			out := struct {
				Companies     int    `json:"companies"`
				Assets        int    `json:"assets"`
				CompaniesFile string `json:"companies_file"`
				AssetsFile    string `json:"assets_file"`
			}{len(companies), len(assets), companyPath, assetPath}
			return a.emit(cmd, out, func(w io.Writer) {
				heading(w, "Generated uploads")
				fmt.Fprintf(w, "  %-4d companies  %s\n", out.Companies, out.CompaniesFile)
				fmt.Fprintf(w, "  %-4d assets     %s\n", out.Assets, out.AssetsFile)
			})
		},
	}

	fs := cmd.Flags()
	fs.IntVar(&opts.Companies, "count", opts.Companies, "Number of companies")
	fs.IntVar(&opts.Assets, "asset-count", opts.Assets, "Number of assets")
	fs.Uint64Var(&opts.Seed, "seed", opts.Seed, "Random seed")
	fs.StringVar(&dir, "out", "uploads", "Directory to write the CSV files to")
	fs.StringVar(&prefix, "prefix", "synthetic", "File name prefix")
	return cmd
}

type companyScore struct {
	CompanyID string  `json:"company_id"`
	Sector    string  `json:"sector,omitempty"`
	Regulated bool    `json:"regulated"`
	Economic  float64 `json:"economic"`
	Societal  float64 `json:"societal"`
	Total     float64 `json:"total"`
}

func newScoreCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "score",
		Short: "List company criticality scores, highest total first",
		Long: `List each company's economic, societal and total criticality. Scores
missing from CSV uploads are computed from the disclosed business figures.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.pipeline(cmd)
			if err != nil {
				return err
			}
			companies, _, err := p.LoadRecords(cmd.Context())
			if err != nil {
				return err
			}

			scores := make([]companyScore, 0, len(companies))
			for _, c := range companies {
				scores = append(scores, scoreOf(c))
			}
			slices.SortFunc(scores, func(x, y companyScore) int {
				if c := cmp.Compare(y.Total, x.Total); c != 0 {
					return c
				}
				return cmp.Compare(x.CompanyID, y.CompanyID)
			})
			if limit > 0 && len(scores) > limit {
				scores = scores[:limit]
			}

			return a.emit(cmd, scores, func(w io.Writer) {
				heading(w, "Criticality")
				fmt.Fprintf(w, "  %-20s %9s %9s %9s  %s\n", "company", "economic", "societal", "total", "sector")
				for _, s := range scores {
					sector := s.Sector
					if s.Regulated {
						sector += " (regulated)"
					}
					fmt.Fprintf(w, "  %-20s %9.2f %9.2f %9.2f  %s\n", s.CompanyID, s.Economic, s.Societal, s.Total, sector)
				}
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Companies to list (0 = all)")
	return cmd
}

func scoreOf(c records.Company) companyScore {
	return companyScore{
		CompanyID: c.CompanyID,
		Sector:    c.SectorName,
		Regulated: c.RegulatedSector,
		Economic:  c.EconomicScore,
		Societal:  c.SocietalScore,
		Total:     c.TotalScore,
	}
}
