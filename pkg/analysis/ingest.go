package analysis

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/logging"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/records"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/storage"
)

// Upload file name suffixes picked up by Ingest.
const (
	CompanyUploadSuffix = "company_data.csv"
	AssetUploadSuffix   = "asset_data.csv"
)

// IngestSummary reports what one Ingest call merged.
type IngestSummary struct {
	Files          []string `json:"files" yaml:"files"`
	Companies      int      `json:"companies" yaml:"companies"` // Records read from uploads
	Assets         int      `json:"assets" yaml:"assets"`
	TotalCompanies int      `json:"total_companies" yaml:"total_companies"` // Database sizes after merging
	TotalAssets    int      `json:"total_assets" yaml:"total_assets"`
}

// Ingest merges every *company_data.csv and *asset_data.csv upload in dir
// into the record databases. Uploads are applied in file name order, company
// files first, so a later upload replaces the same record from an earlier
// one. The databases are only written when every upload parsed.
func (p *Pipeline) Ingest(ctx context.Context, dir string) (*IngestSummary, error) {
	companyFiles, assetFiles, err := uploads(dir)
	if err != nil {
		return nil, err
	}

	opts, err := p.csvOptions()
	if err != nil {
		return nil, err
	}

	companies, assets, err := storage.LoadRecords(ctx, p.store)
	if err != nil {
		return nil, fmt.Errorf("load record databases: %w", err)
	}

	summary := &IngestSummary{Files: []string{}}
	for _, path := range companyFiles {
		incoming, err := readFile(path, func(f *os.File, _ bool) ([]records.Company, error) {
			return records.ReadCompaniesCSV(f, opts)
		})
		if err != nil {
			return nil, err
		}
		companies = records.MergeCompanies(companies, incoming)
		summary.Companies += len(incoming)
		summary.Files = append(summary.Files, path)
		p.log.Info("company upload merged", logging.Path(path), logging.Count(len(incoming)))
	}
	for _, path := range assetFiles {
		incoming, err := readFile(path, func(f *os.File, _ bool) ([]records.Asset, error) {
			return records.ReadAssetsCSV(f, opts)
		})
		if err != nil {
			return nil, err
		}
		assets = records.MergeAssets(assets, incoming)
		summary.Assets += len(incoming)
		summary.Files = append(summary.Files, path)
		p.log.Info("asset upload merged", logging.Path(path), logging.Count(len(incoming)))
	}

	if len(summary.Files) == 0 {
		p.log.Warn("no uploads found", logging.Path(dir))
		summary.TotalCompanies, summary.TotalAssets = len(companies), len(assets)
		return summary, nil
	}

	if err := storage.SaveRecords(ctx, p.store, companies, assets); err != nil {
		return nil, fmt.Errorf("save record databases: %w", err)
	}
	summary.TotalCompanies, summary.TotalAssets = len(companies), len(assets)
	return summary, nil
}

// uploads lists the company and asset uploads directly inside dir.
func uploads(dir string) (companies, assets []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("scan uploads: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := strings.ToLower(e.Name())
		switch {
		case strings.HasSuffix(name, CompanyUploadSuffix):
			companies = append(companies, filepath.Join(dir, e.Name()))
		case strings.HasSuffix(name, AssetUploadSuffix):
			assets = append(assets, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(companies)
	sort.Strings(assets)
	return companies, assets, nil
}
