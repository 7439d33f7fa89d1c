package analysis

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/records"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/validation"
)

// GenerateOptions sizes a synthetic disclosure set.
type GenerateOptions struct {
	Companies int
	Assets    int
	Seed      uint64
	Now       time.Time // Reference date for purchase and deployment dates
}

// DefaultGenerateOptions returns a 20 company, 60 asset data set.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{Companies: 20, Assets: 60, Seed: 42}
}

// Validate checks the sizes.
func (o GenerateOptions) Validate() error {
	return validation.NewConfigValidator("GenerateOptions").
		MinInt("Companies", o.Companies, 2).
		NonNegative("Assets", o.Assets).
		Validate()
}

var (
	namePrefixes = []string{"Northwind", "Bluegate", "Helix", "Ironbridge", "Lumen", "Meridian", "Nimbus", "Quarry", "Redwood", "Solace", "Tidal", "Vantage"}
	nameSuffixes = []string{"Systems", "Networks", "Logistics", "Holdings", "Energy", "Health", "Data", "Telecom"}
	assetWords   = []string{"Router", "Ledger", "Vault", "Beacon", "Relay", "Switch", "Gateway", "Console", "Sensor", "Cluster"}
	assetMarks   = []string{"A", "X", "Pro", "Plus", "Edge"}
	assetTypes   = []string{"Hardware", "Software"}
)

// Generate returns a reproducible set of raw company and asset uploads.
// Company ids run COMP001, COMP002, ...; every asset is supplied by another
// generated company so the result always builds into a connected network of
// known nodes. Scores and ids are left for the CSV readers to compute.
func Generate(opts GenerateOptions) ([]records.Company, []records.Asset, error) {
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))

	companies := make([]records.Company, opts.Companies)
	for i := range companies {
		revenue := round2(uniform(rng, 5e6, 5e9))
		companies[i] = records.Company{
			CompanyID:                 fmt.Sprintf("COMP%03d", i+1),
			CompanyName:               pick(rng, namePrefixes) + " " + pick(rng, nameSuffixes),
			SectorID:                  records.SectorCode(strconv.Itoa(intRange(rng, 100, 999))),
			EmployeeCount:             float64(intRange(rng, 100, 10000)),
			Revenue:                   revenue,
			MarketCap:                 round2(revenue * uniform(rng, 2, 5)),
			TotalAssets:               round2(revenue * uniform(rng, 1, 3)),
			BusinessClients:           float64(intRange(rng, 10, 1000)),
			CriticalSectorClients:     float64(intRange(rng, 0, 200)),
			CriticalServiceCustomers:  float64(intRange(rng, 100, 100000)),
			HealthcareClientsAffected: float64(intRange(rng, 0, 100)),
			EssentialServiceClients:   float64(intRange(rng, 0, 500)),
			Suppliers:                 float64(intRange(rng, 5, 50)),
			MarketShare:               round2(uniform(rng, 0.01, 0.25)),
		}
	}

	assets := make([]records.Asset, opts.Assets)
	for i := range assets {
		owner := rng.IntN(len(companies))
		supplier := rng.IntN(len(companies) - 1)
		if supplier >= owner {
			supplier++
		}

		purchased := now.AddDate(-3, 0, 0).Add(time.Duration(rng.Int64N(int64(2 * 365 * 24 * time.Hour))))
		deployed := purchased.Add(time.Duration(rng.Int64N(int64(now.Sub(purchased)) + 1)))

		assets[i] = records.Asset{
			CompanyID:            companies[owner].CompanyID,
			SupplierID:           companies[supplier].CompanyID,
			AssetName:            pick(rng, assetWords) + "_" + pick(rng, assetMarks),
			AssetType:            pick(rng, assetTypes),
			PurchaseDate:         purchased.Format(time.DateOnly),
			DeploymentDate:       deployed.Format(time.DateOnly),
			RevenueShare:         round2(uniform(rng, 0.05, 0.3)),
			CriticalServiceShare: round2(uniform(rng, 0.1, 0.5)),
			ClientShare:          round2(uniform(rng, 0.05, 0.4)),
			CapacityShare:        round2(uniform(rng, 0.05, 0.4)),
			RedundancyLevel:      round2(uniform(rng, 0, 1)),
		}
	}
	return companies, assets, nil
}

func uniform(rng *rand.Rand, lo, hi float64) float64 { return lo + rng.Float64()*(hi-lo) }

func intRange(rng *rand.Rand, lo, hi int) int { return lo + rng.IntN(hi-lo+1) }

func pick(rng *rand.Rand, words []string) string { return words[rng.IntN(len(words))] }

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// Upload CSV headers, in the column order the uploads use.
var (
	CompanyUploadHeader = []string{
		"company_id", "company_name", "sector_id", "employee_count", "revenue", "market_cap",
		"total_assets", "num_business_clients", "num_critical_sector_clients",
		"num_customers_in_critical_services", "healthcare_clients_affected",
		"essential_service_clients_count", "num_suppliers", "market_share",
	}
	AssetUploadHeader = []string{
		"company_id", "supplier_id", "asset_name", "asset_type", "purchase_date", "deployment_date",
		"revenue_share", "critical_service_share", "client_share", "capacity_share", "redundancy_level",
	}
)

// WriteUploads writes companies and assets as <prefix>_company_data.csv and
// <prefix>_asset_data.csv in dir, ready for Ingest. It returns both paths.
func WriteUploads(dir, prefix string, companies []records.Company, assets []records.Asset) (string, string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", err
	}
	if prefix != "" {
		prefix += "_"
	}
	companyPath := filepath.Join(dir, prefix+CompanyUploadSuffix)
	assetPath := filepath.Join(dir, prefix+AssetUploadSuffix)

	companyRows := make([][]string, 0, len(companies))
	for _, c := range companies {
		companyRows = append(companyRows, []string{
			c.CompanyID, c.CompanyName, string(c.SectorID),
			num(c.EmployeeCount), num(c.Revenue), num(c.MarketCap), num(c.TotalAssets),
			num(c.BusinessClients), num(c.CriticalSectorClients), num(c.CriticalServiceCustomers),
			num(c.HealthcareClientsAffected), num(c.EssentialServiceClients),
			num(c.Suppliers), num(c.MarketShare),
		})
	}
	if err := writeCSV(companyPath, CompanyUploadHeader, companyRows); err != nil {
		return "", "", err
	}

	assetRows := make([][]string, 0, len(assets))
	for _, a := range assets {
		assetRows = append(assetRows, []string{
			a.CompanyID, a.SupplierID, a.AssetName, a.AssetType, a.PurchaseDate, a.DeploymentDate,
			num(a.RevenueShare), num(a.CriticalServiceShare), num(a.ClientShare),
			num(a.CapacityShare), num(a.RedundancyLevel),
		})
	}
	if err := writeCSV(assetPath, AssetUploadHeader, assetRows); err != nil {
		return "", "", err
	}
	return companyPath, assetPath, nil
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
