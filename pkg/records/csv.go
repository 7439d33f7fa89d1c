package records

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/scoring"
)

// CSVOptions controls how disclosure uploads are turned into records.
type CSVOptions struct {
	// RegulatedSectors receive the societal regulated-sector bonus.
	RegulatedSectors scoring.SectorSet
	// SectorNames maps sector codes to display titles.
	SectorNames map[string]string
	// RelianceWeights are used when an asset row carries no
	// operational_reliance column.
	RelianceWeights scoring.RelianceWeights
	// Now stamps each record; defaults to time.Now.
	Now func() time.Time
}

// DefaultCSVOptions returns options with the default reliance weights.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{RelianceWeights: scoring.DefaultRelianceWeights()}
}

func (o CSVOptions) stamp() string {
	now := time.Now
	if o.Now != nil {
		now = o.Now
	}
	return now().UTC().Format(time.RFC3339)
}

// Score columns. When both company score columns are present the disclosed
// values are kept; otherwise they are computed from the raw fields.
const (
	colEconomicScore = "economic_criticality_score"
	colSocietalScore = "societal_criticality_score"
	colReliance      = "operational_reliance"
)

// ReadCompaniesCSV parses a company disclosure upload. Columns are matched by
// header name; unknown columns are ignored and missing numeric columns read
// as zero.
func ReadCompaniesCSV(r io.Reader, opts CSVOptions) ([]Company, error) {
	rows, err := newRowReader(r)
	if err != nil {
		return nil, fmt.Errorf("read company csv: %w", err)
	}

	disclosedScores := rows.has(colEconomicScore) && rows.has(colSocietalScore)
	stamp := opts.stamp()

	var companies []Company
	for i := 0; ; i++ {
		if err := rows.next(); err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("read company csv: %w", err)
		}

		c := Company{
			CompanyID:   rows.str("company_id"),
			CompanyName: rows.str("company_name"),
			SectorID:    SectorCode(rows.str("sector_id")),
			Timestamp:   stamp,
		}
		c.SectorName = opts.SectorNames[string(c.SectorID)]

		fields := []column{
			{"employee_count", &c.EmployeeCount},
			{"revenue", &c.Revenue},
			{"market_cap", &c.MarketCap},
			{"total_assets", &c.TotalAssets},
			{"num_business_clients", &c.BusinessClients},
			{"num_critical_sector_clients", &c.CriticalSectorClients},
			{"num_customers_in_critical_services", &c.CriticalServiceCustomers},
			{"healthcare_clients_affected", &c.HealthcareClientsAffected},
			{"essential_service_clients_count", &c.EssentialServiceClients},
			{"num_suppliers", &c.Suppliers},
			{"market_share", &c.MarketShare},
		}
		if disclosedScores {
			fields = append(fields,
				column{colEconomicScore, &c.EconomicScore},
				column{colSocietalScore, &c.SocietalScore},
			)
		}
		for _, f := range fields {
			v, err := rows.float(f.col)
			if err != nil {
				return nil, Malformed("company", i, c.CompanyID, f.col, err)
			}
			*f.dst = v
		}

		if disclosedScores {
			c.RegulatedSector = opts.RegulatedSectors.Contains(string(c.SectorID))
			c.TotalScore = scoring.TotalCriticality(c.EconomicScore, c.SocietalScore)
		} else {
			c.Score(opts.RegulatedSectors)
		}
		companies = append(companies, c)
	}
	return companies, nil
}

// ReadAssetsCSV parses an asset disclosure upload. Asset ids are always
// derived from supplier, name and owner. Operational reliance is computed
// from the reported shares unless the row discloses it directly.
func ReadAssetsCSV(r io.Reader, opts CSVOptions) ([]Asset, error) {
	rows, err := newRowReader(r)
	if err != nil {
		return nil, fmt.Errorf("read asset csv: %w", err)
	}

	weights := opts.RelianceWeights
	if weights == (scoring.RelianceWeights{}) {
		weights = scoring.DefaultRelianceWeights()
	}
	stamp := opts.stamp()

	var assets []Asset
	for i := 0; ; i++ {
		if err := rows.next(); err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("read asset csv: %w", err)
		}

		a := Asset{
			CompanyID:      rows.str("company_id"),
			SupplierID:     rows.str("supplier_id"),
			AssetName:      rows.str("asset_name"),
			AssetType:      rows.str("asset_type"),
			PurchaseDate:   rows.str("purchase_date"),
			DeploymentDate: rows.str("deployment_date"),
			Timestamp:      stamp,
		}
		a.AssignIDs()

		for _, f := range []column{
			{"revenue_share", &a.RevenueShare},
			{"critical_service_share", &a.CriticalServiceShare},
			{"client_share", &a.ClientShare},
			{"capacity_share", &a.CapacityShare},
			{"redundancy_level", &a.RedundancyLevel},
		} {
			v, err := rows.float(f.col)
			if err != nil {
				return nil, Malformed("asset", i, a.CompanyAssetID, f.col, err)
			}
			*f.dst = v
		}

		if rows.str(colReliance) != "" {
			v, err := rows.float(colReliance)
			if err != nil {
				return nil, Malformed("asset", i, a.CompanyAssetID, colReliance, err)
			}
			a.OperationalReliance = v
		} else {
			a.OperationalReliance = scoring.OperationalReliance(a.RelianceMetrics(), weights)
		}
		assets = append(assets, a)
	}
	return assets, nil
}

// column binds a CSV header to the numeric field it fills.
type column struct {
	col string
	dst *float64
}

// rowReader reads a headed CSV stream one record at a time.
type rowReader struct {
	r      *csv.Reader
	header map[string]int
	row    []string
}

func newRowReader(r io.Reader) (*rowReader, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	head, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("missing header row")
	}
	if err != nil {
		return nil, err
	}

	header := make(map[string]int, len(head))
	for i, name := range head {
		// Spreadsheet exports sometimes prefix a UTF-8 BOM.
		name = strings.TrimPrefix(name, "\ufeff")
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return &rowReader{r: cr, header: header}, nil
}

func (rr *rowReader) next() error {
	row, err := rr.r.Read()
	if err != nil {
		return err
	}
	rr.row = row
	return nil
}

func (rr *rowReader) has(col string) bool {
	_, ok := rr.header[col]
	return ok
}

func (rr *rowReader) str(col string) string {
	i, ok := rr.header[col]
	if !ok || i >= len(rr.row) {
		return ""
	}
	return strings.TrimSpace(rr.row[i])
}

func (rr *rowReader) float(col string) (float64, error) {
	s := rr.str(col)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
