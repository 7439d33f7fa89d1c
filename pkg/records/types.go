// Package records defines the company and asset disclosures the graph is
// built from, and reads them from CSV uploads and the JSON databases.
package records

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/scoring"
)

// SectorCode is an industry classification code. The databases store it as a
// number or a string depending on who wrote them; both decode.
type SectorCode string

// UnmarshalJSON accepts a JSON string, number or null.
func (c *SectorCode) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = SectorCode(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = SectorCode(n.String())
	return nil
}

// Company is one company disclosure together with its computed criticality.
type Company struct {
	CompanyID   string     `json:"company_id" validate:"required"`
	CompanyName string     `json:"company_name,omitempty"`
	SectorID    SectorCode `json:"sector_id,omitempty"`
	SectorName  string     `json:"sector_name,omitempty"`

	EmployeeCount             float64 `json:"employee_count"`
	Revenue                   float64 `json:"revenue"`
	MarketCap                 float64 `json:"market_cap"`
	TotalAssets               float64 `json:"total_assets"`
	BusinessClients           float64 `json:"num_business_clients"`
	CriticalSectorClients     float64 `json:"num_critical_sector_clients"`
	CriticalServiceCustomers  float64 `json:"num_customers_in_critical_services"`
	HealthcareClientsAffected float64 `json:"healthcare_clients_affected"`
	EssentialServiceClients   float64 `json:"essential_service_clients_count"`
	Suppliers                 float64 `json:"num_suppliers"`
	MarketShare               float64 `json:"market_share"`
	RegulatedSector           bool    `json:"regulated_sector_flag"`

	EconomicScore float64 `json:"economic_criticality_score" validate:"finite,gte=0"`
	SocietalScore float64 `json:"societal_criticality_score" validate:"finite,gte=0"`
	TotalScore    float64 `json:"total_criticality_score"`

	Timestamp string `json:"timestamp,omitempty"`
}

// EconomicProfile returns the fields the economic score is computed from.
func (c *Company) EconomicProfile() scoring.EconomicProfile {
	return scoring.EconomicProfile{
		Revenue:               c.Revenue,
		MarketCap:             c.MarketCap,
		TotalAssets:           c.TotalAssets,
		MarketShare:           c.MarketShare,
		BusinessClients:       c.BusinessClients,
		CriticalSectorClients: c.CriticalSectorClients,
		Suppliers:             c.Suppliers,
	}
}

// SocietalProfile returns the fields the societal score is computed from.
func (c *Company) SocietalProfile() scoring.SocietalProfile {
	return scoring.SocietalProfile{
		Employees:                 c.EmployeeCount,
		CriticalServiceCustomers:  c.CriticalServiceCustomers,
		HealthcareClientsAffected: c.HealthcareClientsAffected,
		EssentialServiceClients:   c.EssentialServiceClients,
		Regulated:                 c.RegulatedSector,
	}
}

// Score recomputes the regulated flag and all three criticality scores from
// the raw fields.
func (c *Company) Score(regulated scoring.SectorSet) {
	c.RegulatedSector = regulated.Contains(string(c.SectorID))
	c.EconomicScore = scoring.EconomicCriticality(c.EconomicProfile())
	c.SocietalScore = scoring.SocietalCriticality(c.SocietalProfile())
	c.TotalScore = scoring.TotalCriticality(c.EconomicScore, c.SocietalScore)
}

// Asset is one supplied hardware or software asset held by a company.
// CompanyID is the owner; SupplierID is the company it relies on.
type Asset struct {
	CompanyAssetID string `json:"company_asset_id"`
	AssetID        string `json:"asset_id"`
	AssetName      string `json:"asset_name,omitempty"`
	AssetType      string `json:"asset_type,omitempty"`
	CompanyID      string `json:"company_id" validate:"required"`
	SupplierID     string `json:"supplier_id" validate:"required"`
	PurchaseDate   string `json:"purchase_date,omitempty"`
	DeploymentDate string `json:"deployment_date,omitempty"`

	RevenueShare         float64 `json:"revenue_share"`
	CriticalServiceShare float64 `json:"critical_service_share"`
	ClientShare          float64 `json:"client_share"`
	CapacityShare        float64 `json:"capacity_share"`
	RedundancyLevel      float64 `json:"redundancy_level"`

	OperationalReliance float64 `json:"operational_reliance"`

	Timestamp string `json:"timestamp,omitempty"`
}

// RelianceMetrics returns the reported shares.
func (a *Asset) RelianceMetrics() scoring.RelianceMetrics {
	return scoring.RelianceMetrics{
		RevenueShare:         a.RevenueShare,
		CriticalServiceShare: a.CriticalServiceShare,
		ClientShare:          a.ClientShare,
		CapacityShare:        a.CapacityShare,
		RedundancyLevel:      a.RedundancyLevel,
	}
}

// AssignIDs derives AssetID and CompanyAssetID from supplier, name and owner.
func (a *Asset) AssignIDs() {
	a.AssetID = scoring.AssetID(a.SupplierID, a.AssetName)
	a.CompanyAssetID = scoring.CompanyAssetID(a.CompanyID, a.AssetID)
}

// Key identifies the asset for upserts. Records written before ids were
// assigned fall back to owner, supplier and name.
func (a *Asset) Key() string {
	if a.CompanyAssetID != "" {
		return a.CompanyAssetID
	}
	return a.CompanyID + "|" + a.SupplierID + "|" + strconv.Quote(a.AssetName)
}
