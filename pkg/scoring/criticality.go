// Package scoring computes the per-entity input scores consumed by the graph
// builder: economic and societal criticality for companies and operational
// reliance for supplied assets.
package scoring

import (
	"math"
)

// EconomicShare and SocietalShare split total criticality between its two
// components. The influence engine seeds its intrinsic weights with the same
// split, so both layers must read these constants.
const (
	EconomicShare = 0.45
	SocietalShare = 0.55
)

// RegulatedSectorBonus multiplies the societal score of companies operating
// in a regulated sector.
const RegulatedSectorBonus = 1.5

// Criticality component weights.
const (
	weightRevenue                 = 0.30
	weightMarketCap               = 0.20
	weightTotalAssets             = 0.10
	weightMarketShare             = 0.15
	weightBusinessClients         = 0.10
	weightCriticalSectorClients   = 0.10
	weightSuppliers               = 0.05
	weightEmployees               = 0.25
	weightCriticalServiceCustomer = 0.25
	weightHealthcareClients       = 0.25
	weightEssentialServiceClients = 0.15
)

// EconomicProfile holds the financial and exposure fields of a company.
type EconomicProfile struct {
	Revenue               float64
	MarketCap             float64
	TotalAssets           float64
	MarketShare           float64 // fraction, 0.12 means 12%
	BusinessClients       float64
	CriticalSectorClients float64
	Suppliers             float64
}

// SocietalProfile holds the human and service impact fields of a company.
type SocietalProfile struct {
	Employees                 float64
	CriticalServiceCustomers  float64
	HealthcareClientsAffected float64
	EssentialServiceClients   float64
	Regulated                 bool
}

// EconomicCriticality scores size, exposure and market position. Count and
// money fields enter under a square root so the largest firms do not drown
// out everyone else.
func EconomicCriticality(p EconomicProfile) float64 {
	score := weightRevenue*root(p.Revenue) +
		weightMarketCap*root(p.MarketCap) +
		weightTotalAssets*root(p.TotalAssets) +
		weightMarketShare*(nonNegative(p.MarketShare)*100) +
		weightBusinessClients*root(p.BusinessClients) +
		weightCriticalSectorClients*root(p.CriticalSectorClients) +
		weightSuppliers*root(p.Suppliers)
	return Round2(score)
}

// SocietalCriticality scores the human and essential-service impact of a
// company's failure.
func SocietalCriticality(p SocietalProfile) float64 {
	score := weightEmployees*root(p.Employees) +
		weightCriticalServiceCustomer*root(p.CriticalServiceCustomers) +
		weightHealthcareClients*root(p.HealthcareClientsAffected) +
		weightEssentialServiceClients*root(p.EssentialServiceClients)
	if p.Regulated {
		score *= RegulatedSectorBonus
	}
	return Round2(score)
}

// Blend combines economic and societal criticality without rounding.
func Blend(economic, societal float64) float64 {
	return EconomicShare*economic + SocietalShare*societal
}

// TotalCriticality is the rounded Blend reported alongside company records.
func TotalCriticality(economic, societal float64) float64 {
	return Round2(Blend(economic, societal))
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func root(v float64) float64 {
	return math.Sqrt(nonNegative(v))
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}

// SectorSet is a set of sector codes treated as regulated.
type SectorSet map[string]struct{}

// NewSectorSet builds a SectorSet from sector codes.
func NewSectorSet(codes ...string) SectorSet {
	s := make(SectorSet, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}
	return s
}

// Contains reports whether code is regulated. A nil set regulates nothing.
func (s SectorSet) Contains(code string) bool {
	_, ok := s[code]
	return ok
}
