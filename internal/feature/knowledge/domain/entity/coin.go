// Package entity defines the domain models for the knowledge feature.
package entity

import "strings"

// EnergyTier classifies how much energy a coin's consensus consumes.
type EnergyTier string

const (
	EnergyVeryLow  EnergyTier = "very_low"
	EnergyLow      EnergyTier = "low"
	EnergyMedium   EnergyTier = "medium"
	EnergyHigh     EnergyTier = "high"
	EnergyVeryHigh EnergyTier = "very_high"
)

// Valid reports whether e is one of the known tiers.
func (e EnergyTier) Valid() bool {
	switch e {
	case EnergyVeryLow, EnergyLow, EnergyMedium, EnergyHigh, EnergyVeryHigh:
		return true
	}
	return false
}

// Title renders the tier for display, e.g. "very_low" -> "Very Low".
func (e EnergyTier) Title() string { return titleize(string(e)) }

// RiskTier classifies the investment risk of a coin.
type RiskTier string

const (
	RiskLow      RiskTier = "low"
	RiskMedium   RiskTier = "medium"
	RiskHigh     RiskTier = "high"
	RiskVeryHigh RiskTier = "very_high"
)

// Valid reports whether r is one of the known tiers.
func (r RiskTier) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh, RiskVeryHigh:
		return true
	}
	return false
}

// Title renders the tier for display, e.g. "very_high" -> "Very High".
func (r RiskTier) Title() string { return titleize(string(r)) }

// MaxSustainabilityScore is the upper bound of Coin.SustainabilityScore.
const MaxSustainabilityScore = 10

// Coin is the static reference record of a cryptocurrency.
// Records are loaded once at startup and never mutated afterwards.
type Coin struct {
	ID                  string     // canonical key, e.g. "bitcoin"
	Symbol              string     // ticker, e.g. "BTC"
	Name                string     // display name, e.g. "Bitcoin"
	ProviderID          string     // market data provider id, e.g. "matic-network"
	Founder             string
	LaunchYear          int
	EnergyUse           EnergyTier
	SustainabilityScore int // 0..10
	Risk                RiskTier
	Description         string
	Consensus           string
	Icon                string
}

func titleize(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
