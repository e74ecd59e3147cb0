// Package seed embeds the reference coin table shipped with the binary.
package seed

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"cryptobuddy/internal/feature/knowledge/domain/entity"
)

//go:embed coins.yaml
var coinsYAML []byte

type coinDoc struct {
	ID                  string `yaml:"id"`
	Symbol              string `yaml:"symbol"`
	Name                string `yaml:"name"`
	ProviderID          string `yaml:"provider_id"`
	Founder             string `yaml:"founder"`
	LaunchYear          int    `yaml:"launch_year"`
	EnergyUse           string `yaml:"energy_use"`
	SustainabilityScore int    `yaml:"sustainability_score"`
	Risk                string `yaml:"risk"`
	Description         string `yaml:"description"`
	Consensus           string `yaml:"consensus"`
	Icon                string `yaml:"icon"`
}

type fileDoc struct {
	Coins []coinDoc `yaml:"coins"`
}

// Coins returns the embedded coin table in file order.
func Coins() ([]entity.Coin, error) {
	return Parse(coinsYAML)
}

// Parse decodes a coin table document.
func Parse(data []byte) ([]entity.Coin, error) {
	var doc fileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse coin table: %w", err)
	}
	out := make([]entity.Coin, 0, len(doc.Coins))
	for _, c := range doc.Coins {
		out = append(out, entity.Coin{
			ID:                  c.ID,
			Symbol:              c.Symbol,
			Name:                c.Name,
			ProviderID:          c.ProviderID,
			Founder:             c.Founder,
			LaunchYear:          c.LaunchYear,
			EnergyUse:           entity.EnergyTier(c.EnergyUse),
			SustainabilityScore: c.SustainabilityScore,
			Risk:                entity.RiskTier(c.Risk),
			Description:         c.Description,
			Consensus:           c.Consensus,
			Icon:                c.Icon,
		})
	}
	return out, nil
}
