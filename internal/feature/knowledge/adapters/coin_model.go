package adapters

import (
	"time"

	"cryptobuddy/internal/feature/knowledge/domain/entity"
)

// CoinModel is the gorm table backing the knowledge base.
type CoinModel struct {
	ID                  uint   `gorm:"primaryKey"`
	Slug                string `gorm:"size:64;not null;uniqueIndex"`
	Symbol              string `gorm:"size:20;not null;uniqueIndex"`
	Name                string `gorm:"size:100;not null"`
	ProviderID          string `gorm:"size:100;not null"`
	Founder             string `gorm:"size:255"`
	LaunchYear          int
	EnergyUse           string    `gorm:"size:20;not null"`
	SustainabilityScore int       `gorm:"not null;default:0"`
	Risk                string    `gorm:"size:20;not null"`
	Description         string    `gorm:"type:text"`
	Consensus           string    `gorm:"size:100"`
	Icon                string    `gorm:"size:16"`
	SortKey             int       `gorm:"not null;default:0;index"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime"`
}

// TableName pins the table name independent of gorm's naming strategy.
func (CoinModel) TableName() string { return "coins" }

func (m CoinModel) toEntity() entity.Coin {
	return entity.Coin{
		ID:                  m.Slug,
		Symbol:              m.Symbol,
		Name:                m.Name,
		ProviderID:          m.ProviderID,
		Founder:             m.Founder,
		LaunchYear:          m.LaunchYear,
		EnergyUse:           entity.EnergyTier(m.EnergyUse),
		SustainabilityScore: m.SustainabilityScore,
		Risk:                entity.RiskTier(m.Risk),
		Description:         m.Description,
		Consensus:           m.Consensus,
		Icon:                m.Icon,
	}
}

func fromEntity(c entity.Coin, sortKey int) CoinModel {
	return CoinModel{
		Slug:                c.ID,
		Symbol:              c.Symbol,
		Name:                c.Name,
		ProviderID:          c.ProviderID,
		Founder:             c.Founder,
		LaunchYear:          c.LaunchYear,
		EnergyUse:           string(c.EnergyUse),
		SustainabilityScore: c.SustainabilityScore,
		Risk:                string(c.Risk),
		Description:         c.Description,
		Consensus:           c.Consensus,
		Icon:                c.Icon,
		SortKey:             sortKey,
	}
}
