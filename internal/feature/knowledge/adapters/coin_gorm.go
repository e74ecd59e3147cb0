// Package adapters provides the repository implementation for the knowledge feature.
package adapters

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cryptobuddy/internal/feature/knowledge/domain/entity"
	"cryptobuddy/internal/feature/knowledge/usecase"
)

// coinGorm is the gorm implementation of usecase.CoinRepository.
type coinGorm struct {
	db *gorm.DB
}

var _ usecase.CoinRepository = (*coinGorm)(nil)

// NewCoinRepository creates a coin repository on db.
func NewCoinRepository(db *gorm.DB) *coinGorm {
	return &coinGorm{db: db}
}

// Migrate creates or updates the coins table.
func (r *coinGorm) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&CoinModel{})
}

// ListAll returns every coin ordered by sort_key, i.e. insertion order.
func (r *coinGorm) ListAll(ctx context.Context) ([]entity.Coin, error) {
	var rows []CoinModel
	if err := r.db.WithContext(ctx).
		Order("sort_key ASC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Coin, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toEntity())
	}
	return out, nil
}

// Seed upserts coins keyed by their canonical id; the slice order becomes the sort order.
func (r *coinGorm) Seed(ctx context.Context, coins []entity.Coin) error {
	if len(coins) == 0 {
		return nil
	}
	rows := make([]CoinModel, 0, len(coins))
	for i, c := range coins {
		rows = append(rows, fromEntity(c, i))
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"symbol", "name", "provider_id", "founder", "launch_year", "energy_use",
				"sustainability_score", "risk", "description", "consensus", "icon", "sort_key", "updated_at",
			}),
		}).
		Create(&rows).Error
	if err != nil {
		return fmt.Errorf("seed coins: %w", err)
	}
	return nil
}
