package di

import (
	"context"
	"fmt"
	"log/slog"

	"cryptobuddy/internal/feature/knowledge/adapters"
	"cryptobuddy/internal/feature/knowledge/adapters/seed"
	kbusecase "cryptobuddy/internal/feature/knowledge/usecase"
	infradb "cryptobuddy/internal/platform/db"
)

// NewKnowledgeBase opens the knowledge database, migrates it, upserts the embedded coin
// table and loads the result into memory. The database is closed before returning.
func NewKnowledgeBase(ctx context.Context, cfg infradb.Config) (*kbusecase.KnowledgeBase, error) {
	db, err := infradb.OpenDB(cfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("knowledge db handle: %w", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Warn("failed to close knowledge db", "error", err)
		}
	}()

	repo := adapters.NewCoinRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		return nil, err
	}
	coins, err := seed.Coins()
	if err != nil {
		return nil, err
	}
	if err := repo.Seed(ctx, coins); err != nil {
		return nil, err
	}

	kb, err := kbusecase.LoadKnowledgeBase(ctx, repo)
	if err != nil {
		return nil, err
	}
	slog.Debug("knowledge base loaded", "driver", cfg.Driver, "coins", kb.Len())
	return kb, nil
}
