package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"cryptobuddy/internal/feature/knowledge/adapters/seed"
	"cryptobuddy/internal/feature/knowledge/domain/entity"
)

// setupTestDB prepares an in-memory SQLite database with the coins table.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection, otherwise every pooled connection gets its own empty database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, NewCoinRepository(db).Migrate(context.Background()), "failed to migrate table")
	return db
}

func testCoin(id, symbol string, score int) entity.Coin {
	return entity.Coin{
		ID:                  id,
		Symbol:              symbol,
		Name:                id,
		ProviderID:          id,
		EnergyUse:           entity.EnergyLow,
		SustainabilityScore: score,
		Risk:                entity.RiskMedium,
	}
}

func TestNewCoinRepository(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewCoinRepository(db)

	assert.NotNil(t, repo, "repository should not be nil")
	assert.NotNil(t, repo.db, "database connection should not be nil")
}

func TestCoinGorm_SeedAndListAll(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		seeds       [][]entity.Coin
		expectedIDs []string
	}{
		{
			name:        "empty table",
			seeds:       nil,
			expectedIDs: []string{},
		},
		{
			name: "keeps insertion order",
			seeds: [][]entity.Coin{{
				testCoin("zeta", "ZZZ", 1),
				testCoin("alpha", "AAA", 2),
				testCoin("mid", "MMM", 3),
			}},
			expectedIDs: []string{"zeta", "alpha", "mid"},
		},
		{
			name: "reseeding upserts instead of duplicating",
			seeds: [][]entity.Coin{
				{testCoin("one", "ONE", 1), testCoin("two", "TWO", 2)},
				{testCoin("two", "TWO", 9), testCoin("one", "ONE", 1)},
			},
			expectedIDs: []string{"two", "one"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := NewCoinRepository(setupTestDB(t))
			ctx := context.Background()
			for _, batch := range tt.seeds {
				require.NoError(t, repo.Seed(ctx, batch))
			}

			coins, err := repo.ListAll(ctx)
			require.NoError(t, err)

			ids := make([]string, 0, len(coins))
			for _, c := range coins {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.expectedIDs, ids)
		})
	}
}

func TestCoinGorm_RoundTripsEmbeddedTable(t *testing.T) {
	t.Parallel()

	coins, err := seed.Coins()
	require.NoError(t, err)

	repo := NewCoinRepository(setupTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Seed(ctx, coins))

	got, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, coins, got)
}
