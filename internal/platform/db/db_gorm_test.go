package db

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDialector(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		cfg          Config
		expectedName string
		wantErr      bool
	}{
		{"sqlite", Config{Driver: DriverSQLite, DSN: ":memory:"}, "sqlite", false},
		{"empty driver defaults to sqlite", Config{}, "sqlite", false},
		{"postgres", Config{Driver: DriverPostgres, DSN: "host=localhost user=x dbname=y"}, "postgres", false},
		{"postgres without dsn", Config{Driver: DriverPostgres}, "", true},
		{"unknown driver", Config{Driver: "mysql", DSN: "x"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d, err := Dialector(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedName, d.Name())
		})
	}
}

func TestOpenDB_SQLiteMemory(t *testing.T) {
	t.Parallel()

	db, err := OpenDB(Config{Driver: DriverSQLite, DSN: "file:opendb_test?mode=memory&cache=shared", ConnectTimeout: time.Second})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	assert.NoError(t, sqlDB.Ping())
}

func TestConnectWithRetry_SuccessOnFirstTry(t *testing.T) {
	t.Parallel()

	mockDB := &gorm.DB{}
	attempts := 0
	db, err := ConnectWithRetry(time.Second, time.Millisecond, func() (*gorm.DB, error) {
		attempts++
		return mockDB, nil
	})

	require.NoError(t, err)
	assert.Same(t, mockDB, db)
	assert.Equal(t, 1, attempts)
}

func TestConnectWithRetry_RetriesOnFailure(t *testing.T) {
	t.Parallel()

	mockDB := &gorm.DB{}
	attempts := 0
	db, err := ConnectWithRetry(time.Second, 5*time.Millisecond, func() (*gorm.DB, error) {
		attempts++
		if attempts < 3 {
			return nil, errors.New("connection refused")
		}
		return mockDB, nil
	})

	require.NoError(t, err)
	assert.Same(t, mockDB, db)
	assert.Equal(t, 3, attempts)
}

func TestConnectWithRetry_TimeoutAfterRetries(t *testing.T) {
	t.Parallel()

	errRefused := errors.New("connection refused")
	attempts := 0
	_, err := ConnectWithRetry(20*time.Millisecond, 5*time.Millisecond, func() (*gorm.DB, error) {
		attempts++
		return nil, errRefused
	})

	assert.ErrorIs(t, err, errRefused)
	assert.Greater(t, attempts, 1)
}

func TestLoadConfig(t *testing.T) {
	// Not parallel: modifies environment variables
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("KNOWLEDGE_DB_DRIVER", "")
		t.Setenv("KNOWLEDGE_DB_DSN", "")
		cfg := LoadConfig()
		assert.Equal(t, DriverSQLite, cfg.Driver)
		assert.Equal(t, defaultDSN, cfg.DSN)
	})

	t.Run("postgres from env", func(t *testing.T) {
		t.Setenv("KNOWLEDGE_DB_DRIVER", "Postgres")
		t.Setenv("KNOWLEDGE_DB_DSN", "host=db user=app")
		cfg := LoadConfig()
		assert.Equal(t, DriverPostgres, cfg.Driver)
		assert.Equal(t, "host=db user=app", cfg.DSN)
	})
}
