// Package db opens the gorm database that holds the coin knowledge table.
package db

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	defaultDSN = "file:cryptobuddy?mode=memory&cache=shared"
)

// Config selects the database backend.
type Config struct {
	Driver         string        // "sqlite" (default) or "postgres"
	DSN            string        // driver-specific data source name
	ConnectTimeout time.Duration // total time allowed for connection retries
}

// LoadConfig reads KNOWLEDGE_DB_DRIVER and KNOWLEDGE_DB_DSN.
func LoadConfig() Config {
	cfg := Config{
		Driver:         strings.ToLower(os.Getenv("KNOWLEDGE_DB_DRIVER")),
		DSN:            os.Getenv("KNOWLEDGE_DB_DSN"),
		ConnectTimeout: 30 * time.Second,
	}
	if cfg.Driver == "" {
		cfg.Driver = DriverSQLite
	}
	if cfg.DSN == "" && cfg.Driver == DriverSQLite {
		cfg.DSN = defaultDSN
	}
	return cfg
}

// Dialector returns the gorm dialector for cfg.
func Dialector(cfg Config) (gorm.Dialector, error) {
	switch cfg.Driver {
	case DriverSQLite, "":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = defaultDSN
		}
		return sqlite.Open(dsn), nil
	case DriverPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("postgres requires KNOWLEDGE_DB_DSN")
		}
		return postgres.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// OpenDB connects to the configured database, retrying until cfg.ConnectTimeout elapses.
func OpenDB(cfg Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	db, err := ConnectWithRetry(cfg.ConnectTimeout, 3*time.Second, func() (*gorm.DB, error) {
		return gorm.Open(dialector, gcfg)
	})
	if err != nil {
		return nil, err
	}

	if cfg.Driver != DriverPostgres {
		// a shared in-memory sqlite database lives only as long as one connection stays open
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// ConnectWithRetry calls open until it succeeds or timeout elapses, sleeping interval between attempts.
func ConnectWithRetry(timeout, interval time.Duration, open func() (*gorm.DB, error)) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open()
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err, "interval", interval)
		time.Sleep(interval)
	}
}
