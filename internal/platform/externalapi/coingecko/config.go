// Package coingecko provides a client for the CoinGecko v3 market data API.
package coingecko

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

const (
	defaultBaseURL       = "https://api.coingecko.com/api/v3"
	defaultTimeout       = 10 * time.Second
	defaultRatePerMinute = 30
	defaultVsCurrency    = "usd"

	// apiKeyHeader carries the demo-plan key when one is configured.
	apiKeyHeader = "x-cg-demo-api-key"
)

// Config holds configuration for the CoinGecko API client.
type Config struct {
	BaseURL       string        // e.g. "https://api.coingecko.com/api/v3"
	APIKey        string        // optional; sent as x-cg-demo-api-key
	Timeout       time.Duration // whole-request timeout
	RatePerMinute int           // provider calls allowed per minute; <= 0 disables limiting
	VsCurrency    string        // quote currency for detail prices
}

// LoadConfig loads CoinGecko configuration from environment variables.
func LoadConfig() Config {
	cfg := Config{
		BaseURL:       os.Getenv("COINGECKO_BASE_URL"),
		APIKey:        os.Getenv("COINGECKO_API_KEY"),
		Timeout:       defaultTimeout,
		RatePerMinute: defaultRatePerMinute,
		VsCurrency:    os.Getenv("MARKET_VS_CURRENCY"),
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.VsCurrency == "" {
		cfg.VsCurrency = defaultVsCurrency
	}
	if v := os.Getenv("COINGECKO_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			slog.Warn("invalid COINGECKO_TIMEOUT, using default", "value", v, "default", defaultTimeout)
		} else {
			cfg.Timeout = d
		}
	}
	if v := os.Getenv("COINGECKO_RATE_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid COINGECKO_RATE_PER_MINUTE, using default", "value", v, "default", defaultRatePerMinute)
		} else {
			cfg.RatePerMinute = n
		}
	}
	return cfg
}
