// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"log/slog"
	"os"
	"time"

	marketusecase "cryptobuddy/internal/feature/market/usecase"
	"cryptobuddy/internal/platform/cache"
	"cryptobuddy/internal/platform/externalapi/coingecko"
	infrahttp "cryptobuddy/internal/platform/http"
	infraredis "cryptobuddy/internal/platform/redis"
	"cryptobuddy/internal/shared/ratelimiter"
)

// CacheTTL reads CACHE_TTL, falling back to the market client's freshness window.
func CacheTTL() time.Duration {
	raw := os.Getenv("CACHE_TTL")
	if raw == "" {
		return marketusecase.DefaultFreshness
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		slog.Warn("invalid CACHE_TTL, using default", "value", raw, "default", marketusecase.DefaultFreshness)
		return marketusecase.DefaultFreshness
	}
	return d
}

// NewCacheStore returns a Redis-backed store when Redis is configured and reachable.
// Otherwise it falls back to an in-process map. The returned func releases the store.
func NewCacheStore(ctx context.Context, cfg infraredis.Config, ttl time.Duration) (marketusecase.CacheStore, func()) {
	if !cfg.Enabled() {
		return cache.NewMemoryStore(), func() {}
	}
	rdb, err := infraredis.NewRedisClient(ctx, cfg)
	if err != nil {
		slog.Warn("Redis unavailable, using in-memory cache", "addr", cfg.Addr(), "error", err)
		return cache.NewMemoryStore(), func() {}
	}
	closeFn := func() {
		if err := rdb.Close(); err != nil {
			slog.Error("failed to close Redis client", "error", err)
		}
	}
	// entries outlive the freshness window so stale data is evicted by Redis, not by us
	return cache.NewRedisStore(rdb, 2*ttl, "market"), closeFn
}

// NewMarket creates a CoinGecko-backed MarketClient with rate limiting and caching.
func NewMarket(ctx context.Context) (*marketusecase.MarketClient, func()) {
	cfg := coingecko.LoadConfig()
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	limiter := ratelimiter.NewRateLimiter(cfg.RatePerMinute, time.Minute)
	repo := coingecko.NewCoinGeckoMarket(cfg, httpClient, limiter)

	ttl := CacheTTL()
	store, closeFn := NewCacheStore(ctx, infraredis.LoadConfig(), ttl)
	client := marketusecase.NewMarketClient(repo, store,
		marketusecase.WithFreshness(ttl),
		marketusecase.WithCurrency(cfg.VsCurrency),
	)
	return client, closeFn
}
