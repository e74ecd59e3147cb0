// Package usecase implements the cache-through market data client and its display helpers.
package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"cryptobuddy/internal/feature/market/domain/entity"
)

const (
	// DefaultFreshness is how long a cached provider response is served before refetching.
	DefaultFreshness = 300 * time.Second
	// DefaultCurrency is the quote currency used for prices and market caps.
	DefaultCurrency = "usd"
	// MinTopLimit and MaxTopLimit bound the size of the top-by-market-cap listing.
	MinTopLimit = 1
	MaxTopLimit = 20
)

// MarketRepository fetches live data from the external provider.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type MarketRepository interface {
	GetPrice(ctx context.Context, coinID, currency string) (entity.MarketSnapshot, error)
	GetTrending(ctx context.Context) ([]entity.TrendingCoin, error)
	GetTopMarkets(ctx context.Context, currency string, limit int) ([]entity.MarketEntry, error)
	GetCoinDetails(ctx context.Context, coinID string) (entity.CoinDetails, error)
}

// CacheEntry is a serialized provider response and the time it was fetched.
type CacheEntry struct {
	Value     []byte    `json:"value"`
	FetchedAt time.Time `json:"fetched_at"`
}

// CacheStore maps a request signature to its last successful response.
// Implementations must be safe for concurrent use.
type CacheStore interface {
	// Get returns the entry for key; ok is false on a miss or a store failure.
	Get(ctx context.Context, key string) (entry CacheEntry, ok bool)
	Set(ctx context.Context, key string, entry CacheEntry) error
	Len(ctx context.Context) int
}

// MarketClient serves provider data through a time-boxed cache.
// Every failure is reported as an error matching entity.ErrUnavailable; nothing is retried.
type MarketClient struct {
	repo      MarketRepository
	store     CacheStore
	freshness time.Duration
	currency  string
	now       func() time.Time
	group     singleflight.Group

	mu          sync.Mutex
	lastRefresh time.Time
	lastFailed  bool
}

// Option configures a MarketClient.
type Option func(*MarketClient)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *MarketClient) { c.now = now }
}

// WithFreshness sets the freshness window. Non-positive values keep the default.
func WithFreshness(d time.Duration) Option {
	return func(c *MarketClient) {
		if d > 0 {
			c.freshness = d
		}
	}
}

// WithCurrency sets the quote currency. Empty keeps the default.
func WithCurrency(currency string) Option {
	return func(c *MarketClient) {
		if currency != "" {
			c.currency = currency
		}
	}
}

// NewMarketClient creates a MarketClient reading through store.
func NewMarketClient(repo MarketRepository, store CacheStore, opts ...Option) *MarketClient {
	c := &MarketClient{
		repo:      repo,
		store:     store,
		freshness: DefaultFreshness,
		currency:  DefaultCurrency,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Currency returns the quote currency used by this client.
func (c *MarketClient) Currency() string { return c.currency }

// FetchPrice returns the live quote for a provider coin id.
func (c *MarketClient) FetchPrice(ctx context.Context, coinID string) (entity.MarketSnapshot, error) {
	key := "price:" + coinID + ":" + c.currency
	return cached(ctx, c, key, func(ctx context.Context) (entity.MarketSnapshot, error) {
		s, err := c.repo.GetPrice(ctx, coinID, c.currency)
		if err != nil {
			return s, err
		}
		if s.FetchedAt.IsZero() {
			s.FetchedAt = c.now()
		}
		return s, nil
	})
}

// FetchTrending returns the provider's trending coins in rank order.
func (c *MarketClient) FetchTrending(ctx context.Context) ([]entity.TrendingCoin, error) {
	return cached(ctx, c, "trending", c.repo.GetTrending)
}

// FetchTop returns the n largest coins by market cap; n is clamped to [MinTopLimit, MaxTopLimit].
func (c *MarketClient) FetchTop(ctx context.Context, n int) ([]entity.MarketEntry, error) {
	n = ClampTopLimit(n)
	key := "top:" + strconv.Itoa(n) + ":" + c.currency
	return cached(ctx, c, key, func(ctx context.Context) ([]entity.MarketEntry, error) {
		entries, err := c.repo.GetTopMarkets(ctx, c.currency, n)
		if err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			return nil, fmt.Errorf("empty market listing")
		}
		if len(entries) > n {
			entries = entries[:n]
		}
		return entries, nil
	})
}

// FetchDetails returns the provider's record for a coin id.
func (c *MarketClient) FetchDetails(ctx context.Context, coinID string) (entity.CoinDetails, error) {
	return cached(ctx, c, "details:"+coinID, func(ctx context.Context) (entity.CoinDetails, error) {
		return c.repo.GetCoinDetails(ctx, coinID)
	})
}

// LastRefresh returns the time of the last successful provider call.
func (c *MarketClient) LastRefresh() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRefresh, !c.lastRefresh.IsZero()
}

// ProviderReachable is false when the most recent provider call failed.
func (c *MarketClient) ProviderReachable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.lastFailed
}

// CacheSize returns the number of cached responses.
func (c *MarketClient) CacheSize(ctx context.Context) int {
	return c.store.Len(ctx)
}

// ClampTopLimit bounds n to [MinTopLimit, MaxTopLimit].
func ClampTopLimit(n int) int {
	if n < MinTopLimit {
		return MinTopLimit
	}
	if n > MaxTopLimit {
		return MaxTopLimit
	}
	return n
}

func (c *MarketClient) fresh(e CacheEntry) bool {
	return c.now().Sub(e.FetchedAt) < c.freshness
}

func (c *MarketClient) record(ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastFailed = !ok
	if ok {
		c.lastRefresh = c.now()
	}
}

// lookup decodes a fresh cache entry for key into T.
func lookup[T any](ctx context.Context, c *MarketClient, key string) (T, bool) {
	var v T
	e, ok := c.store.Get(ctx, key)
	if !ok || !c.fresh(e) {
		return v, false
	}
	if err := json.Unmarshal(e.Value, &v); err != nil {
		slog.Warn("discarding undecodable cache entry", "key", key, "error", err)
		return v, false
	}
	return v, true
}

// cached serves key from the store while fresh and otherwise calls fetch once,
// sharing the result with concurrent callers of the same key.
func cached[T any](ctx context.Context, c *MarketClient, key string, fetch func(context.Context) (T, error)) (T, error) {
	if v, ok := lookup[T](ctx, c, key); ok {
		return v, nil
	}

	res, err, _ := c.group.Do(key, func() (any, error) {
		// another caller may have refreshed the entry while this one waited
		if v, ok := lookup[T](ctx, c, key); ok {
			return v, nil
		}
		v, err := fetch(ctx)
		if err != nil {
			c.record(false)
			return nil, err
		}
		c.record(true)

		b, err := json.Marshal(v)
		if err != nil {
			slog.Warn("failed to encode market data for cache", "key", key, "error", err)
			return v, nil
		}
		if err := c.store.Set(ctx, key, CacheEntry{Value: b, FetchedAt: c.now()}); err != nil {
			slog.Warn("failed to store market data in cache", "key", key, "error", err)
		}
		return v, nil
	})
	if err != nil {
		op, _, _ := strings.Cut(key, ":")
		slog.Warn("market data unavailable", "op", op, "key", key, "error", err)
		var zero T
		return zero, fmt.Errorf("%w: %s: %w", entity.ErrUnavailable, key, err)
	}
	return res.(T), nil
}
