// Package cache provides CacheStore implementations for the market client.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"cryptobuddy/internal/feature/market/usecase"
)

// RedisStore keeps market responses in Redis so that several processes share one cache.
// Redis expiry only reclaims memory; freshness is still decided by the client from FetchedAt.
type RedisStore struct {
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.CacheStore = (*RedisStore)(nil)

// NewRedisStore creates a RedisStore.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "market".
func NewRedisStore(rdb *redis.Client, ttl time.Duration, namespace string) *RedisStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "market"
	}
	return &RedisStore{rdb: rdb, ttl: ttl, namespace: namespace}
}

// Get returns the cached entry for key. Misses, Redis failures and corrupted
// entries are all reported as ok=false.
func (s *RedisStore) Get(ctx context.Context, key string) (usecase.CacheEntry, bool) {
	var e usecase.CacheEntry
	k := s.cacheKey(key)

	b, err := s.rdb.Get(ctx, k).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("redis get failed", "key", k, "error", err)
		}
		return e, false
	}
	if err := json.Unmarshal(b, &e); err != nil {
		// Delete corrupted cache entry
		_ = s.rdb.Del(ctx, k).Err()
		return e, false
	}
	return e, true
}

// Set stores entry under key with the store TTL.
func (s *RedisStore) Set(ctx context.Context, key string, entry usecase.CacheEntry) error {
	b, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.cacheKey(key), b, s.ttl).Err()
}

// Len counts the keys in this store's namespace using SCAN.
func (s *RedisStore) Len(ctx context.Context) int {
	var (
		cursor uint64
		n      int
	)
	for {
		keys, cur, err := s.rdb.Scan(ctx, cursor, s.namespace+":*", 200).Result()
		if err != nil {
			slog.Warn("redis scan failed", "namespace", s.namespace, "error", err)
			return n
		}
		n += len(keys)
		cursor = cur
		if cursor == 0 {
			return n
		}
	}
}

func (s *RedisStore) cacheKey(key string) string {
	return s.namespace + ":" + safe(key)
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "*", "_")
	return s
}
