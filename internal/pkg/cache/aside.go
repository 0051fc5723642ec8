// Package cache implements the cache-aside read path on top of a Redis
// backend.
//
// A read checks the cache first; on a miss it calls the fetch function (which
// itself goes through the resilient dispatcher), stores a non-nil result with
// the given TTL and returns it. Absent results are never cached. Mutation
// paths call Invalidate for every key they can make stale.
//
// Concurrent misses on the same key each fetch; there is no stampede
// protection.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jcmexdev/petcare-sagas/internal/pkg/metrics"
)

// Store is the cache-aside store. Backend failures degrade to direct fetches.
type Store struct {
	cache Cache
}

func NewStore(c Cache) *Store {
	return &Store{cache: c}
}

// GetOrFetch returns the cached value for key if present and unexpired.
// Otherwise it calls fetch, caches a non-nil result for ttl and returns it.
// Fetch errors are returned as-is and nothing is cached.
func GetOrFetch[T any](ctx context.Context, s *Store, key string, ttl time.Duration, fetch func(context.Context) (*T, error)) (*T, error) {
	kind := KindOf(key)

	if v, ok := s.lookup(ctx, key, kind, new(T)); ok {
		return v.(*T), nil
	}

	value, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	if value == nil {
		slog.DebugContext(ctx, "cache fetch returned nothing, not caching", "key", key)
		return nil, nil
	}

	s.store(ctx, key, value, ttl)
	return value, nil
}

// Invalidate deletes key unconditionally.
func (s *Store) Invalidate(ctx context.Context, key string) error {
	metrics.CacheInvalidations.WithLabelValues(KindOf(key)).Inc()
	if err := s.cache.Delete(ctx, key); err != nil {
		slog.ErrorContext(ctx, "cache invalidation failed", "key", key, "error", err)
		return err
	}
	slog.DebugContext(ctx, "cache invalidated", "key", key)
	return nil
}

func (s *Store) lookup(ctx context.Context, key, kind string, dst any) (any, bool) {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		metrics.CacheLookups.WithLabelValues(kind, "error").Inc()
		slog.WarnContext(ctx, "cache read failed, fetching from source", "key", key, "error", err)
		return nil, false
	}
	if raw == "" {
		metrics.CacheLookups.WithLabelValues(kind, "miss").Inc()
		slog.DebugContext(ctx, "cache miss", "key", key)
		return nil, false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		metrics.CacheLookups.WithLabelValues(kind, "error").Inc()
		slog.WarnContext(ctx, "dropping undecodable cache entry", "key", key, "error", err)
		_ = s.cache.Delete(ctx, key)
		return nil, false
	}
	metrics.CacheLookups.WithLabelValues(kind, "hit").Inc()
	slog.DebugContext(ctx, "cache hit", "key", key)
	return dst, true
}

func (s *Store) store(ctx context.Context, key string, value any, ttl time.Duration) {
	b, err := json.Marshal(value)
	if err != nil {
		slog.WarnContext(ctx, "cache encode failed", "key", key, "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, string(b), ttl); err != nil {
		slog.WarnContext(ctx, "cache write failed", "key", key, "error", err)
	}
}
