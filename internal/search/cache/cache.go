// Package cache provides a Redis-backed cache of finalized query results
// with singleflight collapsing of concurrent identical queries.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/internal/search"
	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/pkg/config"
	pkgredis "github.com/Karthik-S-Raman/Inverted-Index-Query-Service/pkg/redis"
)

const keyPrefix = "query:"

// QueryCache caches finalized evaluation results keyed by evaluation mode
// and query text. Enrichment happens after cache retrieval, so cached
// entries never hold document metadata.
type QueryCache struct {
	client *pkgredis.Client
	cfg    config.RedisConfig
	group  singleflight.Group
	logger *slog.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a QueryCache over an existing Redis client.
func New(client *pkgredis.Client, cfg config.RedisConfig) *QueryCache {
	return &QueryCache{
		client: client,
		cfg:    cfg,
		logger: slog.Default().With("component", "query-cache"),
	}
}

// Get returns the cached result for (mode, query), if present.
func (c *QueryCache) Get(ctx context.Context, mode, query string) (*search.Result, bool) {
	key := c.buildKey(mode, query)
	data, err := c.client.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.misses.Add(1)
		return nil, false
	}
	var result search.Result
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	c.logger.Debug("cache hit", "mode", mode, "query", query)
	return &result, true
}

// Set stores a finalized result for (mode, query) with the configured TTL.
func (c *QueryCache) Set(ctx context.Context, mode, query string, result *search.Result) {
	key := c.buildKey(mode, query)
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.cfg.CacheTTL); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached result or computes and stores it,
// collapsing concurrent computations of the same key into one. The second
// return reports whether the result came from cache.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	mode, query string,
	computeFn func() (*search.Result, error),
) (*search.Result, bool, error) {
	if result, ok := c.Get(ctx, mode, query); ok {
		return result, true, nil
	}
	key := c.buildKey(mode, query)
	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		if result, ok := c.Get(ctx, mode, query); ok {
			return result, nil
		}
		result, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, mode, query, result)
		return result, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.(*search.Result), false, nil
}

// Invalidate removes every cached query result.
func (c *QueryCache) Invalidate(ctx context.Context) error {
	deleted, err := c.client.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating cache: %w", err)
	}
	c.logger.Info("cache invalidated", "keys_deleted", deleted)
	return nil
}

// Stats returns lifetime hit and miss counts.
func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// buildKey collapses whitespace but never reorders or lowercases the
// query: boolean operators are case-sensitive and grouping is positional,
// so two queries share a key only when they are textually equivalent.
func (c *QueryCache) buildKey(mode, query string) string {
	normalized := strings.Join(strings.Fields(query), " ")
	hash := sha256.Sum256([]byte(mode + "|" + normalized))
	return fmt.Sprintf("%s%s:%x", keyPrefix, mode, hash[:16])
}
