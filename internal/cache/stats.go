// Package cache provides a Redis-backed cache for job market statistics.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jonathan/career-coach/internal/db"
	"github.com/jonathan/career-coach/internal/metrics"
)

// StatsKey is the Redis key holding the cached stats document
const StatsKey = "career_coach:job_stats"

// Lookup results recorded in metrics
const (
	resultHit   = "hit"
	resultMiss  = "miss"
	resultError = "error"
)

// StatsCache stores db.JobStats in Redis with a TTL. Redis failures are
// logged and treated as misses.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

var _ db.StatsCache = (*StatsCache)(nil)

// NewStatsCache wraps an existing client
func NewStatsCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *StatsCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsCache{client: client, ttl: ttl, logger: logger}
}

// Connect parses a redis:// URL, pings the server and returns a cache
func Connect(ctx context.Context, url string, ttl time.Duration, logger *zap.Logger) (*StatsCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewStatsCache(client, ttl, logger), nil
}

// GetStats returns the cached stats, if present
func (c *StatsCache) GetStats(ctx context.Context) (*db.JobStats, bool) {
	val, err := c.client.Get(ctx, StatsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.StatsCacheLookups.WithLabelValues(resultMiss).Inc()
		return nil, false
	}
	if err != nil {
		metrics.StatsCacheLookups.WithLabelValues(resultError).Inc()
		c.logger.Warn("stats cache read failed", zap.Error(err))
		return nil, false
	}

	var stats db.JobStats
	if err := json.Unmarshal(val, &stats); err != nil {
		metrics.StatsCacheLookups.WithLabelValues(resultError).Inc()
		c.logger.Warn("stats cache entry is corrupt", zap.Error(err))
		return nil, false
	}
	if stats.ByRole == nil {
		stats.ByRole = map[string]int{}
	}
	metrics.StatsCacheLookups.WithLabelValues(resultHit).Inc()
	return &stats, true
}

// SetStats stores stats for the configured TTL. A non-positive TTL disables
// writes.
func (c *StatsCache) SetStats(ctx context.Context, stats db.JobStats) {
	if c.ttl <= 0 {
		return
	}
	data, err := json.Marshal(stats)
	if err != nil {
		c.logger.Warn("failed to encode stats for cache", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, StatsKey, data, c.ttl).Err(); err != nil {
		c.logger.Warn("stats cache write failed", zap.Error(err))
	}
}

// Close closes the underlying client
func (c *StatsCache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
