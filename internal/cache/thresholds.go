package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/RMahshie/audiogram/internal/metrics"
	"github.com/RMahshie/audiogram/internal/repository"
	"github.com/RMahshie/audiogram/pkg/models"
)

// Redis key prefix for cached threshold records
const recordKeyPrefix = "audiogram:thresholds:"

// Upper bound on a shared record load
const loadTimeout = 30 * time.Second

// ThresholdCache is a read-through Redis cache in front of a threshold
// repository. Only present records are cached. Redis failures are logged
// and the inner repository is used instead.
type ThresholdCache struct {
	client  *redis.Client
	inner   repository.ThresholdRepository
	ttl     time.Duration
	metrics *metrics.Metrics
	group   singleflight.Group
}

// Option configures a ThresholdCache
type Option func(*ThresholdCache)

// WithMetrics records cache hits and misses
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *ThresholdCache) { c.metrics = m }
}

// NewThresholdCache wraps inner with a cache stored in client for ttl
func NewThresholdCache(client *redis.Client, inner repository.ThresholdRepository, ttl time.Duration, opts ...Option) *ThresholdCache {
	c := &ThresholdCache{client: client, inner: inner, ttl: ttl}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// GetThresholds returns the cached record or loads it from the inner
// repository. Concurrent misses for one test share a single load.
func (c *ThresholdCache) GetThresholds(ctx context.Context, testID string) (*models.ThresholdRecord, error) {
	key := recordKeyPrefix + testID

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var rec models.ThresholdRecord
		if jerr := json.Unmarshal(data, &rec); jerr == nil {
			c.metrics.IncrementCacheLookup("hit")
			return &rec, nil
		}
		log.Warn().Str("testID", testID).Msg("Discarding undecodable cached threshold record")
		c.metrics.IncrementCacheLookup("miss")
	case errors.Is(err, redis.Nil):
		c.metrics.IncrementCacheLookup("miss")
	default:
		log.Warn().Err(err).Str("testID", testID).Msg("Threshold cache read failed, using record source")
		c.metrics.IncrementCacheLookup("error")
	}

	// The shared load outlives any single caller; each caller stops
	// waiting when its own context ends.
	ch := c.group.DoChan(testID, func() (interface{}, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		rec, err := c.inner.GetThresholds(lctx, testID)
		if err != nil || rec == nil {
			return rec, err
		}
		c.store(lctx, key, rec)
		return rec, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		rec, _ := res.Val.(*models.ThresholdRecord)
		return rec, nil
	}
}

func (c *ThresholdCache) store(ctx context.Context, key string, rec *models.ThresholdRecord) {
	data, err := json.Marshal(rec)
	if err != nil {
		log.Warn().Err(err).Str("testID", rec.TestID).Msg("Failed to encode threshold record for cache")
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("testID", rec.TestID).Msg("Threshold cache write failed")
	}
}

// Invalidate drops a test's cached record
func (c *ThresholdCache) Invalidate(ctx context.Context, testID string) error {
	return c.client.Del(ctx, recordKeyPrefix+testID).Err()
}
