package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"smartretail/internal/services/pricing"
	"smartretail/pkg/logger"
)

// PredictionCache implements pricing.Cache using Redis. Cache failures are
// logged and swallowed; a broken cache must never fail a prediction.
type PredictionCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewPredictionCache creates a new prediction cache with the given TTL
func NewPredictionCache(client *redis.Client, ttl time.Duration) *PredictionCache {
	return &PredictionCache{
		client: client,
		ttl:    ttl,
		log:    logger.Get().With("component", "prediction_cache"),
	}
}

// Get retrieves a cached prediction
func (c *PredictionCache) Get(ctx context.Context, key string) (*pricing.Prediction, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.log.Warnw("cache read failed", "key", key, "error", err)
		return nil, false
	}

	var pred pricing.Prediction
	if err := json.Unmarshal(data, &pred); err != nil {
		c.log.Warnw("cache entry corrupt, dropping", "key", key, "error", err)
		c.client.Del(ctx, key)
		return nil, false
	}

	return &pred, true
}

// Set stores a prediction with the configured TTL
func (c *PredictionCache) Set(ctx context.Context, key string, pred *pricing.Prediction) {
	data, err := json.Marshal(pred)
	if err != nil {
		c.log.Warnw("cache marshal failed", "key", key, "error", err)
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warnw("cache write failed", "key", key, "error", err)
	}
}
