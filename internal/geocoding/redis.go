package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jengzang/ecorisk-backend-go/internal/observability"
)

const redisKeyPrefix = "ecorisk:geocode:"

// redisStore is the subset of the go-redis client the cache needs.
type redisStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisGeocoder shares successful lookups between service instances through Redis.
// Redis errors never fail a lookup; the inner geocoder is consulted instead.
type RedisGeocoder struct {
	inner   Geocoder
	store   redisStore
	ttl     time.Duration
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewRedisGeocoder wraps inner with a Redis-backed cache.
func NewRedisGeocoder(inner Geocoder, client *redis.Client, ttl time.Duration, metrics *observability.Metrics, logger *slog.Logger) *RedisGeocoder {
	return newRedisGeocoder(inner, client, ttl, metrics, logger)
}

func newRedisGeocoder(inner Geocoder, store redisStore, ttl time.Duration, metrics *observability.Metrics, logger *slog.Logger) *RedisGeocoder {
	return &RedisGeocoder{inner: inner, store: store, ttl: ttl, metrics: metrics, logger: logger}
}

func (g *RedisGeocoder) Geocode(ctx context.Context, address string) (Result, error) {
	key := redisKeyPrefix + cacheKey(address)

	raw, err := g.store.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var result Result
		if jsonErr := json.Unmarshal(raw, &result); jsonErr == nil {
			g.metrics.GeocodeCache.WithLabelValues("redis", "hit").Inc()
			return result, nil
		}
		g.logger.Warn("discarding corrupt geocode cache entry", "key", key)
	case errors.Is(err, redis.Nil):
	default:
		g.logger.Warn("geocode cache read failed", "key", key, "error", err)
	}
	g.metrics.GeocodeCache.WithLabelValues("redis", "miss").Inc()

	result, err := g.inner.Geocode(ctx, address)
	if err != nil {
		return result, err
	}

	payload, err := json.Marshal(result)
	if err == nil {
		err = g.store.Set(ctx, key, payload, g.ttl).Err()
	}
	if err != nil {
		g.logger.Warn("geocode cache write failed", "key", key, "error", err)
	}
	return result, nil
}
