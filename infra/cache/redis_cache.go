package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/wealthdash/wealthdash/pkg/cache"
)

// RedisCache implements cache.SummaryCache using Redis.
type RedisCache struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedisCache creates a RedisCache from a redis:// URL.
func NewRedisCache(url, prefix string, logger *slog.Logger) (*RedisCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return NewRedisCacheWithOptions(opt, prefix, logger), nil
}

// NewRedisCacheWithOptions creates a new RedisCache from redis.Options.
func NewRedisCacheWithOptions(opt *redis.Options, prefix string, logger *slog.Logger) *RedisCache {
	return &RedisCache{client: redis.NewClient(opt), prefix: prefix, logger: logger}
}

func (r *RedisCache) key(userID uuid.UUID) string {
	return r.prefix + "summary:" + userID.String()
}

// Ping checks connectivity.
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the client.
func (r *RedisCache) Close() error {
	return r.client.Close()
}

func (r *RedisCache) Get(ctx context.Context, userID uuid.UUID) (*cache.Summary, error) {
	val, err := r.client.Get(ctx, r.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		r.logger.Debug("Redis cache miss", "user_id", userID)
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Redis cache get error", "user_id", userID, "error", err)
		return nil, err
	}
	var s cache.Summary
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		r.logger.Error("Redis cache unmarshal error", "user_id", userID, "error", err)
		return nil, err
	}
	r.logger.Debug("Redis cache hit", "user_id", userID)
	return &s, nil
}

func (r *RedisCache) Set(ctx context.Context, userID uuid.UUID, s *cache.Summary, ttl time.Duration) error {
	data, err := json.Marshal(s)
	if err != nil {
		r.logger.Error("Redis cache marshal error", "user_id", userID, "error", err)
		return err
	}
	if err := r.client.Set(ctx, r.key(userID), data, ttl).Err(); err != nil {
		r.logger.Error("Redis cache set error", "user_id", userID, "error", err)
		return err
	}
	return nil
}

func (r *RedisCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if err := r.client.Del(ctx, r.key(userID)).Err(); err != nil {
		r.logger.Error("Redis cache delete error", "user_id", userID, "error", err)
		return err
	}
	r.logger.Debug("Redis cache delete", "user_id", userID)
	return nil
}

var _ cache.SummaryCache = (*RedisCache)(nil)
