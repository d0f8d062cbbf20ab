package redis

import (
	"context"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/teamboard/backend/repository"
)

type cacheRepository struct {
	client  *redislib.Client
	timeout time.Duration
	ttl     time.Duration
	logger  *zap.Logger
}

// NewCacheRepository creates a Redis-backed read cache. Every call is bounded
// by the given timeout; any failure is logged and reported as a miss or a
// no-op so callers fall back to the primary store.
func NewCacheRepository(client *redislib.Client, timeout, defaultTTL time.Duration, logger *zap.Logger) repository.Cache {
	if timeout <= 0 {
		timeout = 200 * time.Millisecond
	}
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &cacheRepository{
		client:  client,
		timeout: timeout,
		ttl:     defaultTTL,
		logger:  logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	value, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redislib.Nil {
			r.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return value, true
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = r.ttl
	}

	ctx, cancel := r.bound(ctx)
	defer cancel()

	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (r *cacheRepository) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}

	ctx, cancel := r.bound(ctx)
	defer cancel()

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.logger.Warn("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func (r *cacheRepository) InvalidatePrefix(ctx context.Context, prefix string) {
	if prefix == "" {
		return
	}

	ctx, cancel := r.bound(ctx)
	defer cancel()

	iter := r.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) >= 100 {
			r.deleteBatch(ctx, keys)
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		r.logger.Warn("cache prefix scan failed", zap.String("prefix", prefix), zap.Error(err))
	}
	if len(keys) > 0 {
		r.deleteBatch(ctx, keys)
	}
}

func (r *cacheRepository) deleteBatch(ctx context.Context, keys []string) {
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.logger.Warn("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func (r *cacheRepository) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}
