package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mixed-route-service/internal/platform/obs"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisMatrixCache stores duration matrices as JSON values with an expiry.
type RedisMatrixCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisMatrixCache(rdb *redis.Client, ttl time.Duration) *RedisMatrixCache {
	return &RedisMatrixCache{rdb: rdb, ttl: ttl, prefix: "mixed-route:"}
}

// NewRedisMatrixCacheFromURL connects using a redis:// URL.
func NewRedisMatrixCacheFromURL(ctx context.Context, url string, ttl time.Duration) (*RedisMatrixCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis matrix cache: parse url: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis matrix cache: ping: %w", err)
	}

	return NewRedisMatrixCache(rdb, ttl), nil
}

func (c *RedisMatrixCache) Get(ctx context.Context, key string) (_ [][]*float64, _ bool, err error) {
	defer obs.Time(ctx, "matrix.cache.redis.Get")(&err)

	if strings.TrimSpace(key) == "" {
		return nil, false, errors.New("get matrix cache: key must not be empty")
	}

	raw, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get matrix cache: %w", err)
	}

	var m [][]*float64
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, false, fmt.Errorf("get matrix cache: decode durations: %w", err)
	}

	return m, true, nil
}

func (c *RedisMatrixCache) Put(ctx context.Context, key string, matrix [][]*float64) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("insert matrix cache: key must not be empty")
	}

	raw, err := json.Marshal(matrix)
	if err != nil {
		return fmt.Errorf("insert matrix cache: encode durations: %w", err)
	}

	if err := c.rdb.Set(ctx, c.prefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("insert matrix cache key=%q: %w", key, err)
	}

	return nil
}

func (c *RedisMatrixCache) Close() error { return c.rdb.Close() }
