package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisOpTimeout bounds every cache round trip so a slow Redis can never
// stall a translation run longer than this.
const redisOpTimeout = 2 * time.Second

// RedisCache is a Redis-backed translation cache. Redis provides the
// durability across process runs; entries are written without expiry by
// default so a (source, target, text) triple is translated once, ever.
type RedisCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// RedisConfig holds configuration for the Redis cache.
type RedisConfig struct {
	URL       string // connection URL, e.g. "redis://localhost:6379"
	TTL       int    // entry TTL in seconds (0 = no expiration)
	KeyPrefix string // prefix for all keys (default: "jsontl:")
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	c := NewRedisCacheFromClient(redis.NewClient(opts), cfg.TTL, cfg.KeyPrefix)
	if err := c.Ping(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewRedisCacheFromClient wraps an existing Redis client.
func NewRedisCacheFromClient(client *redis.Client, ttlSeconds int, keyPrefix string) *RedisCache {
	if keyPrefix == "" {
		keyPrefix = "jsontl:"
	}
	var ttl time.Duration
	if ttlSeconds > 0 {
		ttl = time.Duration(ttlSeconds) * time.Second
	}
	return &RedisCache{rdb: client, ttl: ttl, prefix: keyPrefix}
}

func opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), redisOpTimeout)
}

// Get retrieves a value. Absent keys and transport errors both read as
// misses; the pipeline falls through to the provider either way.
func (c *RedisCache) Get(key string) (string, bool) {
	ctx, cancel := opContext()
	defer cancel()

	val, err := c.rdb.Get(ctx, c.prefix+key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// Set stores a value under the configured TTL.
func (c *RedisCache) Set(key string, value string) error {
	ctx, cancel := opContext()
	defer cancel()

	return c.rdb.Set(ctx, c.prefix+key, value, c.ttl).Err()
}

// Ping verifies the connection.
func (c *RedisCache) Ping() error {
	ctx, cancel := opContext()
	defer cancel()

	return c.rdb.Ping(ctx).Err()
}

// Close releases the underlying client's resources.
func (c *RedisCache) Close() error {
	return c.rdb.Close()
}

// Verify RedisCache implements Cache
var _ Cache = (*RedisCache)(nil)
