package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/octobees/engagesphere/api/internal/entity"
)

// ErrCacheMiss is returned by a SnapshotCache when the key holds no value.
var ErrCacheMiss = errors.New("snapshot cache miss")

// DefaultSnapshotKey is the cache key used for the customer directory snapshot.
const DefaultSnapshotKey = "engagesphere:customers:snapshot"

// SnapshotCache stores serialized directory snapshots.
type SnapshotCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisSnapshotCache implements SnapshotCache on top of Redis strings.
type RedisSnapshotCache struct {
	client *redis.Client
}

// NewRedisSnapshotCache parses the Redis URL and verifies connectivity.
func NewRedisSnapshotCache(ctx context.Context, url string) (*RedisSnapshotCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisSnapshotCache{client: client}, nil
}

// Get returns the cached bytes or ErrCacheMiss.
func (c *RedisSnapshotCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

// Set stores value under key for ttl.
func (c *RedisSnapshotCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (c *RedisSnapshotCache) Close() error {
	return c.client.Close()
}

var _ SnapshotCache = (*RedisSnapshotCache)(nil)

// CachedCustomersRepository serves snapshots from a cache and falls back to the source on a miss.
// Cache failures never fail a request; they only cost a source read.
type CachedCustomersRepository struct {
	source CustomersRepository
	cache  SnapshotCache
	key    string
	ttl    time.Duration
}

// NewCachedCustomersRepository wraps source with cache. A non-positive ttl disables expiry.
func NewCachedCustomersRepository(source CustomersRepository, cache SnapshotCache, ttl time.Duration) *CachedCustomersRepository {
	if ttl < 0 {
		ttl = 0
	}
	return &CachedCustomersRepository{source: source, cache: cache, key: DefaultSnapshotKey, ttl: ttl}
}

// ListAll returns the cached snapshot when available, otherwise reads and caches the source.
func (r *CachedCustomersRepository) ListAll(ctx context.Context) ([]entity.Customer, error) {
	log := zerolog.Ctx(ctx)

	cached, err := r.cache.Get(ctx, r.key)
	switch {
	case err == nil:
		var customers []entity.Customer
		decodeErr := json.Unmarshal(cached, &customers)
		if decodeErr == nil {
			return customers, nil
		}
		log.Warn().Err(decodeErr).Str("key", r.key).Msg("discarding undecodable customer snapshot")
	case !errors.Is(err, ErrCacheMiss):
		log.Warn().Err(err).Str("key", r.key).Msg("customer snapshot cache unavailable")
	}

	customers, err := r.source.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(customers)
	if err != nil {
		log.Warn().Err(err).Msg("encode customer snapshot")
		return customers, nil
	}
	if err := r.cache.Set(ctx, r.key, payload, r.ttl); err != nil {
		log.Warn().Err(err).Str("key", r.key).Msg("store customer snapshot")
	}
	return customers, nil
}
