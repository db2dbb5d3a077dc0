package dlt

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-redis/redis/v8"
	"github.com/goccy/go-json"
)

// MaxSerializationSize is the maximum allowed size for a serialized batch (4MB)
const MaxSerializationSize = 4 * 1024 * 1024

// serializeBatch serializes a CachedBatch to JSON bytes
func serializeBatch(batch *CachedBatch) ([]byte, error) {
	if batch == nil {
		return nil, fmt.Errorf("cannot serialize nil batch")
	}

	data, err := json.Marshal(batch)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize batch: %w", err)
	}
	if len(data) > MaxSerializationSize {
		return nil, fmt.Errorf("serialized batch size (%d bytes) exceeds maximum allowed size (%d bytes)",
			len(data), MaxSerializationSize)
	}
	return data, nil
}

// deserializeBatch deserializes JSON bytes back to a CachedBatch
func deserializeBatch(data []byte) (*CachedBatch, error) {
	if len(data) == 0 {
		return nil, NewError(ErrCodeCacheCorrupted, "empty cache entry")
	}

	var batch CachedBatch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, NewError(ErrCodeCacheCorrupted, "failed to deserialize batch").WithCause(err)
	}
	if batch.FetchedAt.IsZero() {
		return nil, NewError(ErrCodeCacheCorrupted, "cache entry has no fetch time")
	}
	return &batch, nil
}

// storageKey hashes a query cache key under prefix so backend keys stay short
func storageKey(prefix, key string) string {
	sum := sha256.Sum256([]byte(key))
	return prefix + hex.EncodeToString(sum[:16])
}

// ================================================================================

// RedisCache keeps batches in Redis with SET EX
type RedisCache struct {
	redisClient *redis.Client
	prefix      string
	logger      Logger
}

// NewRedisCache creates a Redis backed cache
func NewRedisCache(redisClient *redis.Client, prefix string, logger Logger) *RedisCache {
	if prefix == "" {
		prefix = CacheKeyPrefix
	}
	if logger == nil {
		logger = &DefaultLogger{}
	}
	return &RedisCache{redisClient: redisClient, prefix: prefix, logger: logger}
}

// Get loads the batch stored under key
func (c *RedisCache) Get(ctx context.Context, key string) (*CachedBatch, error) {
	k := storageKey(c.prefix, key)

	data, err := c.redisClient.Get(ctx, k).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, NewError(ErrCodeCacheUnavailable, "redis get failed").WithCause(err)
	}

	batch, err := deserializeBatch(data)
	if err != nil {
		c.logger.Error("Dropping corrupted cache entry %s: %v", k, err)
		c.redisClient.Del(ctx, k)
		return nil, ErrCacheMiss
	}
	return batch, nil
}

// Set stores batch under key for ttl
func (c *RedisCache) Set(ctx context.Context, key string, batch *CachedBatch, ttl time.Duration) error {
	if ttl <= 0 {
		return ErrInvalidCacheTTL
	}
	data, err := serializeBatch(batch)
	if err != nil {
		return err
	}

	k := storageKey(c.prefix, key)
	if err := c.redisClient.Set(ctx, k, data, ttl).Err(); err != nil {
		return NewError(ErrCodeCacheUnavailable, "redis set failed").WithCause(err)
	}
	c.logger.Debug("Cached batch: key=%s, size=%d bytes, ttl=%v", k, len(data), ttl)
	return nil
}

// Close closes the Redis client
func (c *RedisCache) Close() error { return c.redisClient.Close() }

// ================================================================================

// MemoryCache keeps batches in an in-memory badger store; entries expire by TTL
type MemoryCache struct {
	db     *badger.DB
	prefix string
}

// NewMemoryCache opens an in-memory store
func NewMemoryCache(prefix string) (*MemoryCache, error) {
	if prefix == "" {
		prefix = CacheKeyPrefix
	}
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, NewError(ErrCodeCacheUnavailable, "open in-memory store").WithCause(err)
	}
	return &MemoryCache{db: db, prefix: prefix}, nil
}

// Get loads the batch stored under key
func (c *MemoryCache) Get(_ context.Context, key string) (*CachedBatch, error) {
	k := []byte(storageKey(c.prefix, key))

	var data []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(k)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, NewError(ErrCodeCacheUnavailable, "memory get failed").WithCause(err)
	}
	return deserializeBatch(data)
}

// Set stores batch under key for ttl
func (c *MemoryCache) Set(_ context.Context, key string, batch *CachedBatch, ttl time.Duration) error {
	if ttl <= 0 {
		return ErrInvalidCacheTTL
	}
	data, err := serializeBatch(batch)
	if err != nil {
		return err
	}

	k := []byte(storageKey(c.prefix, key))
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(k, data).WithTTL(ttl))
	})
}

// Close releases the store
func (c *MemoryCache) Close() error { return c.db.Close() }

// NewCacheFromConfig builds the configured cache backend; it returns nil when
// caching is disabled
func NewCacheFromConfig(config *Config, logger Logger) (Cache, error) {
	if config.Cache == nil || !config.Cache.Enabled {
		return nil, nil
	}

	switch config.Cache.Backend {
	case CacheBackendRedis:
		return NewRedisCache(NewRedisClientFromConfig(config.Redis), config.Cache.KeyPrefix, logger), nil
	case CacheBackendMemory, "":
		return NewMemoryCache(config.Cache.KeyPrefix)
	default:
		return nil, ErrInvalidCacheBackend
	}
}
