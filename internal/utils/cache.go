package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"errors"        // Sentinel comparison
	"strconv"       // Key formatting
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// Cache keys shared by the services and handlers
const (
	ProductsCacheKey      = "products:all" // Public product listing
	AdminUsersCachePrefix = "admin:users:" // Paginated admin user listing
	ordersCachePrefix     = "orders:user:" // Per-user order history
)

// NewRedisClient creates a cache client whose dials and commands give up
// after timeout, so an unreachable Redis costs reads little before they fall
// back to the store
func NewRedisClient(addr, password string, db int, timeout time.Duration) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,     // Redis server address
		Password:     password, // Redis password
		DB:           db,       // Redis database number
		DialTimeout:  timeout,  // Connect deadline
		ReadTimeout:  timeout,  // Per-command read deadline
		WriteTimeout: timeout,  // Per-command write deadline
		MaxRetries:   -1,       // A cache miss is cheaper than a retry
	})
}

// OrdersCacheKey returns the order history cache key for a user
func OrdersCacheKey(userID uint) string {
	return ordersCachePrefix + strconv.FormatUint(uint64(userID), 10)
}

// GetCache retrieves a value from Redis and unmarshals it into dest. A nil
// client always misses.
func GetCache(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	if rdb == nil {
		return false, nil // Caching disabled
	}
	val, err := rdb.Get(ctx, key).Result() // Get value from Redis
	if errors.Is(err, redis.Nil) {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// SetCache sets a value in Redis with a specified TTL
func SetCache(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	if rdb == nil {
		return nil // Caching disabled
	}
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return rdb.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
}

// DeleteCache deletes keys from Redis
func DeleteCache(ctx context.Context, rdb *redis.Client, keys ...string) error {
	if rdb == nil {
		return nil // Caching disabled
	}
	return rdb.Del(ctx, keys...).Err() // Delete keys from Redis
}

// DeleteCachePrefix deletes every key starting with prefix
func DeleteCachePrefix(ctx context.Context, rdb *redis.Client, prefix string) error {
	if rdb == nil {
		return nil // Caching disabled
	}
	iter := rdb.Scan(ctx, 0, prefix+"*", 100).Iterator() // Walk matching keys in batches
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil // Nothing cached under prefix
	}
	return rdb.Del(ctx, keys...).Err()
}
