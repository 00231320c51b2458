package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"errors"        // Error matching
	"strconv"       // Key formatting
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// Cache TTLs
const (
	CourseCacheTTL     = 60 * time.Second // Course detail header
	CategoriesCacheTTL = 5 * time.Minute  // Category list
)

// CategoriesCacheKey holds the full category list
const CategoriesCacheKey = "categories:all"

// CourseCacheKey is the key of a cached course row with its relations
func CourseCacheKey(courseID uint) string {
	return "course:" + strconv.FormatUint(uint64(courseID), 10)
}

// GetCache retrieves a value from Redis and unmarshals it into dest.
// A nil client behaves as an always-missing cache.
func GetCache(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	if rdb == nil {
		return false, nil // Caching disabled
	}
	val, err := rdb.Get(ctx, key).Bytes() // Get value from Redis
	if errors.Is(err, redis.Nil) {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false, err // Corrupt entry
	}
	return true, nil
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
	if rdb == nil || len(keys) == 0 {
		return nil // Nothing to invalidate
	}
	return rdb.Del(ctx, keys...).Err() // Delete keys from Redis
}
