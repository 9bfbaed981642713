package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"internlab/config"
	"internlab/logger"

	"github.com/redis/go-redis/v9"
)

// Cache is nil when REDIS_URL is not configured
var Cache *redis.Client

// ConnectCache connects to redis when a URL is configured
func ConnectCache(ctx context.Context) error {
	url := config.AppConfig.RedisURL
	if url == "" {
		logger.Log.Info("cache disabled, REDIS_URL not set")
		return nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return fmt.Errorf("invalid cache URL: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("pinging cache: %w", err)
	}

	Cache = client
	logger.Log.Info("cache connected")
	return nil
}

// CacheGetJSON loads key into dest. It reports false on a miss or when caching is disabled.
func CacheGetJSON(ctx context.Context, key string, dest interface{}) bool {
	if Cache == nil {
		return false
	}
	raw, err := Cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Log.Warn("cache get failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		logger.Log.Warn("cache decode failed", "key", key, "error", err)
		return false
	}
	return true
}

// CacheSetJSON stores value under key for ttl
func CacheSetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if Cache == nil || ttl <= 0 {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		logger.Log.Warn("cache encode failed", "key", key, "error", err)
		return
	}
	if err := Cache.Set(ctx, key, raw, ttl).Err(); err != nil {
		logger.Log.Warn("cache set failed", "key", key, "error", err)
	}
}

// CacheDelete drops keys
func CacheDelete(ctx context.Context, keys ...string) {
	if Cache == nil || len(keys) == 0 {
		return
	}
	if err := Cache.Del(ctx, keys...).Err(); err != nil {
		logger.Log.Warn("cache delete failed", "keys", keys, "error", err)
	}
}

// PingCache reports cache health; a disabled cache is healthy
func PingCache(ctx context.Context) error {
	if Cache == nil {
		return nil
	}
	return Cache.Ping(ctx).Err()
}
