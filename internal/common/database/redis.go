// internal/common/database/redis.go
// Redis connection used by the rate limiter and the interaction feed

package database

import (
    "context"
    "fmt"

    "github.com/go-redis/redis/v8"
)

// NewRedisClientFromURL creates a Redis client from a redis:// URL and
// verifies the connection before returning it
func NewRedisClientFromURL(redisURL string) (*redis.Client, error) {
    opts, err := redis.ParseURL(redisURL)
    if err != nil {
        return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
    }

    client := redis.NewClient(opts)

    if err := client.Ping(context.Background()).Err(); err != nil {
        return nil, fmt.Errorf("failed to connect to Redis: %w", err)
    }

    return client, nil
}
