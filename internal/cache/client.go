package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const statsKey = "stats:database"

// Client caches the database statistics view in Redis. A nil *Client is a
// valid no-op cache, which keeps the service layer free of enabled/disabled
// checks when no Redis is configured.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

func Initialize(redisURL string, ttl time.Duration) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb, ttl: ttl}, nil
}

// GetStats loads the cached statistics document into dest. The boolean
// reports a cache hit; a miss is not an error.
func (c *Client) GetStats(dest interface{}) (bool, error) {
	if c == nil {
		return false, nil
	}

	ctx := context.Background()
	val, err := c.rdb.Get(ctx, statsKey).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cached stats: %w", err)
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached stats: %w", err)
	}
	return true, nil
}

func (c *Client) SetStats(value interface{}) error {
	if c == nil {
		return nil
	}

	ctx := context.Background()
	jsonData, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}
	return c.rdb.Set(ctx, statsKey, jsonData, c.ttl).Err()
}

// InvalidateStats drops the cached statistics. Called after every write to
// an order or one of its items. Errors are swallowed: a stale delete only
// means the entry lives until its TTL.
func (c *Client) InvalidateStats() {
	if c == nil {
		return
	}

	ctx := context.Background()
	c.rdb.Del(ctx, statsKey)
}

// Close releases the Redis connection.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
