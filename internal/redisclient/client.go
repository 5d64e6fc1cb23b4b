package redisclient

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

//go:embed scripts/unlock.lua
var unlockScript string

type Client struct {
	rdb    *redis.Client
	unlock *redis.Script
}

// NewClient creates a new Redis client with the unlock script loaded
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{
		rdb:    rdb,
		unlock: redis.NewScript(unlockScript),
	}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// CacheOrder stores a serialized order detail under its tracking number
func (c *Client) CacheOrder(ctx context.Context, tracking string, payload []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, fmt.Sprintf("order:tracking:%s", tracking), payload, ttl).Err()
}

// GetCachedOrder returns the cached order detail, nil on a miss
func (c *Client) GetCachedOrder(ctx context.Context, tracking string) ([]byte, error) {
	payload, err := c.rdb.Get(ctx, fmt.Sprintf("order:tracking:%s", tracking)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// InvalidateOrder drops the cached order detail for a tracking number
func (c *Client) InvalidateOrder(ctx context.Context, tracking string) error {
	return c.rdb.Del(ctx, fmt.Sprintf("order:tracking:%s", tracking)).Err()
}

// AcquireLock takes a mutation lock for a resource. It returns the token
// needed to release the lock, and false when the lock is already held.
func (c *Client) AcquireLock(ctx context.Context, lockKey string, ttl time.Duration) (string, bool, error) {
	token := uuid.New().String()
	ok, err := c.rdb.SetNX(ctx, fmt.Sprintf("lock:%s", lockKey), token, ttl).Result()
	if err != nil {
		return "", false, err
	}
	return token, ok, nil
}

// ReleaseLock releases a lock only when the token still matches, so an
// expired-and-retaken lock is never deleted by the previous holder.
func (c *Client) ReleaseLock(ctx context.Context, lockKey, token string) error {
	_, err := c.unlock.Run(ctx, c.rdb, []string{fmt.Sprintf("lock:%s", lockKey)}, token).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("unlock script failed: %w", err)
	}
	return nil
}
