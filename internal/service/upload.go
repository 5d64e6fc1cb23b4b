package service

import (
	"context"
	"io"
	"time"

	"storefront-service/internal/redisclient"
)

// Upload carries one file received in a multipart request.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// lockTTL bounds how long a mutation lock can outlive a crashed holder.
const lockTTL = 15 * time.Second

// withLock runs fn while holding the redis mutation lock for key.
// Returns ErrResourceBusy when the lock is already held.
func withLock(ctx context.Context, redis *redisclient.Client, key string, fn func() error) error {
	token, ok, err := redis.AcquireLock(ctx, key, lockTTL)
	if err != nil {
		return err
	}
	if !ok {
		return ErrResourceBusy
	}
	defer redis.ReleaseLock(ctx, key, token)

	return fn()
}
