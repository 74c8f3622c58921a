// Package redis provides a Redis-backed storage driver for cart snapshots.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces all cart snapshot keys within Redis.
const keyPrefix = "cart:"

// Store implements storage.Driver using Redis. Blobs expire after the
// configured TTL so abandoned carts fall out of the store on their own.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a new Redis-backed store.
func New(client *redis.Client, ttl time.Duration) *Store {
	return &Store{
		client: client,
		ttl:    ttl,
	}
}

// Save persists the blob under the key with the configured TTL.
func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, keyPrefix+key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set snapshot: %w", err)
	}
	return nil
}

// Restore retrieves the blob stored under the key, if any.
func (s *Store) Restore(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get snapshot: %w", err)
	}
	return data, true, nil
}

// Clear removes the blob stored under the key.
func (s *Store) Clear(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis del snapshot: %w", err)
	}
	return nil
}
