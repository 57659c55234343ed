package blob

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists the blob as a single Redis key. Suitable when
// several entry-point hosts share one backend; the key carries no TTL.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore creates a RedisStore using the given client and key.
// The caller owns the client lifecycle.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// Load reads the stored blob from Redis.
func (r *RedisStore) Load(ctx context.Context) ([]byte, error) {
	payload, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load blob from redis: %w", err)
	}
	return payload, nil
}

// Save replaces the stored blob in Redis.
func (r *RedisStore) Save(ctx context.Context, payload []byte) error {
	if err := r.client.Set(ctx, r.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to save blob to redis: %w", err)
	}
	return nil
}
