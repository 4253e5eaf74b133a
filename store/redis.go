// Package store provides durable key-value storage for the resolution core:
// a Redis-backed implementation for the service, an in-memory implementation
// for the CLI and tests, and the preference adapter that serializes the
// last-resolved location and the favorites set.
package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/skycast-app/skycast-backend/types"
)

// ErrKeyNotFound is returned when a key has no stored value.
var ErrKeyNotFound = errors.New("key not found")

// RedisStore implements types.KeyValueStore on a Redis client. Values are
// stored without expiration; preferences survive process restarts.
type RedisStore struct {
	client *redis.Client
	prefix string
}

var _ types.KeyValueStore = (*RedisStore)(nil)

// NewRedisStore creates a RedisStore. All keys are namespaced under the given
// prefix.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(k string) string {
	return s.prefix + k
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, s.key(key)).Result()
	if err == redis.Nil {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value string) error {
	return s.client.Set(ctx, s.key(key), value, 0).Err()
}

func (s *RedisStore) Remove(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}
