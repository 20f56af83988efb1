package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/bridge-core/internal/core/domain"
	"github.com/custodia-labs/bridge-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.KVStore = (*KVStore)(nil)

// KVStore implements driven.KVStore using Redis.
// Entries expire via Redis TTL.
type KVStore struct {
	client *redis.Client
}

// NewKVStore creates a new Redis-backed KVStore.
func NewKVStore(client *redis.Client) *KVStore {
	return &KVStore{client: client}
}

// Set stores value under key with the given TTL, replacing any existing
// entry.
func (s *KVStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Get retrieves the value for key.
func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

// Delete removes the entry for key. Missing keys are not an error.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Ping checks if Redis is reachable.
func (s *KVStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
