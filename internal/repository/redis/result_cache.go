package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"procureMatch/domain"

	"github.com/redis/go-redis/v9"
)

const resultKeyPrefix = "reco:result:"

type ResultCacheRepository struct {
	client *redis.Client
}

func NewResultCacheRepository(client *redis.Client) *ResultCacheRepository {
	return &ResultCacheRepository{
		client: client,
	}
}

// Get returns the cached entry for a fingerprint, or nil on a miss.
// Entries whose recorded TTL elapsed are treated as absent even if the
// key still exists.
func (r *ResultCacheRepository) Get(ctx context.Context, fingerprint string) (*domain.CacheEntry, error) {
	key := resultKeyPrefix + fingerprint

	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}

	var entry domain.CacheEntry
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache entry: %w", err)
	}

	if entry.Expired(time.Now()) {
		return nil, nil
	}

	return &entry, nil
}

func (r *ResultCacheRepository) Set(ctx context.Context, fingerprint string, entry domain.CacheEntry, ttl time.Duration) error {
	key := resultKeyPrefix + fingerprint

	jsonData, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	if err := r.client.Set(ctx, key, jsonData, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}

	return nil
}

func (r *ResultCacheRepository) Invalidate(ctx context.Context, fingerprint string) error {
	key := resultKeyPrefix + fingerprint

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cache entry: %w", err)
	}

	return nil
}

// InvalidateAll scans and deletes every result key. Used by the
// catalog bulk-update trigger.
func (r *ResultCacheRepository) InvalidateAll(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, resultKeyPrefix+"*", 100).Iterator()

	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete cache key: %w", err)
		}
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}

	return nil
}

func (r *ResultCacheRepository) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache store unreachable: %w", err)
	}

	return nil
}
