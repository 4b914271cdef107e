package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Backend implements store.Backend on a Redis client. Keys carry a common
// prefix and an optional TTL so abandoned snapshots age out of Redis on
// their own, independent of the staleness policy upstream.
type Backend struct {
	client *redis.Client
	ttl    time.Duration
}

func NewBackend(client *redis.Client, ttl time.Duration) *Backend {
	return &Backend{client: client, ttl: ttl}
}

func (b *Backend) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := b.client.Get(ctx, b.key(key)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (b *Backend) Set(ctx context.Context, key, value string) error {
	return b.client.Set(ctx, b.key(key), value, b.ttl).Err()
}

func (b *Backend) Del(ctx context.Context, key string) error {
	return b.client.Del(ctx, b.key(key)).Err()
}

func (b *Backend) key(key string) string {
	return "quizforge:" + key
}
