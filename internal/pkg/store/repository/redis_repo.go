package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStoreAdapter struct {
	client *redis.Client
}

func NewRedisStoreAdapter(client *redis.Client) *RedisStoreAdapter {
	return &RedisStoreAdapter{client: client}
}

func (a *RedisStoreAdapter) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return a.client.Set(ctx, key, value, expiration).Err()
}

// Get returns redis.Nil when the key is absent.
func (a *RedisStoreAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	return a.client.Get(ctx, key).Bytes()
}

func (a *RedisStoreAdapter) Delete(ctx context.Context, key string) error {
	return a.client.Del(ctx, key).Err()
}

// Push appends values to the tail of the list at key.
func (a *RedisStoreAdapter) Push(ctx context.Context, key string, values ...interface{}) error {
	return a.client.RPush(ctx, key, values...).Err()
}

// Pop removes the head of the list at key. It returns redis.Nil when the list is empty.
func (a *RedisStoreAdapter) Pop(ctx context.Context, key string) ([]byte, error) {
	return a.client.LPop(ctx, key).Bytes()
}

func (a *RedisStoreAdapter) Len(ctx context.Context, key string) (int64, error) {
	return a.client.LLen(ctx, key).Result()
}
