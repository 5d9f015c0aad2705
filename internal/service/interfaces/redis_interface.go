package interfaces

import (
	"context"
	"time"
)

// RedisStoreOperations defines the redis operations used by the suggestion
// cache and the repair queue.
type RedisStoreOperations interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Push(ctx context.Context, key string, values ...interface{}) error
	Pop(ctx context.Context, key string) ([]byte, error)
	Len(ctx context.Context, key string) (int64, error)
}
