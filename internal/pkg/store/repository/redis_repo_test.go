package repository

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestNewRedisStoreAdapter(t *testing.T) {
	db, mock := redismock.NewClientMock()

	adapter := NewRedisStoreAdapter(db)

	assert.NotNil(t, adapter)
	assert.Equal(t, db, adapter.client)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStoreAdapter_Set(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		adapter := NewRedisStoreAdapter(db)

		mock.ExpectSet("loancase:suggestion:abc", "payload", 5*time.Minute).SetVal("OK")

		assert.NoError(t, adapter.Set(context.Background(), "loancase:suggestion:abc", "payload", 5*time.Minute))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		adapter := NewRedisStoreAdapter(db)

		mock.ExpectSet("key", "value", time.Minute).SetErr(redis.ErrClosed)

		assert.Error(t, adapter.Set(context.Background(), "key", "value", time.Minute))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisStoreAdapter_Get(t *testing.T) {
	t.Run("Hit", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		adapter := NewRedisStoreAdapter(db)

		mock.ExpectGet("key").SetVal(`{"a":1}`)

		val, err := adapter.Get(context.Background(), "key")
		assert.NoError(t, err)
		assert.Equal(t, []byte(`{"a":1}`), val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Miss", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		adapter := NewRedisStoreAdapter(db)

		mock.ExpectGet("key").RedisNil()

		_, err := adapter.Get(context.Background(), "key")
		assert.ErrorIs(t, err, redis.Nil)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisStoreAdapter_Delete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisStoreAdapter(db)

	mock.ExpectDel("key").SetVal(1)

	assert.NoError(t, adapter.Delete(context.Background(), "key"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStoreAdapter_ListOperations(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisStoreAdapter(db)
	ctx := context.Background()

	mock.ExpectRPush("loancase:repair", "job-1").SetVal(1)
	mock.ExpectLLen("loancase:repair").SetVal(1)
	mock.ExpectLPop("loancase:repair").SetVal("job-1")
	mock.ExpectLPop("loancase:repair").RedisNil()

	assert.NoError(t, adapter.Push(ctx, "loancase:repair", "job-1"))

	n, err := adapter.Len(ctx, "loancase:repair")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), n)

	val, err := adapter.Pop(ctx, "loancase:repair")
	assert.NoError(t, err)
	assert.Equal(t, []byte("job-1"), val)

	_, err = adapter.Pop(ctx, "loancase:repair")
	assert.ErrorIs(t, err, redis.Nil)

	assert.NoError(t, mock.ExpectationsWereMet())
}
