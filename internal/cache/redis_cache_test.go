package cache_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/revorbit/auto-frames/internal/cache"
	"github.com/revorbit/auto-frames/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storedSession struct {
	Step  string `json:"step"`
	Promo string `json:"promo"`
}

func setup(t *testing.T) (cache.Cache, redismock.ClientMock, *config.CacheConfig) {
	t.Helper()

	client, mock := redismock.NewClientMock()
	cfg := &config.CacheConfig{DefaultTTL: 10 * time.Minute}

	return cache.NewRedisCache(client, cfg), mock, cfg
}

func TestKey(t *testing.T) {
	assert.Equal(t, "checkout:abc", cache.Key(cache.CheckoutKeyPrefix, "abc"))
}

func TestGet(t *testing.T) {
	ctx := t.Context()
	key := cache.Key(cache.CheckoutKeyPrefix, "s1")
	value := storedSession{Step: "shipping", Promo: "FIRST10"}
	jsonData, err := json.Marshal(value)
	require.NoError(t, err)

	t.Run("Success - Key Found", func(t *testing.T) {
		redisCache, mock, _ := setup(t)
		mock.ExpectGet(key).SetVal(string(jsonData))

		var result storedSession
		found, err := redisCache.Get(ctx, key, &result)

		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, value, result)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Cache Miss", func(t *testing.T) {
		redisCache, mock, _ := setup(t)
		mock.ExpectGet(key).SetErr(redis.Nil)

		var result storedSession
		found, err := redisCache.Get(ctx, key, &result)

		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, result)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Redis Error", func(t *testing.T) {
		redisCache, mock, _ := setup(t)
		mock.ExpectGet(key).SetErr(errors.New("connection refused"))

		var result storedSession
		found, err := redisCache.Get(ctx, key, &result)

		require.Error(t, err)
		assert.False(t, found)
		assert.Contains(t, err.Error(), "connection refused")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Corrupt Value", func(t *testing.T) {
		redisCache, mock, _ := setup(t)
		mock.ExpectGet(key).SetVal("{not json")

		var result storedSession
		found, err := redisCache.Get(ctx, key, &result)

		require.Error(t, err)
		assert.False(t, found)
		assert.Contains(t, err.Error(), "failed to unmarshal")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSet(t *testing.T) {
	ctx := t.Context()
	key := cache.Key(cache.CheckoutKeyPrefix, "s2")
	value := storedSession{Step: "payment"}
	jsonData, err := json.Marshal(value)
	require.NoError(t, err)

	t.Run("Success - Explicit TTL", func(t *testing.T) {
		redisCache, mock, _ := setup(t)
		mock.ExpectSet(key, jsonData, 2*time.Hour).SetVal("OK")

		require.NoError(t, redisCache.Set(ctx, key, value, 2*time.Hour))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Default TTL", func(t *testing.T) {
		redisCache, mock, cfg := setup(t)
		mock.ExpectSet(key, jsonData, cfg.DefaultTTL).SetVal("OK")

		require.NoError(t, redisCache.Set(ctx, key, value, 0))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Unmarshalable Value", func(t *testing.T) {
		redisCache, mock, _ := setup(t)

		err := redisCache.Set(ctx, key, make(chan int), time.Minute)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to marshal")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Redis Error", func(t *testing.T) {
		redisCache, mock, _ := setup(t)
		mock.ExpectSet(key, jsonData, time.Minute).SetErr(errors.New("OOM"))

		err := redisCache.Set(ctx, key, value, time.Minute)

		require.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDelete(t *testing.T) {
	ctx := t.Context()
	key := cache.Key(cache.OrderKeyPrefix, "o1")

	t.Run("Success", func(t *testing.T) {
		redisCache, mock, _ := setup(t)
		mock.ExpectDel(key).SetVal(1)

		require.NoError(t, redisCache.Delete(ctx, key))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Redis Error", func(t *testing.T) {
		redisCache, mock, _ := setup(t)
		mock.ExpectDel(key).SetErr(errors.New("timeout"))

		require.Error(t, redisCache.Delete(ctx, key))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
