package repository

import (
	"strconv"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/revorbit/auto-frames/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRateLimiter(t *testing.T, now time.Time) (*redisRepository, redismock.ClientMock) {
	t.Helper()

	client, mock := redismock.NewClientMock()
	repo := &redisRepository{
		client: client,
		cfg:    &config.RateConfig{MaxAttempts: 3, WindowSize: time.Minute},
		now:    func() time.Time { return now },
	}

	return repo, mock
}

func expectAttempt(mock redismock.ClientMock, key string, now time.Time, window time.Duration, count int64) {
	mock.ExpectZRemRangeByScore(key, "0", strconv.FormatInt(now.Add(-window).UnixMilli(), 10)).SetVal(0)
	mock.ExpectZAdd(key, redis.Z{Score: float64(now.UnixMilli()), Member: now.UnixNano()}).SetVal(1)
	mock.ExpectZCard(key).SetVal(count)
	mock.ExpectExpire(key, window).SetVal(true)
}

func TestCheckPromoRateLimit(t *testing.T) {
	ctx := t.Context()
	customerID := uuid.New()
	key := promoAttemptsKey(customerID)
	now := time.Unix(1_700_000_000, 0)

	t.Run("Allowed - Within Limit", func(t *testing.T) {
		repo, mock := setupRateLimiter(t, now)
		expectAttempt(mock, key, now, time.Minute, 1)

		allowed, remaining, retryAfter, err := repo.CheckPromoRateLimit(ctx, customerID)

		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, 2, remaining)
		assert.Zero(t, retryAfter)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Allowed - Last Attempt", func(t *testing.T) {
		repo, mock := setupRateLimiter(t, now)
		expectAttempt(mock, key, now, time.Minute, 3)

		allowed, remaining, _, err := repo.CheckPromoRateLimit(ctx, customerID)

		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Zero(t, remaining)
	})

	t.Run("Denied - Retry After Oldest Attempt Expires", func(t *testing.T) {
		repo, mock := setupRateLimiter(t, now)
		expectAttempt(mock, key, now, time.Minute, 4)

		oldest := now.Add(-40 * time.Second)
		mock.ExpectZRangeWithScores(key, 0, 0).SetVal([]redis.Z{{Score: float64(oldest.UnixMilli()), Member: strconv.FormatInt(oldest.UnixNano(), 10)}})

		allowed, remaining, retryAfter, err := repo.CheckPromoRateLimit(ctx, customerID)

		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Zero(t, remaining)
		assert.Equal(t, 20, retryAfter)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Denied - Sub-Second Window Still Asks To Wait", func(t *testing.T) {
		repo, mock := setupRateLimiter(t, now)
		window := 500 * time.Millisecond
		repo.cfg.WindowSize = window
		expectAttempt(mock, key, now, window, 4)
		mock.ExpectZRangeWithScores(key, 0, 0).SetVal([]redis.Z{})

		allowed, _, retryAfter, err := repo.CheckPromoRateLimit(ctx, customerID)

		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Equal(t, 1, retryAfter)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Denied - Oldest Attempt Lookup Fails", func(t *testing.T) {
		repo, mock := setupRateLimiter(t, now)
		window := 500 * time.Millisecond
		repo.cfg.WindowSize = window
		expectAttempt(mock, key, now, window, 4)
		mock.ExpectZRangeWithScores(key, 0, 0).SetErr(redis.ErrClosed)

		allowed, _, retryAfter, err := repo.CheckPromoRateLimit(ctx, customerID)

		assert.Error(t, err)
		assert.False(t, allowed)
		assert.Equal(t, 1, retryAfter)
	})

	t.Run("Failure - Pipeline Error", func(t *testing.T) {
		repo, mock := setupRateLimiter(t, now)
		mock.ExpectZRemRangeByScore(key, "0", strconv.FormatInt(now.Add(-time.Minute).UnixMilli(), 10)).SetErr(redis.ErrClosed)

		allowed, _, _, err := repo.CheckPromoRateLimit(ctx, customerID)

		assert.Error(t, err)
		assert.False(t, allowed)
	})
}
