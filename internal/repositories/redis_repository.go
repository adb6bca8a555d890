package repository

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/revorbit/auto-frames/internal/api/middleware"
	"github.com/revorbit/auto-frames/internal/config"
)

type RateLimitRepository interface {
	CheckPromoRateLimit(ctx context.Context, customerID uuid.UUID) (bool, int, int, error)
}

type redisRepository struct {
	client *redis.Client
	cfg    *config.RateConfig
	now    func() time.Time
}

func NewRedisClient(cfg *config.Config) (*redis.Client, error) {

	redisURL := cfg.RedisConnect.GetDSN()
	slog.Info("Connecting to Redis", slog.String("url", fmt.Sprintf("redis://%s:<password>@%s:%s", cfg.RedisConnect.Username, cfg.RedisConnect.Host, cfg.RedisConnect.Port)))

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		slog.Error("Failed to parse Redis URL", slog.Any("error", err))
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opt.DB = cfg.RedisConnect.DB

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		slog.Error("Failed to connect to Redis", slog.Any("error", err))
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("Successfully connected to Redis")
	return client, nil
}

func NewRateLimitRepo(client *redis.Client, cfg *config.RateConfig) RateLimitRepository {
	return &redisRepository{client: client, cfg: cfg, now: time.Now}
}

func promoAttemptsKey(customerID uuid.UUID) string {
	return "promo_attempts:" + customerID.String()
}

// CheckPromoRateLimit records one promo code attempt in a sliding window.
// Returns isAllowed, attempts left, seconds to wait, error.
func (r *redisRepository) CheckPromoRateLimit(ctx context.Context, customerID uuid.UUID) (bool, int, int, error) {

	logger := middleware.LoggerFromContext(ctx)

	key := promoAttemptsKey(customerID)
	now := r.now()
	window := r.cfg.WindowSize

	windowStart := now.Add(-window).UnixMilli()

	pipe := r.client.Pipeline()

	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))

	// scores are milliseconds; nanosecond members keep close attempts distinct
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixMilli()), Member: now.UnixNano()})

	count := pipe.ZCard(ctx, key)

	pipe.Expire(ctx, key, window)

	if _, err := pipe.Exec(ctx); err != nil {
		logger.Error("Redis pipeline execution failed for rate limit", slog.String("key", key), slog.Any("error", err))
		return false, 0, 0, fmt.Errorf("redis pipeline error for rate limit check: %w", err)
	}

	attempts := count.Val()

	if attempts > r.cfg.MaxAttempts {

		// a limited caller always gets a positive wait, even for sub-second windows
		fullWindow := max(int(math.Ceil(window.Seconds())), 1)

		scores, err := r.client.ZRangeWithScores(ctx, key, 0, 0).Result()
		if err != nil {
			logger.Error("Failed to get oldest attempt time for rate limit", slog.String("key", key), slog.Any("error", err))
			return false, 0, fullWindow, fmt.Errorf("failed to get oldest attempt time: %w", err)
		}
		if len(scores) == 0 {
			return false, 0, fullWindow, nil
		}

		oldest := time.UnixMilli(int64(scores[0].Score))
		retryAfter := max(int(oldest.Add(window).Sub(now).Seconds()+0.5), 1)

		logger.Warn("Promo rate limit exceeded", slog.String("customer_id", customerID.String()), slog.Int64("attempts", attempts))
		return false, 0, retryAfter, nil
	}

	remaining := r.cfg.MaxAttempts - attempts

	logger.Debug("Rate limit check passed", slog.String("customer_id", customerID.String()), slog.Int64("attempts", attempts), slog.Int64("remaining", remaining))
	return true, int(remaining), 0, nil
}
