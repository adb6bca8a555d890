package cache

import (
	"context"
	"time"
)

// Cache holds checkout sessions and the order read-through cache as JSON.
// A ttl <= 0 falls back to the configured default.
type Cache interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Key builds keys such as checkout:<session id> and order:<order id>.
func Key(prefix string, id string) string {
	return prefix + ":" + id
}

const (
	CheckoutKeyPrefix = "checkout"
	OrderKeyPrefix    = "order"
)
