package utils

import (
	"context"
	"time"
)

// DefaultDBTimeout bounds a single Postgres query from the repositories.
const DefaultDBTimeout = 5 * time.Second

// WithDBTimeout derives the context every repository query runs under.
func WithDBTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, DefaultDBTimeout)
}
