package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/revorbit/auto-frames/internal/cache"
	"github.com/revorbit/auto-frames/internal/checkout"
)

// SessionRepository keeps in-progress checkout sessions in the cache.
// An expired or unknown session reads as ErrNotFound.
type SessionRepository interface {
	GetSession(ctx context.Context, id uuid.UUID) (*checkout.Session, error)
	SaveSession(ctx context.Context, session *checkout.Session) error
	DeleteSession(ctx context.Context, id uuid.UUID) error
}

type sessionRepository struct {
	cache cache.Cache
	ttl   time.Duration
}

func NewSessionRepo(c cache.Cache, ttl time.Duration) SessionRepository {
	return &sessionRepository{cache: c, ttl: ttl}
}

func (r *sessionRepository) GetSession(ctx context.Context, id uuid.UUID) (*checkout.Session, error) {

	var session checkout.Session

	found, err := r.cache.Get(ctx, cache.Key(cache.CheckoutKeyPrefix, id.String()), &session)
	if err != nil {
		return nil, fmt.Errorf("failed to load checkout session: %w", err)
	}

	if !found {
		return nil, fmt.Errorf("checkout session %s: %w", id, ErrNotFound)
	}

	return &session, nil
}

// SaveSession refreshes the expiry on every write.
func (r *sessionRepository) SaveSession(ctx context.Context, session *checkout.Session) error {

	if err := r.cache.Set(ctx, cache.Key(cache.CheckoutKeyPrefix, session.ID.String()), session, r.ttl); err != nil {
		return fmt.Errorf("failed to save checkout session: %w", err)
	}

	return nil
}

func (r *sessionRepository) DeleteSession(ctx context.Context, id uuid.UUID) error {

	if err := r.cache.Delete(ctx, cache.Key(cache.CheckoutKeyPrefix, id.String())); err != nil {
		return fmt.Errorf("failed to delete checkout session: %w", err)
	}

	return nil
}
