package service

import (
	"context"
	stdErrors "errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/revorbit/auto-frames/internal/api/middleware"
	"github.com/revorbit/auto-frames/internal/cache"
	"github.com/revorbit/auto-frames/internal/checkout"
	"github.com/revorbit/auto-frames/internal/errors"
	"github.com/revorbit/auto-frames/internal/models"
	repository "github.com/revorbit/auto-frames/internal/repositories"
	"github.com/revorbit/auto-frames/pkg/stripe"
)

type PaymentService interface {
	ProcessWebhook(ctx context.Context, payload []byte, signature string) (stripe.Event, error)
}

type paymentService struct {
	repo         repository.PaymentRepository
	orderRepo    repository.OrderRepository
	sessions     repository.SessionRepository
	cache        cache.Cache
	stripeClient stripe.Client
}

func NewPaymentService(repo repository.PaymentRepository, orderRepo repository.OrderRepository, sessions repository.SessionRepository, c cache.Cache, stripeClient stripe.Client) PaymentService {
	return &paymentService{repo: repo, orderRepo: orderRepo, sessions: sessions, cache: c, stripeClient: stripeClient}
}

// ProcessWebhook is the gateway callback. Unknown payments and event types are acknowledged
// without changes so the gateway stops retrying them.
func (s *paymentService) ProcessWebhook(ctx context.Context, payload []byte, signature string) (stripe.Event, error) {

	event, err := s.stripeClient.VerifyWebhookSignature(payload, signature)
	if err != nil {
		return stripe.Event{}, errors.BadRequestError("Webhook signature verification failed").WithError(err)
	}

	switch event.Type {
	case stripe.EventPaymentIntentSucceeded:
		pi, err := stripe.PaymentIntentFromEvent(event)
		if err != nil {
			return event, errors.BadRequestError("Invalid payment intent in webhook").WithError(err)
		}

		if err := s.updateStatus(ctx, pi.ID, models.PaymentStatusSucceeded); err != nil {
			return event, err
		}

		s.completeCheckout(ctx, pi)

	case stripe.EventPaymentIntentFailed:
		pi, err := stripe.PaymentIntentFromEvent(event)
		if err != nil {
			return event, errors.BadRequestError("Invalid payment intent in webhook").WithError(err)
		}

		if err := s.updateStatus(ctx, pi.ID, models.PaymentStatusFailed); err != nil {
			return event, err
		}

	case stripe.EventChargeRefunded:
		intentID, err := stripe.RefundedIntentID(event)
		if err != nil {
			return event, errors.BadRequestError("Missing payment intent ID in webhook").WithError(err)
		}

		if err := s.updateStatus(ctx, intentID, models.PaymentStatusRefunded); err != nil {
			return event, err
		}

		if err := s.refundOrder(ctx, intentID); err != nil {
			return event, err
		}
	}

	return event, nil
}

func (s *paymentService) updateStatus(ctx context.Context, intentID string, status models.PaymentStatus) error {

	err := s.repo.UpdatePaymentStatus(ctx, intentID, status)
	if stdErrors.Is(err, repository.ErrNotFound) {
		middleware.LoggerFromContext(ctx).Warn("Webhook for unknown payment", slog.String("paymentID", intentID))
		return nil
	}
	if err != nil {
		return errors.DatabaseError("Failed to update payment status").WithError(err)
	}

	return nil
}

// completeCheckout marks the session paid. A missing or expired session is not an error:
// the payment row stays succeeded and the session reconciles from it on its next read.
func (s *paymentService) completeCheckout(ctx context.Context, pi *stripe.PaymentIntent) {

	logger := middleware.LoggerFromContext(ctx).With(slog.String("paymentID", pi.ID))

	sessionID, err := uuid.Parse(pi.Metadata["checkout_session_id"])
	if err != nil {
		logger.Warn("Payment intent has no checkout session")
		return
	}

	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		logger.Warn("Checkout session unavailable for payment", slog.String("sessionID", sessionID.String()), slog.Any("error", err))
		return
	}

	if err := session.MarkPaymentCompleted(pi.ID, stripe.AmountPaid(pi)); err != nil {
		if stdErrors.Is(err, checkout.ErrAlreadyPaid) {
			logger.Error("Checkout already paid by another payment", slog.String("sessionID", sessionID.String()))
		}
		return
	}

	if err := s.sessions.SaveSession(ctx, session); err != nil {
		logger.Warn("Failed to save paid checkout session", slog.String("sessionID", sessionID.String()), slog.Any("error", err))
	}
}

func (s *paymentService) refundOrder(ctx context.Context, intentID string) error {

	payment, err := s.repo.GetPaymentByID(ctx, intentID)
	if err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return errors.DatabaseError("Failed to get payment").WithError(err)
	}

	order, err := s.orderRepo.GetOrderBySessionID(ctx, payment.CheckoutSessionID)
	if err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return errors.DatabaseError("Failed to get order").WithError(err)
	}

	// a payment refunded before checkout completed belongs to no order
	if order.PaymentIntentID != intentID {
		return nil
	}

	if err := s.orderRepo.UpdatePaymentStatusBySession(ctx, payment.CheckoutSessionID, models.PaymentStatusRefunded); err != nil {
		return repoError(err, "Order not found", "Failed to update order payment status")
	}

	if err := s.cache.Delete(ctx, cache.Key(cache.OrderKeyPrefix, order.ID.String())); err != nil {
		middleware.LoggerFromContext(ctx).Warn("order cache invalidation failed", slog.String("orderID", order.ID.String()), slog.Any("error", err))
	}

	return nil
}
