package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/revorbit/auto-frames/internal/api/middleware"
	"github.com/revorbit/auto-frames/internal/cache"
	"github.com/revorbit/auto-frames/internal/errors"
	"github.com/revorbit/auto-frames/internal/models"
	repository "github.com/revorbit/auto-frames/internal/repositories"
	"github.com/revorbit/auto-frames/pkg/stripe"
)

const maxOrderPageSize = 10

type OrderService interface {
	GetOrderByID(ctx context.Context, requester *models.Claims, id uuid.UUID) (*models.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID, page, size int) ([]*models.Order, int, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error)
}

type orderService struct {
	repo         repository.OrderRepository
	cache        cache.Cache
	stripeClient stripe.Client
}

func NewOrderService(repo repository.OrderRepository, c cache.Cache, stripeClient stripe.Client) OrderService {
	return &orderService{repo: repo, cache: c, stripeClient: stripeClient}
}

// GetOrderByID serves the account dashboard. Customers only see their own orders; admins see all.
func (s *orderService) GetOrderByID(ctx context.Context, requester *models.Claims, id uuid.UUID) (*models.Order, error) {

	logger := middleware.LoggerFromContext(ctx)
	key := cache.Key(cache.OrderKeyPrefix, id.String())

	order := &models.Order{}

	found, err := s.cache.Get(ctx, key, order)
	if err != nil {
		logger.Warn("order cache read failed", slog.String("orderID", id.String()), slog.Any("error", err))
	}

	if !found {
		order, err = s.repo.GetOrderByID(ctx, id)
		if err != nil {
			return nil, repoError(err, "Order not found", "Failed to get order")
		}

		if err := s.cache.Set(ctx, key, order, 0); err != nil {
			logger.Warn("order cache write failed", slog.String("orderID", id.String()), slog.Any("error", err))
		}
	}

	if order.CustomerID != requester.UserID && !requester.IsAdmin() {
		return nil, errors.NotFoundError("Order not found")
	}

	return order, nil
}

func (s *orderService) ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID, page, size int) ([]*models.Order, int, error) {

	page, size = normalizePage(page, size, maxOrderPageSize)

	orders, total, err := s.repo.ListOrdersByCustomer(ctx, customerID, page, size)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	return orders, total, nil
}

// UpdateOrderStatus is the back-office transition. Cancelling a paid order refunds it in full;
// the refund webhook later marks the payment refunded.
func (s *orderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {

	current, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "Order not found", "Failed to get order")
	}

	if current.Status == models.OrderStatusCancelled && status != models.OrderStatusCancelled {
		return nil, errors.ConflictError("Cancelled orders cannot be reopened")
	}

	refund := status == models.OrderStatusCancelled &&
		current.Status != models.OrderStatusCancelled &&
		current.PaymentStatus == models.PaymentStatusSucceeded &&
		current.PaymentIntentID != ""

	if refund {
		if _, err := s.stripeClient.RefundPayment(ctx, current.PaymentIntentID, 0); err != nil {
			return nil, errors.ThirdPartyError("Failed to refund payment").WithError(err)
		}
	}

	order, err := s.repo.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return nil, repoError(err, "Order not found", "Failed to update order status")
	}

	if err := s.cache.Delete(ctx, cache.Key(cache.OrderKeyPrefix, id.String())); err != nil {
		middleware.LoggerFromContext(ctx).Warn("order cache invalidation failed", slog.String("orderID", id.String()), slog.Any("error", err))
	}

	return order, nil
}
