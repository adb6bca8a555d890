package handlers

import (
	"log/slog"
	"net/http"

	service "github.com/revorbit/auto-frames/internal/services"
	"github.com/revorbit/auto-frames/internal/utils"
	"github.com/revorbit/auto-frames/internal/utils/response"
)

type NotificationHandler struct {
	notificationService service.NotificationService
	orderService        service.OrderService
}

func NewNotificationHandler(notificationService service.NotificationService, orderService service.OrderService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		orderService:        orderService,
	}
}

// ListOrderNotifications godoc
//
//	@Summary	List confirmation emails sent for an order
//	@Tags		Admin
//	@Produce	json
//	@Param		id	path		string	true	"Order ID (UUID)"	Format(uuid)
//	@Success	200	{array}		models.Notification
//	@Failure	403	{object}	response.ErrorResponse	"Admin role required"
//	@Security	BearerAuth
//	@Router		/admin/orders/{id}/notifications [get]
func (h *NotificationHandler) ListOrderNotifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		_, logger, ok := authenticated(w, r)
		if !ok {
			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid order id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		notifications, err := h.notificationService.ListOrderNotifications(r.Context(), id)
		if err != nil {
			logger.Error("Failed to list notifications", slog.String("orderId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, notifications)
	}
}

// ResendOrderConfirmation godoc
//
//	@Summary		Resend the order confirmation email
//	@Description	Sends the confirmation again to the order's shipping email.
//	@Tags			Admin
//	@Produce		json
//	@Param			id	path		string	true	"Order ID (UUID)"	Format(uuid)
//	@Success		201	{object}	models.Notification
//	@Failure		400	{object}	response.ErrorResponse	"Order has no email address"
//	@Failure		404	{object}	response.ErrorResponse	"Order not found"
//	@Failure		500	{object}	response.ErrorResponse	"Email provider error"
//	@Security		BearerAuth
//	@Router			/admin/orders/{id}/notifications [post]
func (h *NotificationHandler) ResendOrderConfirmation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, logger, ok := authenticated(w, r)
		if !ok {
			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid order id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger = logger.With(slog.String("orderId", id.String()))

		order, err := h.orderService.GetOrderByID(r.Context(), claims, id)
		if err != nil {
			logger.Warn("Failed to get order", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		notification, err := h.notificationService.SendOrderConfirmation(r.Context(), order, order.ShippingAddress.Email)
		if err != nil {
			logger.Error("Failed to resend confirmation", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Order confirmation resent", slog.String("notificationId", notification.ID.String()))
		response.Success(w, http.StatusCreated, notification)
	}
}
