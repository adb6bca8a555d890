package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/revorbit/auto-frames/internal/api/middleware"
	"github.com/revorbit/auto-frames/internal/errors"
	service "github.com/revorbit/auto-frames/internal/services"
	"github.com/revorbit/auto-frames/internal/utils/response"
)

// Stripe rejects webhook payloads above this size.
const maxWebhookBodyBytes = 65536

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// HandleStripeWebhook godoc
//
//	@Summary		Payment gateway callback
//	@Description	Verifies the Stripe-Signature header and records payment success, failure or refund.
//	@Tags			Payments
//	@Accept			json
//	@Produce		json
//	@Param			Stripe-Signature	header		string	true	"Stripe webhook signature"
//	@Success		200					{object}	response.APIResponse
//	@Failure		400					{object}	response.ErrorResponse	"Invalid payload or signature"
//	@Router			/payments/webhook [post]
func (h *PaymentHandler) HandleStripeWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes)

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			logger.Warn("Failed to read webhook body", slog.String("error", err.Error()))
			response.Error(w, errors.BadRequestError("Failed to read request body"))
			return
		}

		signature := r.Header.Get("Stripe-Signature")
		if signature == "" {
			logger.Warn("Webhook called without signature")
			response.Error(w, errors.BadRequestError("Missing Stripe-Signature header"))
			return
		}

		event, err := h.paymentService.ProcessWebhook(r.Context(), payload, signature)
		if err != nil {
			logger.Error("Failed to process webhook", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Webhook processed", slog.String("eventID", event.ID), slog.String("eventType", string(event.Type)))
		response.Success(w, http.StatusOK, map[string]string{"status": "received"})
	}
}
