package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/revorbit/auto-frames/internal/checkout"
	"github.com/revorbit/auto-frames/internal/errors"
	"github.com/revorbit/auto-frames/internal/models"
	service "github.com/revorbit/auto-frames/internal/services"
	"github.com/revorbit/auto-frames/internal/utils"
	"github.com/revorbit/auto-frames/internal/utils/response"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
	validator       *validator.Validate
}

func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService, validator: validator.New()}
}

// sessionRequest resolves the caller and the session id shared by every session route.
func (h *CheckoutHandler) sessionRequest(w http.ResponseWriter, r *http.Request) (*models.Claims, uuid.UUID, *slog.Logger, bool) {

	claims, logger, ok := authenticated(w, r)
	if !ok {
		return nil, uuid.Nil, logger, false
	}

	id, err := utils.ParseID(r, "id")
	if err != nil {
		logger.Warn("Invalid checkout session id", slog.String("error", err.Error()))
		response.Error(w, err)
		return nil, uuid.Nil, logger, false
	}

	return claims, id, logger.With(slog.String("sessionID", id.String())), true
}

func (h *CheckoutHandler) writeView(w http.ResponseWriter, logger *slog.Logger, action string, status int, view *checkout.View, err error) {

	if err != nil {
		logger.Warn("Checkout "+action+" failed", slog.Any("error", err))
		response.Error(w, err)
		return
	}

	logger.Info("Checkout "+action, slog.String("step", string(view.Step)))
	response.Success(w, status, view)
}

// StartCheckout godoc
//
//	@Summary		Start a checkout session
//	@Description	Starts the wizard from the cart or from a saved design draft.
//	@Tags			Checkout
//	@Accept			json
//	@Produce		json
//	@Param			request	body		models.StartCheckoutRequest	true	"Checkout origin"
//	@Success		201		{object}	checkout.View
//	@Failure		400		{object}	response.ErrorResponse	"Empty cart or invalid origin"
//	@Failure		404		{object}	response.ErrorResponse	"Design not found"
//	@Failure		409		{object}	response.ErrorResponse	"Design already ordered"
//	@Security		BearerAuth
//	@Router			/checkout/sessions [post]
func (h *CheckoutHandler) StartCheckout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, logger, ok := authenticated(w, r)
		if !ok {
			return
		}

		var req models.StartCheckoutRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid start checkout input")
			return
		}

		view, err := h.checkoutService.StartCheckout(r.Context(), claims.UserID, &req)
		h.writeView(w, logger, "started", http.StatusCreated, view, err)
	}
}

// GetCheckout godoc
//
//	@Summary	Get a checkout session
//	@Tags		Checkout
//	@Produce	json
//	@Param		id	path		string	true	"Session ID"	Format(uuid)
//	@Success	200	{object}	checkout.View
//	@Failure	404	{object}	response.ErrorResponse	"Session not found"
//	@Security	BearerAuth
//	@Router		/checkout/sessions/{id} [get]
func (h *CheckoutHandler) GetCheckout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, id, logger, ok := h.sessionRequest(w, r)
		if !ok {
			return
		}

		view, err := h.checkoutService.GetCheckout(r.Context(), claims.UserID, id)
		if err != nil {
			logger.Warn("Failed to get checkout session", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, view)
	}
}

// RefreshCart godoc
//
//	@Summary		Re-read the cart into the session
//	@Description	Only allowed before pricing locks on the payment step.
//	@Tags			Checkout
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"	Format(uuid)
//	@Success		200	{object}	checkout.View
//	@Failure		409	{object}	response.ErrorResponse	"Pricing locked"
//	@Security		BearerAuth
//	@Router			/checkout/sessions/{id}/refresh [post]
func (h *CheckoutHandler) RefreshCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, id, logger, ok := h.sessionRequest(w, r)
		if !ok {
			return
		}

		view, err := h.checkoutService.RefreshCart(r.Context(), claims.UserID, id)
		h.writeView(w, logger, "cart refreshed", http.StatusOK, view, err)
	}
}

// UpdateShipping godoc
//
//	@Summary	Save shipping details
//	@Tags		Checkout
//	@Accept		json
//	@Produce	json
//	@Param		id			path		string					true	"Session ID"	Format(uuid)
//	@Param		shipping	body		models.ShippingDetails	true	"Shipping details"
//	@Success	200			{object}	checkout.View
//	@Failure	409			{object}	response.ErrorResponse	"Pricing locked"
//	@Security	BearerAuth
//	@Router		/checkout/sessions/{id}/shipping [put]
func (h *CheckoutHandler) UpdateShipping() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, id, logger, ok := h.sessionRequest(w, r)
		if !ok {
			return
		}

		var req models.ShippingDetails
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid shipping details input")
			return
		}

		view, err := h.checkoutService.UpdateShipping(r.Context(), claims.UserID, id, &req)
		h.writeView(w, logger, "shipping updated", http.StatusOK, view, err)
	}
}

// SelectShippingMethod godoc
//
//	@Summary	Select a shipping tier
//	@Tags		Checkout
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string								true	"Session ID"	Format(uuid)
//	@Param		method	body		models.SelectShippingMethodRequest	true	"Shipping tier"
//	@Success	200		{object}	checkout.View
//	@Failure	409		{object}	response.ErrorResponse	"Pricing locked"
//	@Security	BearerAuth
//	@Router		/checkout/sessions/{id}/shipping-method [put]
func (h *CheckoutHandler) SelectShippingMethod() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, id, logger, ok := h.sessionRequest(w, r)
		if !ok {
			return
		}

		var req models.SelectShippingMethodRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid shipping method input")
			return
		}

		view, err := h.checkoutService.SelectShippingMethod(r.Context(), claims.UserID, id, req.MethodID)
		h.writeView(w, logger, "shipping method selected", http.StatusOK, view, err)
	}
}

// ApplyPromo godoc
//
//	@Summary		Apply a promo code
//	@Description	An unknown code answers 200 with promo.status "invalid". Attempts are rate limited per customer.
//	@Tags			Checkout
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Session ID"	Format(uuid)
//	@Param			promo	body		models.ApplyPromoRequest	true	"Promo code"
//	@Success		200		{object}	service.PromoResponse
//	@Failure		409		{object}	response.ErrorResponse	"Pricing locked"
//	@Failure		429		{object}	response.ErrorResponse	"Too many attempts"
//	@Security		BearerAuth
//	@Router			/checkout/sessions/{id}/promo [post]
func (h *CheckoutHandler) ApplyPromo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, id, logger, ok := h.sessionRequest(w, r)
		if !ok {
			return
		}

		var req models.ApplyPromoRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid promo input")
			return
		}

		result, err := h.checkoutService.ApplyPromo(r.Context(), claims.UserID, id, req.Code)
		if err != nil {
			logger.Warn("Failed to apply promo", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		if result.RetryAfter > 0 {
			logger.Warn("Promo attempts rate limited", slog.Int("retryAfter", result.RetryAfter))
			w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
			response.Error(w, errors.TooManyRequestsError("Too many promo attempts. Please try again later"))
			return
		}

		logger.Info("Promo evaluated", slog.String("status", string(result.Promo.Status)))
		response.Success(w, http.StatusOK, result)
	}
}

// RemovePromo godoc
//
//	@Summary	Remove the applied promo code
//	@Tags		Checkout
//	@Produce	json
//	@Param		id	path		string	true	"Session ID"	Format(uuid)
//	@Success	200	{object}	service.PromoResponse
//	@Failure	409	{object}	response.ErrorResponse	"Pricing locked"
//	@Security	BearerAuth
//	@Router		/checkout/sessions/{id}/promo [delete]
func (h *CheckoutHandler) RemovePromo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, id, logger, ok := h.sessionRequest(w, r)
		if !ok {
			return
		}

		result, err := h.checkoutService.RemovePromo(r.Context(), claims.UserID, id)
		if err != nil {
			logger.Warn("Failed to remove promo", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, result)
	}
}

// Advance godoc
//
//	@Summary		Advance to the next step
//	@Description	Leaving the payment step submits the order once the payment has completed.
//	@Tags			Checkout
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"	Format(uuid)
//	@Success		200	{object}	checkout.View
//	@Failure		400	{object}	response.ErrorResponse	"Missing required fields"
//	@Failure		402	{object}	response.ErrorResponse	"Payment not completed"
//	@Failure		409	{object}	response.ErrorResponse	"Already on the final step"
//	@Failure		502	{object}	response.ErrorResponse	"Order submission failed"
//	@Security		BearerAuth
//	@Router			/checkout/sessions/{id}/advance [post]
func (h *CheckoutHandler) Advance() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, id, logger, ok := h.sessionRequest(w, r)
		if !ok {
			return
		}

		view, err := h.checkoutService.Advance(r.Context(), claims, id)
		h.writeView(w, logger, "advanced", http.StatusOK, view, err)
	}
}

// Retreat godoc
//
//	@Summary	Go back one step
//	@Tags		Checkout
//	@Produce	json
//	@Param		id	path		string	true	"Session ID"	Format(uuid)
//	@Success	200	{object}	checkout.View
//	@Failure	409	{object}	response.ErrorResponse	"Order already placed"
//	@Security	BearerAuth
//	@Router		/checkout/sessions/{id}/retreat [post]
func (h *CheckoutHandler) Retreat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, id, logger, ok := h.sessionRequest(w, r)
		if !ok {
			return
		}

		view, err := h.checkoutService.Retreat(r.Context(), claims.UserID, id)
		h.writeView(w, logger, "retreated", http.StatusOK, view, err)
	}
}

// CreatePayment godoc
//
//	@Summary		Create the gateway payment
//	@Description	Creates a payment intent for the amount due in paise. Repeated calls reuse the pending intent.
//	@Tags			Checkout
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"	Format(uuid)
//	@Success		200	{object}	models.PaymentResponse
//	@Failure		409	{object}	response.ErrorResponse	"Not on the payment step or already paid"
//	@Failure		500	{object}	response.ErrorResponse	"Gateway error"
//	@Security		BearerAuth
//	@Router			/checkout/sessions/{id}/payment [post]
func (h *CheckoutHandler) CreatePayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, id, logger, ok := h.sessionRequest(w, r)
		if !ok {
			return
		}

		payment, err := h.checkoutService.CreatePayment(r.Context(), claims, id)
		if err != nil {
			logger.Error("Failed to create payment", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Payment intent ready", slog.String("paymentIntentID", payment.Payment.ID))
		response.Success(w, http.StatusOK, payment)
	}
}
