package service

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/revorbit/auto-frames/internal/api/middleware"
	"github.com/revorbit/auto-frames/internal/checkout"
	"github.com/revorbit/auto-frames/internal/errors"
	"github.com/revorbit/auto-frames/internal/metrics"
	"github.com/revorbit/auto-frames/internal/models"
	"github.com/revorbit/auto-frames/internal/pricing"
	repository "github.com/revorbit/auto-frames/internal/repositories"
	"github.com/revorbit/auto-frames/pkg/stripe"
)

const (
	paymentMethodStripe = "stripe"
	customDesignProduct = "custom-design"
)

type PromoResponse struct {
	Promo             checkout.PromoResult `json:"promo"`
	Checkout          *checkout.View       `json:"checkout,omitempty"`
	RemainingAttempts int                  `json:"remaining_attempts,omitempty"`
	RetryAfter        int                  `json:"retry_after,omitempty"`
}

type CheckoutService interface {
	StartCheckout(ctx context.Context, customerID uuid.UUID, req *models.StartCheckoutRequest) (*checkout.View, error)
	GetCheckout(ctx context.Context, customerID, sessionID uuid.UUID) (*checkout.View, error)
	RefreshCart(ctx context.Context, customerID, sessionID uuid.UUID) (*checkout.View, error)
	UpdateShipping(ctx context.Context, customerID, sessionID uuid.UUID, details *models.ShippingDetails) (*checkout.View, error)
	SelectShippingMethod(ctx context.Context, customerID, sessionID uuid.UUID, methodID string) (*checkout.View, error)
	ApplyPromo(ctx context.Context, customerID, sessionID uuid.UUID, code string) (*PromoResponse, error)
	RemovePromo(ctx context.Context, customerID, sessionID uuid.UUID) (*PromoResponse, error)
	Advance(ctx context.Context, claims *models.Claims, sessionID uuid.UUID) (*checkout.View, error)
	Retreat(ctx context.Context, customerID, sessionID uuid.UUID) (*checkout.View, error)
	CreatePayment(ctx context.Context, claims *models.Claims, sessionID uuid.UUID) (*models.PaymentResponse, error)
}

type CheckoutDeps struct {
	Sessions      repository.SessionRepository
	Carts         repository.CartRepository
	Designs       repository.DesignRepository
	Orders        repository.OrderRepository
	Payments      repository.PaymentRepository
	RateLimiter   repository.RateLimitRepository
	Stripe        stripe.Client
	Notifications NotificationService
	Currency      string
}

type checkoutService struct {
	CheckoutDeps
}

func NewCheckoutService(deps CheckoutDeps) CheckoutService {
	if deps.Currency == "" {
		deps.Currency = "inr"
	}

	return &checkoutService{CheckoutDeps: deps}
}

func (s *checkoutService) StartCheckout(ctx context.Context, customerID uuid.UUID, req *models.StartCheckoutRequest) (*checkout.View, error) {

	var session *checkout.Session

	switch req.Origin {
	case models.OriginCart:
		lines, err := s.Carts.ListLines(ctx, customerID)
		if err != nil {
			return nil, errors.DatabaseError("Failed to get cart").WithError(err)
		}

		if len(lines) == 0 {
			return nil, errors.BadRequestError("Cart is empty")
		}

		session = checkout.NewCartSession(customerID, lines)

	case models.OriginDesign:
		if req.DesignID == "" {
			return nil, errors.AddValidationError("design_id", "required for a design checkout")
		}

		designID, err := uuid.Parse(req.DesignID)
		if err != nil {
			return nil, errors.AddValidationError("design_id", "must be a valid UUID").WithError(err)
		}

		design, err := s.Designs.GetDesign(ctx, designID)
		if err != nil {
			return nil, repoError(err, "Design not found", "Failed to get design")
		}

		if design.CustomerID != customerID {
			return nil, errors.NotFoundError("Design not found")
		}

		if design.Status != models.DesignStatusDraft {
			return nil, errors.ConflictError("Design has already been ordered")
		}

		session = checkout.NewDesignSession(customerID, design.ID, design.Config)

	default:
		return nil, errors.AddValidationError("origin", "must be cart or design")
	}

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}

	middleware.LoggerFromContext(ctx).Info("Checkout started",
		slog.String("sessionID", session.ID.String()),
		slog.String("origin", string(session.Origin)))

	view := session.View()
	return &view, nil
}

func (s *checkoutService) GetCheckout(ctx context.Context, customerID, sessionID uuid.UUID) (*checkout.View, error) {

	session, err := s.load(ctx, customerID, sessionID)
	if err != nil {
		return nil, err
	}

	if s.syncPayment(ctx, session) {
		if err := s.save(ctx, session); err != nil {
			return nil, err
		}
	}

	view := session.View()
	return &view, nil
}

// RefreshCart reloads the lines of a cart checkout after the customer edited the cart.
func (s *checkoutService) RefreshCart(ctx context.Context, customerID, sessionID uuid.UUID) (*checkout.View, error) {

	return s.mutate(ctx, customerID, sessionID, func(session *checkout.Session) error {
		if session.Origin != models.OriginCart {
			return checkout.ErrOriginMismatch
		}

		lines, err := s.Carts.ListLines(ctx, customerID)
		if err != nil {
			return errors.DatabaseError("Failed to get cart").WithError(err)
		}

		if len(lines) == 0 {
			return errors.BadRequestError("Cart is empty")
		}

		return s.changePricing(ctx, session, func() error {
			return session.ReplaceLines(lines)
		})
	})
}

func (s *checkoutService) UpdateShipping(ctx context.Context, customerID, sessionID uuid.UUID, details *models.ShippingDetails) (*checkout.View, error) {

	clean := models.ShippingDetails{
		FullName: sanitizeText(details.FullName),
		Phone:    sanitizeText(details.Phone),
		Email:    details.Email,
		Address1: sanitizeText(details.Address1),
		Address2: sanitizeText(details.Address2),
		City:     sanitizeText(details.City),
		State:    sanitizeText(details.State),
		Pincode:  sanitizeText(details.Pincode),
	}

	return s.mutate(ctx, customerID, sessionID, func(session *checkout.Session) error {
		return session.UpdateShipping(clean)
	})
}

func (s *checkoutService) SelectShippingMethod(ctx context.Context, customerID, sessionID uuid.UUID, methodID string) (*checkout.View, error) {

	return s.mutate(ctx, customerID, sessionID, func(session *checkout.Session) error {
		return s.changePricing(ctx, session, func() error {
			return session.SelectShippingMethod(methodID)
		})
	})
}

// ApplyPromo is rate limited per customer. A limited attempt returns RetryAfter and leaves the session untouched.
func (s *checkoutService) ApplyPromo(ctx context.Context, customerID, sessionID uuid.UUID, code string) (*PromoResponse, error) {

	session, err := s.load(ctx, customerID, sessionID)
	if err != nil {
		return nil, err
	}

	allowed, remaining, retryAfter, err := s.RateLimiter.CheckPromoRateLimit(ctx, customerID)
	if err != nil {
		return nil, errors.ThirdPartyError("Rate limit check failed").WithError(err)
	}

	if !allowed {
		metrics.RecordPromoAttempt("rate_limited")
		return &PromoResponse{RetryAfter: retryAfter}, nil
	}

	var result checkout.PromoResult

	err = s.changePricing(ctx, session, func() (err error) {
		result, err = session.ApplyPromo(code)
		return err
	})
	if err != nil {
		return nil, engineError(err)
	}

	metrics.RecordPromoAttempt(string(result.Status))

	if result.Status == checkout.PromoApplied {
		if err := s.save(ctx, session); err != nil {
			return nil, err
		}
	}

	view := session.View()

	return &PromoResponse{Promo: result, Checkout: &view, RemainingAttempts: remaining}, nil
}

func (s *checkoutService) RemovePromo(ctx context.Context, customerID, sessionID uuid.UUID) (*PromoResponse, error) {

	session, err := s.load(ctx, customerID, sessionID)
	if err != nil {
		return nil, err
	}

	var result checkout.PromoResult

	err = s.changePricing(ctx, session, func() (err error) {
		result, err = session.RemovePromo()
		return err
	})
	if err != nil {
		return nil, engineError(err)
	}

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}

	view := session.View()

	return &PromoResponse{Promo: result, Checkout: &view}, nil
}

// Advance moves the wizard forward. Leaving the payment step submits the order exactly once;
// a failed submission keeps the session on payment.
func (s *checkoutService) Advance(ctx context.Context, claims *models.Claims, sessionID uuid.UUID) (*checkout.View, error) {

	logger := middleware.LoggerFromContext(ctx)

	session, err := s.load(ctx, claims.UserID, sessionID)
	if err != nil {
		return nil, err
	}

	synced := s.syncPayment(ctx, session)
	from := session.Step

	to, err := session.Advance(ctx, checkout.SubmitterFunc(s.submitOrder))
	if err != nil {
		if stdErrors.Is(err, checkout.ErrSubmissionFailed) {
			metrics.RecordSubmissionFailure()
			logger.Error("Order submission failed", slog.String("sessionID", sessionID.String()), slog.Any("error", err))
		}

		if synced {
			if saveErr := s.save(ctx, session); saveErr != nil {
				logger.Warn("Failed to persist reconciled payment", slog.String("sessionID", sessionID.String()), slog.Any("error", saveErr))
			}
		}

		return nil, engineError(err)
	}

	metrics.RecordStepTransition(string(session.Origin), string(from), string(to))

	if to.IsTerminal() {
		metrics.RecordOrderSubmitted(string(session.Origin))
		logger.Info("Order submitted",
			slog.String("sessionID", sessionID.String()),
			slog.String("orderID", session.Order.ID.String()))

		s.sendConfirmation(ctx, session, claims.Email)
	}

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}

	view := session.View()
	return &view, nil
}

func (s *checkoutService) Retreat(ctx context.Context, customerID, sessionID uuid.UUID) (*checkout.View, error) {

	session, err := s.load(ctx, customerID, sessionID)
	if err != nil {
		return nil, err
	}

	from := session.Step

	changed, err := session.Retreat()
	if err != nil {
		return nil, engineError(err)
	}

	if changed {
		metrics.RecordStepTransition(string(session.Origin), string(from), string(session.Step))

		if err := s.save(ctx, session); err != nil {
			return nil, err
		}
	}

	view := session.View()
	return &view, nil
}

// CreatePayment opens a gateway payment for the current total and records it on the session,
// which locks the pricing inputs until it completes or is released. A pending payment for the
// same amount is reused, so retries do not create duplicate intents. A completed payment that
// does not match the total is refunded first.
func (s *checkoutService) CreatePayment(ctx context.Context, claims *models.Claims, sessionID uuid.UUID) (*models.PaymentResponse, error) {

	session, err := s.load(ctx, claims.UserID, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Step != checkout.StepPayment {
		return nil, errors.ConflictError("Payment can only be started on the payment step")
	}

	amount, err := session.AmountDue()
	if err != nil {
		return nil, engineError(err)
	}

	if session.PaymentCompleted {
		if session.PaidAmount == amount {
			return nil, engineError(checkout.ErrAlreadyPaid)
		}
		if err := s.refundMismatch(ctx, session); err != nil {
			return nil, err
		}
	}

	existing, err := s.Payments.GetLatestPaymentBySession(ctx, session.ID)
	switch {
	case err == nil && existing.Status == models.PaymentStatusPending && existing.Amount == amount:
		intent, err := s.Stripe.GetPaymentIntent(ctx, existing.ID)
		if err != nil {
			return nil, errors.ThirdPartyError("Failed to get payment intent").WithError(err)
		}
		if err := s.openPayment(ctx, session, existing.ID, amount); err != nil {
			return nil, err
		}
		return &models.PaymentResponse{Payment: existing, ClientSecret: intent.ClientSecret}, nil
	case err != nil && !stdErrors.Is(err, repository.ErrNotFound):
		return nil, errors.DatabaseError("Failed to get payment").WithError(err)
	}

	receiptEmail := session.Shipping.Email
	if receiptEmail == "" {
		receiptEmail = claims.Email
	}

	intent, err := s.Stripe.CreatePaymentIntent(ctx, stripe.PaymentIntentInput{
		Amount:       amount,
		Currency:     s.Currency,
		Description:  fmt.Sprintf("REV-orbit Auto Frames checkout %s", shortID(session.ID)),
		ReceiptEmail: receiptEmail,
		Metadata: map[string]string{
			"checkout_session_id": session.ID.String(),
			"customer_id":         session.CustomerID.String(),
		},
		IdempotencyKey: fmt.Sprintf("%s-%d", session.ID, amount),
	})
	if err != nil {
		return nil, errors.ThirdPartyError("Failed to create payment intent").WithError(err)
	}

	payment := &models.Payment{
		ID:                intent.ID,
		CheckoutSessionID: session.ID,
		CustomerID:        session.CustomerID,
		Amount:            amount,
		Currency:          s.Currency,
		Status:            models.PaymentStatusPending,
		PaymentMethod:     paymentMethodStripe,
	}

	if err := s.Payments.CreatePayment(ctx, payment); err != nil && !stdErrors.Is(err, repository.ErrDuplicate) {
		return nil, errors.DatabaseError("Failed to record payment").WithError(err)
	}

	if err := s.openPayment(ctx, session, intent.ID, amount); err != nil {
		return nil, err
	}

	return &models.PaymentResponse{Payment: payment, ClientSecret: intent.ClientSecret}, nil
}

func (s *checkoutService) openPayment(ctx context.Context, session *checkout.Session, intentID string, amount int64) error {

	if p := session.PendingPayment; p != nil && p.IntentID == intentID && p.Amount == amount {
		return nil
	}

	if err := session.OpenPayment(intentID, amount); err != nil {
		return engineError(err)
	}

	return s.save(ctx, session)
}

// refundMismatch returns a completed payment that does not match the amount due and
// resets the session so the current total can be paid.
func (s *checkoutService) refundMismatch(ctx context.Context, session *checkout.Session) error {

	intentID, paid := session.PaymentIntentID, session.PaidAmount

	if _, err := s.Stripe.RefundPayment(ctx, intentID, paid); err != nil {
		return errors.ThirdPartyError("Failed to refund mismatched payment").WithError(err)
	}

	if err := s.Payments.UpdatePaymentStatus(ctx, intentID, models.PaymentStatusRefunded); err != nil && !stdErrors.Is(err, repository.ErrNotFound) {
		return errors.DatabaseError("Failed to update payment status").WithError(err)
	}

	if err := session.ResetPayment(); err != nil {
		return engineError(err)
	}

	middleware.LoggerFromContext(ctx).Warn("Refunded payment that did not match the checkout total",
		slog.String("sessionID", session.ID.String()),
		slog.String("paymentID", intentID),
		slog.Int64("paid", paid))

	return s.save(ctx, session)
}

// changePricing applies a change to the pricing inputs. When a payment is open for the
// old total it is cancelled at the gateway first and the change is retried.
func (s *checkoutService) changePricing(ctx context.Context, session *checkout.Session, change func() error) error {

	err := change()
	if !stdErrors.Is(err, checkout.ErrPaymentPending) {
		return err
	}

	if err := s.releasePayment(ctx, session); err != nil {
		return err
	}

	return change()
}

// releasePayment cancels the open payment. If the gateway already took the money the
// session is marked paid instead and the change is refused.
func (s *checkoutService) releasePayment(ctx context.Context, session *checkout.Session) error {

	pending := session.PendingPayment

	if _, err := s.Stripe.CancelPaymentIntent(ctx, pending.IntentID); err != nil {
		intent, getErr := s.Stripe.GetPaymentIntent(ctx, pending.IntentID)
		if getErr != nil {
			return errors.ThirdPartyError("Failed to cancel payment intent").WithError(err)
		}

		switch intent.Status {
		case stripe.PaymentIntentStatusSucceeded:
			if markErr := session.MarkPaymentCompleted(intent.ID, stripe.AmountPaid(intent)); markErr != nil {
				return engineError(markErr)
			}
			if err := s.save(ctx, session); err != nil {
				return err
			}
			return engineError(checkout.ErrPricingLocked)
		case stripe.PaymentIntentStatusProcessing:
			return errors.ConflictError("Payment is being processed, please wait for it to finish").WithError(err)
		case stripe.PaymentIntentStatusCanceled:
			// already released at the gateway
		default:
			return errors.ThirdPartyError("Failed to cancel payment intent").WithError(err)
		}
	}

	if err := s.Payments.UpdatePaymentStatus(ctx, pending.IntentID, models.PaymentStatusCanceled); err != nil && !stdErrors.Is(err, repository.ErrNotFound) {
		return errors.DatabaseError("Failed to update payment status").WithError(err)
	}

	session.ReleasePayment(pending.IntentID)

	middleware.LoggerFromContext(ctx).Info("Cancelled open payment after a pricing change",
		slog.String("sessionID", session.ID.String()),
		slog.String("paymentID", pending.IntentID))

	return nil
}

// submitOrder is the order collaborator of the step engine. The session id is the order's
// idempotency key: a repeated submission returns the order already stored.
func (s *checkoutService) submitOrder(ctx context.Context, session *checkout.Session, totals models.OrderTotals) (*models.Order, error) {

	order := &models.Order{
		ID:                uuid.New(),
		CustomerID:        session.CustomerID,
		CheckoutSessionID: session.ID,
		Origin:            session.Origin,
		Status:            models.OrderStatusConfirmed,
		PaymentStatus:     models.PaymentStatusSucceeded,
		PaymentMethod:     paymentMethodStripe,
		PaymentIntentID:   session.PaymentIntentID,
		ShippingAddress:   session.Shipping,
		ShippingMethod:    session.ShippingMethod.ID,
		Totals:            totals,
		DesignID:          session.DesignID,
		Design:            session.Design,
	}

	if session.Promo != nil {
		order.PromoCode = session.Promo.Code
	}

	switch session.Origin {
	case models.OriginCart:
		for _, line := range session.Lines {
			order.Items = append(order.Items, models.OrderItem{
				ID:                line.ID,
				ProductID:         line.ProductID,
				Name:              line.Name,
				Quantity:          line.Quantity,
				UnitPrice:         line.UnitPrice,
				CustomizationNote: line.CustomizationNote,
			})
		}
	case models.OriginDesign:
		if session.Design == nil {
			return nil, fmt.Errorf("design checkout %s has no design", session.ID)
		}
		order.Items = []models.OrderItem{{
			ID:                uuid.New(),
			ProductID:         customDesignProduct,
			Name:              session.Design.FrameStyle.Name + " in " + session.Design.Material.Name,
			Quantity:          1,
			UnitPrice:         totals.Subtotal,
			CustomizationNote: session.Design.Personalization.Text,
		}}
	}

	err := s.Orders.CreateOrder(ctx, order)
	if stdErrors.Is(err, repository.ErrDuplicate) {
		return s.Orders.GetOrderBySessionID(ctx, session.ID)
	}
	if err != nil {
		return nil, err
	}

	return order, nil
}

// syncPayment picks up a gateway confirmation whose webhook update to the session was lost.
func (s *checkoutService) syncPayment(ctx context.Context, session *checkout.Session) bool {

	if session.PaymentCompleted || session.Step != checkout.StepPayment {
		return false
	}

	payment, err := s.Payments.GetLatestPaymentBySession(ctx, session.ID)
	if err != nil {
		if !stdErrors.Is(err, repository.ErrNotFound) {
			middleware.LoggerFromContext(ctx).Warn("Payment lookup failed",
				slog.String("sessionID", session.ID.String()), slog.Any("error", err))
		}
		return false
	}

	if payment.Status != models.PaymentStatusSucceeded {
		return false
	}

	return session.MarkPaymentCompleted(payment.ID, payment.Amount) == nil
}

// sendConfirmation never fails the checkout; the order is already stored.
func (s *checkoutService) sendConfirmation(ctx context.Context, session *checkout.Session, fallbackEmail string) {

	if s.Notifications == nil {
		return
	}

	recipient := session.Shipping.Email
	if recipient == "" {
		recipient = fallbackEmail
	}

	if _, err := s.Notifications.SendOrderConfirmation(ctx, session.Order, recipient); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Order confirmation email failed",
			slog.String("orderID", session.Order.ID.String()), slog.Any("error", err))
	}
}

// mutate applies one engine operation to an owned session and saves it.
func (s *checkoutService) mutate(ctx context.Context, customerID, sessionID uuid.UUID, op func(*checkout.Session) error) (*checkout.View, error) {

	session, err := s.load(ctx, customerID, sessionID)
	if err != nil {
		return nil, err
	}

	if err := op(session); err != nil {
		return nil, engineError(err)
	}

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}

	view := session.View()
	return &view, nil
}

// load hides sessions of other customers behind a not found.
func (s *checkoutService) load(ctx context.Context, customerID, sessionID uuid.UUID) (*checkout.Session, error) {

	session, err := s.Sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, repoError(err, "Checkout session not found", "Failed to load checkout session")
	}

	if session.CustomerID != customerID {
		return nil, errors.NotFoundError("Checkout session not found")
	}

	return session, nil
}

func (s *checkoutService) save(ctx context.Context, session *checkout.Session) error {

	if err := s.Sessions.SaveSession(ctx, session); err != nil {
		return errors.DatabaseError("Failed to save checkout session").WithError(err)
	}

	return nil
}

// engineError maps step engine and pricing failures to API errors.
func engineError(err error) error {

	if appErr, ok := errors.IsAppError(err); ok {
		return appErr
	}

	var validationErr *checkout.ValidationError

	switch {
	case stdErrors.As(err, &validationErr):
		return errors.ValidationError(fmt.Sprintf("Step %s is incomplete", validationErr.Step)).
			WithDetails(validationErr.Missing...).WithError(err)
	case stdErrors.Is(err, checkout.ErrSubmissionFailed):
		return errors.SubmissionError("Order could not be placed, please try again").WithError(err)
	case stdErrors.Is(err, checkout.ErrPaymentRequired):
		return errors.PaymentRequiredError("Payment has not been completed").WithDetail(err.Error()).WithError(err)
	case stdErrors.Is(err, checkout.ErrPricingLocked),
		stdErrors.Is(err, checkout.ErrTerminalStep),
		stdErrors.Is(err, checkout.ErrAlreadyPaid),
		stdErrors.Is(err, checkout.ErrPaymentPending),
		stdErrors.Is(err, checkout.ErrPaymentMismatch),
		stdErrors.Is(err, checkout.ErrOriginMismatch):
		return errors.ConflictError(capitalize(err.Error())).WithError(err)
	case stdErrors.Is(err, checkout.ErrUnknownShippingMethod):
		return errors.BadRequestError("Unknown shipping method").WithError(err)
	case stdErrors.Is(err, pricing.ErrIncompleteData):
		return errors.IncompleteDataError("Checkout cannot be priced").WithDetail(err.Error()).WithError(err)
	}

	return errors.InternalError("Checkout operation failed").WithError(err)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
