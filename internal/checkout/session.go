// Package checkout drives the checkout wizard: a linear sequence of steps gated by
// validation, payment confirmation and a single order submission.
//
// A Session is owned by one customer and mutated by one request at a time, so it
// carries no locking of its own. Callers load it, apply one operation and save it.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/revorbit/auto-frames/internal/models"
	"github.com/revorbit/auto-frames/internal/pricing"
)

var (
	ErrTerminalStep           = errors.New("checkout is already confirmed")
	ErrPaymentRequired        = errors.New("payment has not been completed")
	ErrSubmissionFailed       = errors.New("order submission failed")
	ErrPricingLocked          = errors.New("pricing is locked once payment is completed")
	ErrUnknownShippingMethod  = errors.New("unknown shipping method")
	ErrAlreadyPaid            = errors.New("checkout is already paid by another payment")
	ErrPaymentPending         = errors.New("a payment is open for the current total")
	ErrPaymentMismatch        = errors.New("paid amount does not match the order total")
	ErrOriginMismatch         = errors.New("operation does not apply to this checkout origin")
	ErrSubmissionWithoutOrder = errors.New("submitter returned no order")
)

// Submitter persists the final order. It is called at most once per successful
// advance out of the payment step.
type Submitter interface {
	Submit(ctx context.Context, s *Session, totals models.OrderTotals) (*models.Order, error)
}

type SubmitterFunc func(ctx context.Context, s *Session, totals models.OrderTotals) (*models.Order, error)

func (f SubmitterFunc) Submit(ctx context.Context, s *Session, totals models.OrderTotals) (*models.Order, error) {
	return f(ctx, s, totals)
}

type PromoStatus string

const (
	PromoApplied        PromoStatus = "applied"
	PromoAlreadyApplied PromoStatus = "already_applied"
	PromoInvalid        PromoStatus = "invalid"
	PromoRemoved        PromoStatus = "removed"
)

type PromoResult struct {
	Status PromoStatus       `json:"status"`
	Code   string            `json:"code"`
	Promo  *models.PromoCode `json:"promo,omitempty"`
}

// PendingPayment is a gateway payment opened for Amount and not yet completed.
type PendingPayment struct {
	IntentID string `json:"intent_id"`
	Amount   int64  `json:"amount"`
}

type Session struct {
	ID               uuid.UUID                   `json:"id"`
	CustomerID       uuid.UUID                   `json:"customer_id"`
	Origin           models.CheckoutOrigin       `json:"origin"`
	Lines            []models.CartLine           `json:"lines,omitempty"`
	DesignID         *uuid.UUID                  `json:"design_id,omitempty"`
	Design           *models.DesignConfiguration `json:"design,omitempty"`
	Step             Step                        `json:"step"`
	Shipping         models.ShippingDetails      `json:"shipping"`
	ShippingMethod   models.ShippingMethod       `json:"shipping_method"`
	Promo            *models.PromoCode           `json:"promo,omitempty"`
	PendingPayment   *PendingPayment             `json:"pending_payment,omitempty"`
	PaymentCompleted bool                        `json:"payment_completed"`
	PaymentIntentID  string                      `json:"payment_intent_id,omitempty"`
	PaidAmount       int64                       `json:"paid_amount"`
	Order            *models.Order               `json:"order,omitempty"`
	FrozenTotals     *models.OrderTotals         `json:"frozen_totals,omitempty"`
	CreatedAt        time.Time                   `json:"created_at"`
	UpdatedAt        time.Time                   `json:"updated_at"`
}

func newSession(customerID uuid.UUID, origin models.CheckoutOrigin) *Session {
	now := time.Now().UTC()
	method, _ := pricing.LookupShippingMethod(pricing.DefaultShippingMethodID)

	return &Session{
		ID:             uuid.New(),
		CustomerID:     customerID,
		Origin:         origin,
		Step:           Steps(origin)[0],
		ShippingMethod: method,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// NewCartSession starts at review.
func NewCartSession(customerID uuid.UUID, lines []models.CartLine) *Session {
	s := newSession(customerID, models.OriginCart)
	s.Lines = append([]models.CartLine(nil), lines...)
	return s
}

// NewDesignSession starts at shipping; the design is priced as a single unit.
func NewDesignSession(customerID, designID uuid.UUID, cfg models.DesignConfiguration) *Session {
	s := newSession(customerID, models.OriginDesign)
	s.DesignID = &designID
	s.Design = &cfg
	return s
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now().UTC()
}

func (s *Session) Steps() []Step {
	return Steps(s.Origin)
}

// Source returns nil when the session has nothing to price.
func (s *Session) Source() pricing.OrderSource {
	switch s.Origin {
	case models.OriginCart:
		return pricing.CartSource{Lines: s.Lines}
	case models.OriginDesign:
		if s.Design == nil {
			return nil
		}
		return pricing.DesignSource{Config: *s.Design}
	}
	return nil
}

// Totals are recomputed on every call until the order is submitted, then frozen.
func (s *Session) Totals() (models.OrderTotals, error) {
	if s.FrozenTotals != nil {
		return *s.FrozenTotals, nil
	}
	return pricing.ComputeTotals(s.Source(), s.ShippingMethod, s.Promo)
}

func (s *Session) AmountDue() (int64, error) {
	totals, err := s.Totals()
	if err != nil {
		return 0, err
	}
	return pricing.ToMinorUnits(totals.Total), nil
}

func (s *Session) pricingLocked() bool {
	return s.PaymentCompleted || s.Step.IsTerminal()
}

// checkPricingChange is called before any input that moves the total changes.
// An open payment must be released first so the charged amount never drifts from the total.
func (s *Session) checkPricingChange() error {
	if s.pricingLocked() {
		return ErrPricingLocked
	}
	if s.PendingPayment != nil {
		return ErrPaymentPending
	}
	return nil
}

func (s *Session) Advance(ctx context.Context, submitter Submitter) (Step, error) {
	if s.Step.IsTerminal() {
		return s.Step, ErrTerminalStep
	}

	if missing := ValidateStep(s.Step, s.Shipping); len(missing) > 0 {
		return s.Step, &ValidationError{Step: s.Step, Missing: missing}
	}

	if s.Step == StepPayment {
		return s.submit(ctx, submitter)
	}

	steps := s.Steps()
	idx := indexOf(steps, s.Step)
	if idx < 0 {
		return s.Step, fmt.Errorf("step %q is not part of a %s checkout", s.Step, s.Origin)
	}

	// the step before confirmation is always payment, handled above
	s.Step = steps[idx+1]
	s.touch()

	return s.Step, nil
}

func (s *Session) submit(ctx context.Context, submitter Submitter) (Step, error) {
	if !s.PaymentCompleted {
		return s.Step, ErrPaymentRequired
	}

	// shipping may have been edited after leaving its step
	if missing := ValidateStep(StepShipping, s.Shipping); len(missing) > 0 {
		return s.Step, &ValidationError{Step: StepShipping, Missing: missing}
	}

	totals, err := s.Totals()
	if err != nil {
		return s.Step, err
	}

	due := pricing.ToMinorUnits(totals.Total)
	if s.PaidAmount < due {
		return s.Step, fmt.Errorf("%w: paid %d of %d paise", ErrPaymentRequired, s.PaidAmount, due)
	}
	if s.PaidAmount > due {
		return s.Step, fmt.Errorf("%w: paid %d of %d paise", ErrPaymentMismatch, s.PaidAmount, due)
	}

	if submitter == nil {
		return s.Step, fmt.Errorf("%w: no order store configured", ErrSubmissionFailed)
	}

	order, err := submitter.Submit(ctx, s, totals)
	if err != nil {
		return s.Step, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}
	if order == nil {
		return s.Step, fmt.Errorf("%w: %w", ErrSubmissionFailed, ErrSubmissionWithoutOrder)
	}

	s.Order = order
	s.FrozenTotals = &totals
	s.Step = StepConfirmation
	s.touch()

	return s.Step, nil
}

func (s *Session) CanRetreat() bool {
	return !s.Step.IsTerminal() && indexOf(s.Steps(), s.Step) > 0
}

// Retreat reports whether the step changed. It is a no-op on the first step.
func (s *Session) Retreat() (bool, error) {
	if s.Step.IsTerminal() {
		return false, ErrTerminalStep
	}

	if !s.CanRetreat() {
		return false, nil
	}

	steps := s.Steps()
	s.Step = steps[indexOf(steps, s.Step)-1]
	s.touch()

	return true, nil
}

// ApplyPromo never fails for an unknown code; it reports it as invalid and keeps
// the current promo. A different valid code replaces the applied one.
func (s *Session) ApplyPromo(code string) (PromoResult, error) {
	if s.pricingLocked() {
		return PromoResult{}, ErrPricingLocked
	}

	promo, ok := pricing.LookupPromo(code)
	if !ok {
		return PromoResult{Status: PromoInvalid, Code: pricing.NormalizePromoCode(code), Promo: s.Promo}, nil
	}

	if s.Promo != nil && s.Promo.Code == promo.Code {
		return PromoResult{Status: PromoAlreadyApplied, Code: promo.Code, Promo: s.Promo}, nil
	}

	if err := s.checkPricingChange(); err != nil {
		return PromoResult{}, err
	}

	s.Promo = &promo
	s.touch()

	return PromoResult{Status: PromoApplied, Code: promo.Code, Promo: s.Promo}, nil
}

func (s *Session) RemovePromo() (PromoResult, error) {
	if s.pricingLocked() {
		return PromoResult{}, ErrPricingLocked
	}

	if s.Promo == nil {
		return PromoResult{Status: PromoRemoved}, nil
	}

	if err := s.checkPricingChange(); err != nil {
		return PromoResult{}, err
	}

	code := s.Promo.Code

	s.Promo = nil
	s.touch()

	return PromoResult{Status: PromoRemoved, Code: code}, nil
}

func (s *Session) SelectShippingMethod(id string) error {
	if s.pricingLocked() {
		return ErrPricingLocked
	}

	method, ok := pricing.LookupShippingMethod(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownShippingMethod, id)
	}

	if method.ID == s.ShippingMethod.ID {
		return nil
	}

	if err := s.checkPricingChange(); err != nil {
		return err
	}

	s.ShippingMethod = method
	s.touch()

	return nil
}

// UpdateShipping stores the form as given; required fields are enforced on advance.
func (s *Session) UpdateShipping(details models.ShippingDetails) error {
	if s.Step.IsTerminal() {
		return ErrTerminalStep
	}

	s.Shipping = details
	s.touch()

	return nil
}

// ReplaceLines refreshes a cart checkout with the current cart contents.
func (s *Session) ReplaceLines(lines []models.CartLine) error {
	if s.Origin != models.OriginCart {
		return ErrOriginMismatch
	}
	if err := s.checkPricingChange(); err != nil {
		return err
	}

	s.Lines = append([]models.CartLine(nil), lines...)
	s.touch()

	return nil
}

// MarkPaymentCompleted records the gateway callback. Repeated callbacks for the
// same payment are no-ops.
func (s *Session) MarkPaymentCompleted(intentID string, amount int64) error {
	if s.PaymentCompleted {
		if s.PaymentIntentID == intentID {
			return nil
		}
		return ErrAlreadyPaid
	}

	if s.Step.IsTerminal() {
		return ErrTerminalStep
	}

	s.PaymentCompleted = true
	s.PaymentIntentID = intentID
	s.PaidAmount = amount
	s.PendingPayment = nil
	s.touch()

	return nil
}

// OpenPayment records the gateway payment created for amount. Pricing inputs are
// refused with ErrPaymentPending until it completes or is released.
func (s *Session) OpenPayment(intentID string, amount int64) error {
	if s.Step.IsTerminal() {
		return ErrTerminalStep
	}
	if s.PaymentCompleted {
		return ErrAlreadyPaid
	}

	s.PendingPayment = &PendingPayment{IntentID: intentID, Amount: amount}
	s.touch()

	return nil
}

// ReleasePayment drops the open payment once the gateway has cancelled it.
func (s *Session) ReleasePayment(intentID string) bool {
	if s.PendingPayment == nil || s.PendingPayment.IntentID != intentID {
		return false
	}

	s.PendingPayment = nil
	s.touch()

	return true
}

// PaymentSettled reports whether the completed payment covers exactly the amount due.
func (s *Session) PaymentSettled() bool {
	if !s.PaymentCompleted {
		return false
	}
	due, err := s.AmountDue()
	return err == nil && s.PaidAmount == due
}

// ResetPayment forgets a completed payment that does not match the amount due, after
// it has been refunded, so the customer can pay the current total.
func (s *Session) ResetPayment() error {
	if s.Step.IsTerminal() {
		return ErrTerminalStep
	}
	if s.PaymentSettled() {
		return ErrAlreadyPaid
	}

	s.PaymentCompleted = false
	s.PaymentIntentID = ""
	s.PaidAmount = 0
	s.PendingPayment = nil
	s.touch()

	return nil
}

// View is the client-facing snapshot of a session.
type View struct {
	ID               uuid.UUID                   `json:"id"`
	Origin           models.CheckoutOrigin       `json:"origin"`
	Step             Step                        `json:"step"`
	Steps            []Step                      `json:"steps"`
	CanRetreat       bool                        `json:"can_retreat"`
	Lines            []models.CartLine           `json:"lines,omitempty"`
	DesignID         *uuid.UUID                  `json:"design_id,omitempty"`
	Design           *models.DesignConfiguration `json:"design,omitempty"`
	Shipping         models.ShippingDetails      `json:"shipping"`
	MissingFields    []string                    `json:"missing_fields,omitempty"`
	ShippingMethod   models.ShippingMethod       `json:"shipping_method"`
	Promo            *models.PromoCode           `json:"promo,omitempty"`
	Totals           *models.OrderTotals         `json:"totals,omitempty"`
	TotalsError      string                      `json:"totals_error,omitempty"`
	AmountDue        int64                       `json:"amount_due"`
	PaymentPending   bool                        `json:"payment_pending"`
	PaidAmount       int64                       `json:"paid_amount"`
	PaymentCompleted bool                        `json:"payment_completed"`
	Order            *models.Order               `json:"order,omitempty"`
}

func (s *Session) View() View {
	v := View{
		ID:               s.ID,
		Origin:           s.Origin,
		Step:             s.Step,
		Steps:            s.Steps(),
		CanRetreat:       s.CanRetreat(),
		Lines:            s.Lines,
		DesignID:         s.DesignID,
		Design:           s.Design,
		Shipping:         s.Shipping,
		ShippingMethod:   s.ShippingMethod,
		Promo:            s.Promo,
		PaymentPending:   s.PendingPayment != nil,
		PaidAmount:       s.PaidAmount,
		PaymentCompleted: s.PaymentCompleted,
		Order:            s.Order,
	}

	if !s.Step.IsTerminal() {
		v.MissingFields = ValidateStep(s.Step, s.Shipping)
	}

	totals, err := s.Totals()
	if err != nil {
		v.TotalsError = err.Error()
		return v
	}

	v.Totals = &totals
	v.AmountDue = pricing.ToMinorUnits(totals.Total)

	return v
}
