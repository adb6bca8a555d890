package checkout_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/revorbit/auto-frames/internal/checkout"
	"github.com/revorbit/auto-frames/internal/models"
	"github.com/revorbit/auto-frames/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classicLines() []models.CartLine {
	return []models.CartLine{{
		ID:        uuid.New(),
		ProductID: "classic-frame",
		Name:      "Classic Frame",
		UnitPrice: decimal.NewFromInt(2499),
		Quantity:  1,
	}}
}

func completeShipping() models.ShippingDetails {
	return models.ShippingDetails{
		FullName: "Asha Rao",
		Phone:    "9876543210",
		Address1: "12 MG Road",
		City:     "Bengaluru",
		State:    "Karnataka",
		Pincode:  "560001",
	}
}

// recordingSubmitter counts calls and returns a canned order or error.
type recordingSubmitter struct {
	calls  int
	err    error
	totals models.OrderTotals
}

func (r *recordingSubmitter) Submit(_ context.Context, s *checkout.Session, totals models.OrderTotals) (*models.Order, error) {
	r.calls++
	r.totals = totals
	if r.err != nil {
		return nil, r.err
	}
	return &models.Order{ID: uuid.New(), CheckoutSessionID: s.ID, Totals: totals, Status: models.OrderStatusConfirmed}, nil
}

// sessionAtPayment walks a cart session to the payment step.
func sessionAtPayment(t *testing.T) *checkout.Session {
	t.Helper()
	s := checkout.NewCartSession(uuid.New(), classicLines())
	require.NoError(t, s.UpdateShipping(completeShipping()))

	_, err := s.Advance(context.Background(), nil)
	require.NoError(t, err)
	_, err = s.Advance(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, checkout.StepPayment, s.Step)

	return s
}

func TestNewCartSession_StartsAtReview(t *testing.T) {
	s := checkout.NewCartSession(uuid.New(), classicLines())

	assert.Equal(t, checkout.StepReview, s.Step)
	assert.Equal(t, models.OriginCart, s.Origin)
	assert.Equal(t, pricing.DefaultShippingMethodID, s.ShippingMethod.ID)
	assert.False(t, s.CanRetreat())
	assert.Equal(t, []checkout.Step{checkout.StepReview, checkout.StepShipping, checkout.StepPayment, checkout.StepConfirmation}, s.Steps())
}

func TestNewDesignSession_StartsAtShipping(t *testing.T) {
	frame, _ := pricing.LookupFrameStyle("classic")
	material, _ := pricing.LookupMaterial("walnut")
	cfg := models.DesignConfiguration{
		FrameStyle:      frame,
		Material:        material,
		Personalization: models.Personalization{Text: "911 Turbo"},
		Features:        models.DesignFeatures{Lighting: "ambient-led"},
	}

	s := checkout.NewDesignSession(uuid.New(), uuid.New(), cfg)

	assert.Equal(t, checkout.StepShipping, s.Step)
	assert.NotContains(t, s.Steps(), checkout.StepReview)
	assert.False(t, s.CanRetreat())

	totals, err := s.Totals()
	require.NoError(t, err)
	// 2499 + 499 + 299 + 1499, quantity fixed at 1
	assert.True(t, decimal.NewFromInt(4796).Equal(totals.Subtotal), totals.Subtotal.String())

	moved, err := s.Retreat()
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, checkout.StepShipping, s.Step)
}

func TestAdvance_ShippingValidation(t *testing.T) {
	ctx := context.Background()
	s := checkout.NewCartSession(uuid.New(), classicLines())

	step, err := s.Advance(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, checkout.StepShipping, step)

	step, err = s.Advance(ctx, nil)
	var vErr *checkout.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, checkout.StepShipping, step)
	assert.Equal(t, checkout.StepShipping, vErr.Step)
	assert.ElementsMatch(t, []string{"full_name", "phone", "address1", "city", "state", "pincode"}, vErr.Missing)

	// five of six fields is still not enough
	partial := completeShipping()
	partial.Pincode = "   "
	require.NoError(t, s.UpdateShipping(partial))

	_, err = s.Advance(ctx, nil)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{"pincode"}, vErr.Missing)
	assert.Equal(t, checkout.StepShipping, s.Step)

	require.NoError(t, s.UpdateShipping(completeShipping()))
	step, err = s.Advance(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, checkout.StepPayment, step)
}

func TestAdvance_PaymentRequired(t *testing.T) {
	s := sessionAtPayment(t)
	sub := &recordingSubmitter{}

	step, err := s.Advance(context.Background(), sub)

	assert.ErrorIs(t, err, checkout.ErrPaymentRequired)
	assert.Equal(t, checkout.StepPayment, step)
	assert.Zero(t, sub.calls)
}

func TestAdvance_UnderpaidIsRejected(t *testing.T) {
	s := sessionAtPayment(t)
	require.NoError(t, s.MarkPaymentCompleted("pi_123", 100))
	sub := &recordingSubmitter{}

	_, err := s.Advance(context.Background(), sub)

	assert.ErrorIs(t, err, checkout.ErrPaymentRequired)
	assert.Contains(t, err.Error(), "294900")
	assert.Zero(t, sub.calls)
}

func TestAdvance_SubmissionFailureStaysOnPayment(t *testing.T) {
	s := sessionAtPayment(t)
	require.NoError(t, s.MarkPaymentCompleted("pi_123", 294900))
	cause := errors.New("connection reset")
	sub := &recordingSubmitter{err: cause}

	step, err := s.Advance(context.Background(), sub)

	assert.ErrorIs(t, err, checkout.ErrSubmissionFailed)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, checkout.StepPayment, step)
	assert.Nil(t, s.Order)
	assert.Nil(t, s.FrozenTotals)
	assert.Equal(t, 1, sub.calls)

	// a manual retry goes through
	sub.err = nil
	step, err = s.Advance(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, checkout.StepConfirmation, step)
	assert.Equal(t, 2, sub.calls)
}

func TestAdvance_SubmitsAndFreezes(t *testing.T) {
	s := sessionAtPayment(t)
	require.NoError(t, s.MarkPaymentCompleted("pi_123", 294900))
	sub := &recordingSubmitter{}

	step, err := s.Advance(context.Background(), sub)

	require.NoError(t, err)
	assert.Equal(t, checkout.StepConfirmation, step)
	require.NotNil(t, s.Order)
	require.NotNil(t, s.FrozenTotals)
	assert.Equal(t, s.ID, s.Order.CheckoutSessionID)
	assert.True(t, decimal.NewFromInt(2949).Equal(s.FrozenTotals.Total))

	// totals no longer follow the inputs
	s.Lines = nil
	totals, err := s.Totals()
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(2949).Equal(totals.Total))

	_, err = s.Advance(context.Background(), sub)
	assert.ErrorIs(t, err, checkout.ErrTerminalStep)
	_, err = s.Retreat()
	assert.ErrorIs(t, err, checkout.ErrTerminalStep)
	assert.Equal(t, 1, sub.calls)
}

func TestAdvance_NilOrderIsFailure(t *testing.T) {
	s := sessionAtPayment(t)
	require.NoError(t, s.MarkPaymentCompleted("pi_123", 294900))
	sub := checkout.SubmitterFunc(func(context.Context, *checkout.Session, models.OrderTotals) (*models.Order, error) {
		return nil, nil
	})

	_, err := s.Advance(context.Background(), sub)

	assert.ErrorIs(t, err, checkout.ErrSubmissionFailed)
	assert.Equal(t, checkout.StepPayment, s.Step)
}

func TestAdvance_RevalidatesShippingBeforeSubmit(t *testing.T) {
	s := sessionAtPayment(t)
	require.NoError(t, s.MarkPaymentCompleted("pi_123", 294900))
	details := completeShipping()
	details.City = ""
	require.NoError(t, s.UpdateShipping(details))

	_, err := s.Advance(context.Background(), &recordingSubmitter{})

	var vErr *checkout.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, checkout.StepShipping, vErr.Step)
	assert.Equal(t, checkout.StepPayment, s.Step)
}

func TestRetreat(t *testing.T) {
	s := sessionAtPayment(t)

	moved, err := s.Retreat()
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, checkout.StepShipping, s.Step)

	moved, err = s.Retreat()
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, checkout.StepReview, s.Step)

	moved, err = s.Retreat()
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, checkout.StepReview, s.Step)
}

func TestApplyPromo(t *testing.T) {
	s := checkout.NewCartSession(uuid.New(), classicLines())

	res, err := s.ApplyPromo("first10")
	require.NoError(t, err)
	assert.Equal(t, checkout.PromoApplied, res.Status)
	assert.Equal(t, "FIRST10", res.Code)

	first, err := s.Totals()
	require.NoError(t, err)

	res, err = s.ApplyPromo("FIRST10")
	require.NoError(t, err)
	assert.Equal(t, checkout.PromoAlreadyApplied, res.Status)

	second, err := s.Totals()
	require.NoError(t, err)
	assert.True(t, first.Discount.Equal(second.Discount), "discount must not double")

	res, err = s.ApplyPromo("BOGUS99")
	require.NoError(t, err)
	assert.Equal(t, checkout.PromoInvalid, res.Status)
	require.NotNil(t, s.Promo)
	assert.Equal(t, "FIRST10", s.Promo.Code)

	res, err = s.ApplyPromo("SAVE500")
	require.NoError(t, err)
	assert.Equal(t, checkout.PromoApplied, res.Status)
	assert.Equal(t, "SAVE500", s.Promo.Code)

	res, err = s.RemovePromo()
	require.NoError(t, err)
	assert.Equal(t, checkout.PromoRemoved, res.Status)
	assert.Equal(t, "SAVE500", res.Code)
	assert.Nil(t, s.Promo)
}

func TestApplyPromo_InvalidOnFreshSession(t *testing.T) {
	s := checkout.NewCartSession(uuid.New(), classicLines())

	res, err := s.ApplyPromo("BOGUS99")

	require.NoError(t, err)
	assert.Equal(t, checkout.PromoInvalid, res.Status)
	assert.Nil(t, res.Promo)

	totals, err := s.Totals()
	require.NoError(t, err)
	assert.True(t, totals.Discount.IsZero())
}

func TestPricingLockedAfterPayment(t *testing.T) {
	s := sessionAtPayment(t)
	require.NoError(t, s.MarkPaymentCompleted("pi_123", 294900))

	_, err := s.ApplyPromo("FIRST10")
	assert.ErrorIs(t, err, checkout.ErrPricingLocked)
	_, err = s.RemovePromo()
	assert.ErrorIs(t, err, checkout.ErrPricingLocked)
	assert.ErrorIs(t, s.SelectShippingMethod("express"), checkout.ErrPricingLocked)
	assert.ErrorIs(t, s.ReplaceLines(nil), checkout.ErrPricingLocked)

	// shipping address does not affect totals
	assert.NoError(t, s.UpdateShipping(completeShipping()))
}

func TestSelectShippingMethod(t *testing.T) {
	s := checkout.NewCartSession(uuid.New(), classicLines())

	require.NoError(t, s.SelectShippingMethod("express"))
	assert.Equal(t, "express", s.ShippingMethod.ID)

	err := s.SelectShippingMethod("teleport")
	assert.ErrorIs(t, err, checkout.ErrUnknownShippingMethod)
	assert.Equal(t, "express", s.ShippingMethod.ID)
}

func TestMarkPaymentCompleted(t *testing.T) {
	s := sessionAtPayment(t)

	require.NoError(t, s.MarkPaymentCompleted("pi_1", 294900))
	require.NoError(t, s.MarkPaymentCompleted("pi_1", 294900))
	assert.ErrorIs(t, s.MarkPaymentCompleted("pi_2", 294900), checkout.ErrAlreadyPaid)
	assert.Equal(t, "pi_1", s.PaymentIntentID)
}

func TestOpenPayment_LocksPricingUntilReleased(t *testing.T) {
	s := sessionAtPayment(t)
	_, err := s.ApplyPromo("WELCOME15")
	require.NoError(t, err)

	due, err := s.AmountDue()
	require.NoError(t, err)
	require.Equal(t, int64(257400), due)
	require.NoError(t, s.OpenPayment("pi_1", due))

	_, err = s.RemovePromo()
	assert.ErrorIs(t, err, checkout.ErrPaymentPending)
	assert.ErrorIs(t, s.SelectShippingMethod("express"), checkout.ErrPaymentPending)
	assert.ErrorIs(t, s.ReplaceLines(classicLines()), checkout.ErrPaymentPending)
	_, err = s.ApplyPromo("FIRST10")
	assert.ErrorIs(t, err, checkout.ErrPaymentPending)

	// inputs that leave the total alone still answer
	res, err := s.ApplyPromo("BOGUS99")
	require.NoError(t, err)
	assert.Equal(t, checkout.PromoInvalid, res.Status)
	res, err = s.ApplyPromo("welcome15")
	require.NoError(t, err)
	assert.Equal(t, checkout.PromoAlreadyApplied, res.Status)
	require.NoError(t, s.SelectShippingMethod("standard"))

	still, err := s.AmountDue()
	require.NoError(t, err)
	assert.Equal(t, due, still)
	assert.True(t, s.View().PaymentPending)

	assert.False(t, s.ReleasePayment("pi_other"))
	require.True(t, s.ReleasePayment("pi_1"))

	_, err = s.RemovePromo()
	require.NoError(t, err)
	due, err = s.AmountDue()
	require.NoError(t, err)
	assert.Equal(t, int64(294900), due)
}

func TestMarkPaymentCompleted_ClearsPendingPayment(t *testing.T) {
	s := sessionAtPayment(t)
	require.NoError(t, s.OpenPayment("pi_1", 294900))

	require.NoError(t, s.MarkPaymentCompleted("pi_1", 294900))

	assert.Nil(t, s.PendingPayment)
	assert.True(t, s.PaymentSettled())
	assert.ErrorIs(t, s.OpenPayment("pi_2", 294900), checkout.ErrAlreadyPaid)
	assert.ErrorIs(t, s.ResetPayment(), checkout.ErrAlreadyPaid)
}

func TestResetPayment_UnderpaidCheckoutCanPayAgain(t *testing.T) {
	s := sessionAtPayment(t)
	require.NoError(t, s.MarkPaymentCompleted("pi_short", 257400))

	_, err := s.Advance(context.Background(), &recordingSubmitter{})
	require.ErrorIs(t, err, checkout.ErrPaymentRequired)
	assert.False(t, s.PaymentSettled())

	require.NoError(t, s.ResetPayment())
	assert.False(t, s.PaymentCompleted)
	assert.Zero(t, s.PaidAmount)
	assert.Empty(t, s.PaymentIntentID)

	require.NoError(t, s.OpenPayment("pi_full", 294900))
	require.NoError(t, s.MarkPaymentCompleted("pi_full", 294900))

	sub := &recordingSubmitter{}
	step, err := s.Advance(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, checkout.StepConfirmation, step)
	assert.Equal(t, 1, sub.calls)
}

func TestAdvance_OverpaidIsRejected(t *testing.T) {
	s := sessionAtPayment(t)
	require.NoError(t, s.MarkPaymentCompleted("pi_over", 300000))

	sub := &recordingSubmitter{}
	step, err := s.Advance(context.Background(), sub)

	assert.ErrorIs(t, err, checkout.ErrPaymentMismatch)
	assert.Equal(t, checkout.StepPayment, step)
	assert.Zero(t, sub.calls)
}

func TestReplaceLines(t *testing.T) {
	s := checkout.NewCartSession(uuid.New(), classicLines())
	lines := append(classicLines(), models.CartLine{ProductID: "shadow-box", UnitPrice: decimal.NewFromInt(4999), Quantity: 2})

	require.NoError(t, s.ReplaceLines(lines))
	totals, err := s.Totals()
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(12497).Equal(totals.Subtotal))

	frame, _ := pricing.LookupFrameStyle("classic")
	material, _ := pricing.LookupMaterial("oak")
	design := checkout.NewDesignSession(uuid.New(), uuid.New(), models.DesignConfiguration{FrameStyle: frame, Material: material})
	assert.ErrorIs(t, design.ReplaceLines(lines), checkout.ErrOriginMismatch)
}

func TestTotals_EmptyCartIsIncomplete(t *testing.T) {
	s := checkout.NewCartSession(uuid.New(), nil)

	_, err := s.Totals()
	assert.ErrorIs(t, err, pricing.ErrIncompleteData)

	v := s.View()
	assert.Nil(t, v.Totals)
	assert.NotEmpty(t, v.TotalsError)
}

func TestView(t *testing.T) {
	s := checkout.NewCartSession(uuid.New(), classicLines())
	_, err := s.Advance(context.Background(), nil)
	require.NoError(t, err)

	v := s.View()

	assert.Equal(t, checkout.StepShipping, v.Step)
	assert.True(t, v.CanRetreat)
	assert.Len(t, v.MissingFields, 6)
	require.NotNil(t, v.Totals)
	assert.Equal(t, int64(294900), v.AmountDue)
}
