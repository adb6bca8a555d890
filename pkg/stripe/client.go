package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"github.com/stripe/stripe-go/v81/refund"
	"github.com/stripe/stripe-go/v81/webhook"
)

type (
	Event         = stripe.Event
	PaymentIntent = stripe.PaymentIntent
	Refund        = stripe.Refund
)

const (
	EventPaymentIntentSucceeded = "payment_intent.succeeded"
	EventPaymentIntentFailed    = "payment_intent.payment_failed"
	EventChargeRefunded         = "charge.refunded"
)

const (
	PaymentIntentStatusSucceeded  = stripe.PaymentIntentStatusSucceeded
	PaymentIntentStatusProcessing = stripe.PaymentIntentStatusProcessing
	PaymentIntentStatusCanceled   = stripe.PaymentIntentStatusCanceled
)

// Amounts are in the currency's minor unit (paise for INR).
type PaymentIntentInput struct {
	Amount       int64
	Currency     string
	Description  string
	ReceiptEmail string
	Metadata     map[string]string
	// IdempotencyKey makes retried creates return the same intent.
	IdempotencyKey string
}

// Client is the payment gateway as used by checkout.
type Client interface {
	CreatePaymentIntent(ctx context.Context, in PaymentIntentInput) (*PaymentIntent, error)
	GetPaymentIntent(ctx context.Context, id string) (*PaymentIntent, error)
	CancelPaymentIntent(ctx context.Context, id string) (*PaymentIntent, error)
	RefundPayment(ctx context.Context, paymentIntentID string, amount int64) (*Refund, error)
	VerifyWebhookSignature(payload []byte, signature string) (Event, error)
}

type stripeClient struct {
	webhookSecret string
}

func NewStripeClient(apiKey string, webhookSecret string) Client {
	stripe.Key = apiKey

	return &stripeClient{webhookSecret: webhookSecret}
}

func (s *stripeClient) CreatePaymentIntent(ctx context.Context, in PaymentIntentInput) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(in.Amount),
		Currency: stripe.String(in.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx

	if in.Description != "" {
		params.Description = stripe.String(in.Description)
	}

	if in.ReceiptEmail != "" {
		params.ReceiptEmail = stripe.String(in.ReceiptEmail)
	}

	if in.IdempotencyKey != "" {
		params.SetIdempotencyKey(in.IdempotencyKey)
	}

	for k, v := range in.Metadata {
		params.AddMetadata(k, v)
	}

	return paymentintent.New(params)
}

func (s *stripeClient) GetPaymentIntent(ctx context.Context, id string) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	return paymentintent.Get(id, params)
}

// CancelPaymentIntent fails once the intent is processing or has succeeded.
func (s *stripeClient) CancelPaymentIntent(ctx context.Context, id string) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentCancelParams{
		CancellationReason: stripe.String(string(stripe.PaymentIntentCancellationReasonRequestedByCustomer)),
	}
	params.Context = ctx

	return paymentintent.Cancel(id, params)
}

func (s *stripeClient) RefundPayment(ctx context.Context, paymentIntentID string, amount int64) (*Refund, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentIntentID),
	}
	params.Context = ctx

	// zero refunds the full amount
	if amount > 0 {
		params.Amount = stripe.Int64(amount)
	}

	return refund.New(params)
}

func (s *stripeClient) VerifyWebhookSignature(payload []byte, signature string) (Event, error) {
	if s.webhookSecret == "" {
		return Event{}, errors.New("webhook secret not configured")
	}

	return webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
}

// PaymentIntentFromEvent decodes the intent carried by a payment_intent.* event.
func PaymentIntentFromEvent(event Event) (*PaymentIntent, error) {
	if event.Data == nil {
		return nil, errors.New("event has no data")
	}

	var pi PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("failed to decode payment intent: %w", err)
	}

	if pi.ID == "" {
		return nil, errors.New("missing payment intent id in event")
	}

	return &pi, nil
}

// AmountPaid is the amount captured by a succeeded intent.
func AmountPaid(pi *PaymentIntent) int64 {
	if pi.AmountReceived > 0 {
		return pi.AmountReceived
	}
	return pi.Amount
}

// RefundedIntentID returns the payment intent of a charge.refunded event.
func RefundedIntentID(event Event) (string, error) {
	if event.Data == nil {
		return "", errors.New("event has no data")
	}

	var charge stripe.Charge
	if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
		return "", fmt.Errorf("failed to decode charge: %w", err)
	}

	if charge.PaymentIntent == nil || charge.PaymentIntent.ID == "" {
		return "", errors.New("missing payment intent id in event")
	}

	return charge.PaymentIntent.ID, nil
}
