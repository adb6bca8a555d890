package stripe_test

import (
	"testing"

	stripeClient "github.com/revorbit/auto-frames/pkg/stripe"
	"github.com/stripe/stripe-go/v81/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const succeededEvent = `{
	"id": "evt_1",
	"object": "event",
	"type": "payment_intent.succeeded",
	"data": {
		"object": {
			"id": "pi_123",
			"object": "payment_intent",
			"amount": 353800,
			"amount_received": 353800,
			"currency": "inr",
			"status": "succeeded",
			"metadata": {"checkout_session_id": "0b6f8c1e-6f3b-4d7e-9a57-3f1f0d6a2c11"}
		}
	}
}`

const refundedEvent = `{
	"id": "evt_2",
	"object": "event",
	"type": "charge.refunded",
	"data": {"object": {"id": "ch_1", "object": "charge", "payment_intent": "pi_123"}}
}`

func TestVerifyWebhookSignature(t *testing.T) {
	secret := "whsec_test"
	client := stripeClient.NewStripeClient("sk_test", secret)

	t.Run("Success - Signed Payload", func(t *testing.T) {
		signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: []byte(succeededEvent), Secret: secret})

		event, err := client.VerifyWebhookSignature(signed.Payload, signed.Header)

		require.NoError(t, err)
		assert.Equal(t, stripeClient.EventPaymentIntentSucceeded, string(event.Type))

		pi, err := stripeClient.PaymentIntentFromEvent(event)
		require.NoError(t, err)
		assert.Equal(t, "pi_123", pi.ID)
		assert.Equal(t, int64(353800), pi.AmountReceived)
		assert.Equal(t, "0b6f8c1e-6f3b-4d7e-9a57-3f1f0d6a2c11", pi.Metadata["checkout_session_id"])
	})

	t.Run("Failure - Wrong Secret", func(t *testing.T) {
		signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: []byte(succeededEvent), Secret: "whsec_other"})

		_, err := client.VerifyWebhookSignature(signed.Payload, signed.Header)

		assert.Error(t, err)
	})

	t.Run("Failure - Secret Not Configured", func(t *testing.T) {
		unconfigured := stripeClient.NewStripeClient("sk_test", "")

		_, err := unconfigured.VerifyWebhookSignature([]byte(succeededEvent), "t=1,v1=abc")

		assert.EqualError(t, err, "webhook secret not configured")
	})
}

func TestRefundedIntentID(t *testing.T) {
	secret := "whsec_test"
	client := stripeClient.NewStripeClient("sk_test", secret)
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: []byte(refundedEvent), Secret: secret})

	event, err := client.VerifyWebhookSignature(signed.Payload, signed.Header)
	require.NoError(t, err)

	id, err := stripeClient.RefundedIntentID(event)

	require.NoError(t, err)
	assert.Equal(t, "pi_123", id)
}

func TestPaymentIntentFromEvent_NoData(t *testing.T) {
	_, err := stripeClient.PaymentIntentFromEvent(stripeClient.Event{})
	assert.Error(t, err)
}
