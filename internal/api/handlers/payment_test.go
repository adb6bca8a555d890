package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/revorbit/auto-frames/internal/api/handlers"
	appErrors "github.com/revorbit/auto-frames/internal/errors"
	"github.com/revorbit/auto-frames/internal/services/mocks"
	"github.com/revorbit/auto-frames/internal/testutils"
	"github.com/revorbit/auto-frames/pkg/stripe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const webhookPayload = `{"id":"evt_1","type":"payment_intent.succeeded"}`

func setupPaymentTest(t *testing.T) (*mocks.MockPaymentService, *handlers.PaymentHandler) {
	mockPaymentService := mocks.NewMockPaymentService(t)
	return mockPaymentService, handlers.NewPaymentHandler(mockPaymentService)
}

func TestHandleStripeWebhook(t *testing.T) {
	t.Run("Success - Event Processed", func(t *testing.T) {
		// Arrange
		mockPaymentService, paymentHandler := setupPaymentTest(t)
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/payments/webhook", strings.NewReader(webhookPayload), nil)
		req.Header.Set("Stripe-Signature", "t=1,v1=abc")
		recorder := httptest.NewRecorder()

		event := stripe.Event{ID: "evt_1", Type: stripe.EventPaymentIntentSucceeded}
		mockPaymentService.On("ProcessWebhook", mock.Anything, []byte(webhookPayload), "t=1,v1=abc").Return(event, nil).Once()

		// Act
		paymentHandler.HandleStripeWebhook()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("Failure - Missing Signature", func(t *testing.T) {
		// Arrange
		_, paymentHandler := setupPaymentTest(t)
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/payments/webhook", strings.NewReader(webhookPayload), nil)
		recorder := httptest.NewRecorder()

		// Act
		paymentHandler.HandleStripeWebhook()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		resp := decodeResponse(t, recorder)
		assert.Equal(t, "Missing Stripe-Signature header", resp.Error.Message)
	})

	t.Run("Failure - Bad Signature", func(t *testing.T) {
		// Arrange
		mockPaymentService, paymentHandler := setupPaymentTest(t)
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/payments/webhook", strings.NewReader(webhookPayload), nil)
		req.Header.Set("Stripe-Signature", "t=1,v1=forged")
		recorder := httptest.NewRecorder()

		mockPaymentService.On("ProcessWebhook", mock.Anything, mock.Anything, "t=1,v1=forged").
			Return(stripe.Event{}, appErrors.BadRequestError("Webhook signature verification failed")).Once()

		// Act
		paymentHandler.HandleStripeWebhook()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}
