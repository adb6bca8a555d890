package mocks

import (
	"context"

	"github.com/revorbit/auto-frames/pkg/stripe"
	"github.com/stretchr/testify/mock"
)

// MockClient is a testify mock of stripe.Client.
type MockClient struct {
	mock.Mock
}

func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	m := &MockClient{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (_m *MockClient) CreatePaymentIntent(ctx context.Context, in stripe.PaymentIntentInput) (*stripe.PaymentIntent, error) {
	ret := _m.Called(ctx, in)

	var r0 *stripe.PaymentIntent
	if v := ret.Get(0); v != nil {
		r0 = v.(*stripe.PaymentIntent)
	}

	return r0, ret.Error(1)
}

func (_m *MockClient) GetPaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error) {
	ret := _m.Called(ctx, id)

	var r0 *stripe.PaymentIntent
	if v := ret.Get(0); v != nil {
		r0 = v.(*stripe.PaymentIntent)
	}

	return r0, ret.Error(1)
}

func (_m *MockClient) CancelPaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error) {
	ret := _m.Called(ctx, id)

	var r0 *stripe.PaymentIntent
	if v := ret.Get(0); v != nil {
		r0 = v.(*stripe.PaymentIntent)
	}

	return r0, ret.Error(1)
}

func (_m *MockClient) RefundPayment(ctx context.Context, paymentIntentID string, amount int64) (*stripe.Refund, error) {
	ret := _m.Called(ctx, paymentIntentID, amount)

	var r0 *stripe.Refund
	if v := ret.Get(0); v != nil {
		r0 = v.(*stripe.Refund)
	}

	return r0, ret.Error(1)
}

func (_m *MockClient) VerifyWebhookSignature(payload []byte, signature string) (stripe.Event, error) {
	ret := _m.Called(payload, signature)

	r0 := ret.Get(0).(stripe.Event)

	return r0, ret.Error(1)
}
