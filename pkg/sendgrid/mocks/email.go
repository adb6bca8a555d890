package mocks

import (
	"context"

	"github.com/revorbit/auto-frames/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockEmailService is a testify mock of sendgrid.EmailService.
type MockEmailService struct {
	mock.Mock
}

func NewMockEmailService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockEmailService {
	m := &MockEmailService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (_m *MockEmailService) Send(ctx context.Context, req *models.EmailNotificationRequest) error {
	ret := _m.Called(ctx, req)

	return ret.Error(0)
}
