package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/revorbit/auto-frames/internal/checkout"
	"github.com/revorbit/auto-frames/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a testify mock of repository.ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func NewMockProductRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockProductRepository {
	m := &MockProductRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (_m *MockProductRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	ret := _m.Called(ctx, product)

	return ret.Error(0)
}

func (_m *MockProductRepository) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	ret := _m.Called(ctx, id)

	var r0 *models.Product
	if v := ret.Get(0); v != nil {
		r0 = v.(*models.Product)
	}

	return r0, ret.Error(1)
}

func (_m *MockProductRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	ret := _m.Called(ctx, product)

	return ret.Error(0)
}

func (_m *MockProductRepository) ListProducts(ctx context.Context, page int, size int) ([]*models.Product, int, error) {
	ret := _m.Called(ctx, page, size)

	var r0 []*models.Product
	if v := ret.Get(0); v != nil {
		r0 = v.([]*models.Product)
	}

	r1 := ret.Int(1)

	return r0, r1, ret.Error(2)
}

// MockCartRepository is a testify mock of repository.CartRepository.
type MockCartRepository struct {
	mock.Mock
}

func NewMockCartRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCartRepository {
	m := &MockCartRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (_m *MockCartRepository) ListLines(ctx context.Context, customerID uuid.UUID) ([]models.CartLine, error) {
	ret := _m.Called(ctx, customerID)

	var r0 []models.CartLine
	if v := ret.Get(0); v != nil {
		r0 = v.([]models.CartLine)
	}

	return r0, ret.Error(1)
}

func (_m *MockCartRepository) UpsertLine(ctx context.Context, line *models.CartLine) error {
	ret := _m.Called(ctx, line)

	return ret.Error(0)
}

func (_m *MockCartRepository) UpdateQuantity(ctx context.Context, customerID uuid.UUID, lineID uuid.UUID, quantity int) (*models.CartLine, error) {
	ret := _m.Called(ctx, customerID, lineID, quantity)

	var r0 *models.CartLine
	if v := ret.Get(0); v != nil {
		r0 = v.(*models.CartLine)
	}

	return r0, ret.Error(1)
}

func (_m *MockCartRepository) RemoveLine(ctx context.Context, customerID uuid.UUID, lineID uuid.UUID) error {
	ret := _m.Called(ctx, customerID, lineID)

	return ret.Error(0)
}

func (_m *MockCartRepository) Clear(ctx context.Context, customerID uuid.UUID) error {
	ret := _m.Called(ctx, customerID)

	return ret.Error(0)
}

// MockDesignRepository is a testify mock of repository.DesignRepository.
type MockDesignRepository struct {
	mock.Mock
}

func NewMockDesignRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockDesignRepository {
	m := &MockDesignRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (_m *MockDesignRepository) SaveDraft(ctx context.Context, design *models.Design) error {
	ret := _m.Called(ctx, design)

	return ret.Error(0)
}

func (_m *MockDesignRepository) GetDesign(ctx context.Context, id uuid.UUID) (*models.Design, error) {
	ret := _m.Called(ctx, id)

	var r0 *models.Design
	if v := ret.Get(0); v != nil {
		r0 = v.(*models.Design)
	}

	return r0, ret.Error(1)
}

func (_m *MockDesignRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*models.Design, error) {
	ret := _m.Called(ctx, customerID)

	var r0 []*models.Design
	if v := ret.Get(0); v != nil {
		r0 = v.([]*models.Design)
	}

	return r0, ret.Error(1)
}

// MockOrderRepository is a testify mock of repository.OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func NewMockOrderRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockOrderRepository {
	m := &MockOrderRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (_m *MockOrderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	ret := _m.Called(ctx, order)

	return ret.Error(0)
}

func (_m *MockOrderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	ret := _m.Called(ctx, id)

	var r0 *models.Order
	if v := ret.Get(0); v != nil {
		r0 = v.(*models.Order)
	}

	return r0, ret.Error(1)
}

func (_m *MockOrderRepository) GetOrderBySessionID(ctx context.Context, sessionID uuid.UUID) (*models.Order, error) {
	ret := _m.Called(ctx, sessionID)

	var r0 *models.Order
	if v := ret.Get(0); v != nil {
		r0 = v.(*models.Order)
	}

	return r0, ret.Error(1)
}

func (_m *MockOrderRepository) ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID, page int, size int) ([]*models.Order, int, error) {
	ret := _m.Called(ctx, customerID, page, size)

	var r0 []*models.Order
	if v := ret.Get(0); v != nil {
		r0 = v.([]*models.Order)
	}

	r1 := ret.Int(1)

	return r0, r1, ret.Error(2)
}

func (_m *MockOrderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	ret := _m.Called(ctx, id, status)

	var r0 *models.Order
	if v := ret.Get(0); v != nil {
		r0 = v.(*models.Order)
	}

	return r0, ret.Error(1)
}

func (_m *MockOrderRepository) UpdatePaymentStatusBySession(ctx context.Context, sessionID uuid.UUID, status models.PaymentStatus) error {
	ret := _m.Called(ctx, sessionID, status)

	return ret.Error(0)
}

// MockPaymentRepository is a testify mock of repository.PaymentRepository.
type MockPaymentRepository struct {
	mock.Mock
}

func NewMockPaymentRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPaymentRepository {
	m := &MockPaymentRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (_m *MockPaymentRepository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	ret := _m.Called(ctx, payment)

	return ret.Error(0)
}

func (_m *MockPaymentRepository) GetPaymentByID(ctx context.Context, id string) (*models.Payment, error) {
	ret := _m.Called(ctx, id)

	var r0 *models.Payment
	if v := ret.Get(0); v != nil {
		r0 = v.(*models.Payment)
	}

	return r0, ret.Error(1)
}

func (_m *MockPaymentRepository) GetLatestPaymentBySession(ctx context.Context, sessionID uuid.UUID) (*models.Payment, error) {
	ret := _m.Called(ctx, sessionID)

	var r0 *models.Payment
	if v := ret.Get(0); v != nil {
		r0 = v.(*models.Payment)
	}

	return r0, ret.Error(1)
}

func (_m *MockPaymentRepository) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) error {
	ret := _m.Called(ctx, id, status)

	return ret.Error(0)
}

// MockNotificationRepository is a testify mock of repository.NotificationRepository.
type MockNotificationRepository struct {
	mock.Mock
}

func NewMockNotificationRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockNotificationRepository {
	m := &MockNotificationRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (_m *MockNotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	ret := _m.Called(ctx, notification)

	return ret.Error(0)
}

func (_m *MockNotificationRepository) UpdateNotificationStatus(ctx context.Context, id uuid.UUID, status models.NotificationStatus, errorMsg string) error {
	ret := _m.Called(ctx, id, status, errorMsg)

	return ret.Error(0)
}

func (_m *MockNotificationRepository) ListNotificationsByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.Notification, error) {
	ret := _m.Called(ctx, orderID)

	var r0 []*models.Notification
	if v := ret.Get(0); v != nil {
		r0 = v.([]*models.Notification)
	}

	return r0, ret.Error(1)
}

// MockRateLimitRepository is a testify mock of repository.RateLimitRepository.
type MockRateLimitRepository struct {
	mock.Mock
}

func NewMockRateLimitRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRateLimitRepository {
	m := &MockRateLimitRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (_m *MockRateLimitRepository) CheckPromoRateLimit(ctx context.Context, customerID uuid.UUID) (bool, int, int, error) {
	ret := _m.Called(ctx, customerID)

	r0 := ret.Bool(0)

	r1 := ret.Int(1)

	r2 := ret.Int(2)

	return r0, r1, r2, ret.Error(3)
}

// MockSessionRepository is a testify mock of repository.SessionRepository.
type MockSessionRepository struct {
	mock.Mock
}

func NewMockSessionRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSessionRepository {
	m := &MockSessionRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (_m *MockSessionRepository) GetSession(ctx context.Context, id uuid.UUID) (*checkout.Session, error) {
	ret := _m.Called(ctx, id)

	var r0 *checkout.Session
	if v := ret.Get(0); v != nil {
		r0 = v.(*checkout.Session)
	}

	return r0, ret.Error(1)
}

func (_m *MockSessionRepository) SaveSession(ctx context.Context, session *checkout.Session) error {
	ret := _m.Called(ctx, session)

	return ret.Error(0)
}

func (_m *MockSessionRepository) DeleteSession(ctx context.Context, id uuid.UUID) error {
	ret := _m.Called(ctx, id)

	return ret.Error(0)
}
