package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/revorbit/auto-frames/internal/checkout"
	"github.com/revorbit/auto-frames/internal/models"
	"github.com/revorbit/auto-frames/internal/pricing"
	service "github.com/revorbit/auto-frames/internal/services"
	"github.com/revorbit/auto-frames/pkg/stripe"
	"github.com/stretchr/testify/mock"
)

// MockProductService is a testify mock of service.ProductService.
type MockProductService struct {
	mock.Mock
}

func NewMockProductService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockProductService {
	m := &MockProductService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (_m *MockProductService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	ret := _m.Called(ctx, req)

	var r0 *models.Product
	if v := ret.Get(0); v != nil {
		r0 = v.(*models.Product)
	}

	return r0, ret.Error(1)
}

func (_m *MockProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	ret := _m.Called(ctx, id)

	var r0 *models.Product
	if v := ret.Get(0); v != nil {
		r0 = v.(*models.Product)
	}

	return r0, ret.Error(1)
}

func (_m *MockProductService) UpdateProduct(ctx context.Context, id string, req *models.UpdateProductRequest) (*models.Product, error) {
	ret := _m.Called(ctx, id, req)

	var r0 *models.Product
	if v := ret.Get(0); v != nil {
		r0 = v.(*models.Product)
	}

	return r0, ret.Error(1)
}

func (_m *MockProductService) ListProducts(ctx context.Context, page int, pageSize int) ([]*models.Product, int, error) {
	ret := _m.Called(ctx, page, pageSize)

	var r0 []*models.Product
	if v := ret.Get(0); v != nil {
		r0 = v.([]*models.Product)
	}

	r1 := ret.Int(1)

	return r0, r1, ret.Error(2)
}

// MockCartService is a testify mock of service.CartService.
type MockCartService struct {
	mock.Mock
}

func NewMockCartService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCartService {
	m := &MockCartService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (_m *MockCartService) GetCart(ctx context.Context, customerID uuid.UUID) (*models.Cart, error) {
	ret := _m.Called(ctx, customerID)

	var r0 *models.Cart
	if v := ret.Get(0); v != nil {
		r0 = v.(*models.Cart)
	}

	return r0, ret.Error(1)
}

func (_m *MockCartService) AddItem(ctx context.Context, customerID uuid.UUID, req *models.AddItemRequest) (*models.Cart, error) {
	ret := _m.Called(ctx, customerID, req)

	var r0 *models.Cart
	if v := ret.Get(0); v != nil {
		r0 = v.(*models.Cart)
	}

	return r0, ret.Error(1)
}

func (_m *MockCartService) UpdateQuantity(ctx context.Context, customerID uuid.UUID, lineID uuid.UUID, req *models.UpdateQuantityRequest) (*models.Cart, error) {
	ret := _m.Called(ctx, customerID, lineID, req)

	var r0 *models.Cart
	if v := ret.Get(0); v != nil {
		r0 = v.(*models.Cart)
	}

	return r0, ret.Error(1)
}

func (_m *MockCartService) RemoveItem(ctx context.Context, customerID uuid.UUID, lineID uuid.UUID) (*models.Cart, error) {
	ret := _m.Called(ctx, customerID, lineID)

	var r0 *models.Cart
	if v := ret.Get(0); v != nil {
		r0 = v.(*models.Cart)
	}

	return r0, ret.Error(1)
}

func (_m *MockCartService) ClearCart(ctx context.Context, customerID uuid.UUID) error {
	ret := _m.Called(ctx, customerID)

	return ret.Error(0)
}

// MockDesignService is a testify mock of service.DesignService.
type MockDesignService struct {
	mock.Mock
}

func NewMockDesignService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockDesignService {
	m := &MockDesignService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (_m *MockDesignService) Options() pricing.StudioOptions {
	ret := _m.Called()

	r0 := ret.Get(0).(pricing.StudioOptions)

	return r0
}

func (_m *MockDesignService) SaveDesign(ctx context.Context, customerID uuid.UUID, designID *uuid.UUID, req *models.SaveDesignRequest) (*models.Design, error) {
	ret := _m.Called(ctx, customerID, designID, req)

	var r0 *models.Design
	if v := ret.Get(0); v != nil {
		r0 = v.(*models.Design)
	}

	return r0, ret.Error(1)
}

func (_m *MockDesignService) GetDesign(ctx context.Context, customerID uuid.UUID, designID uuid.UUID) (*models.Design, error) {
	ret := _m.Called(ctx, customerID, designID)

	var r0 *models.Design
	if v := ret.Get(0); v != nil {
		r0 = v.(*models.Design)
	}

	return r0, ret.Error(1)
}

func (_m *MockDesignService) ListDesigns(ctx context.Context, customerID uuid.UUID) ([]*models.Design, error) {
	ret := _m.Called(ctx, customerID)

	var r0 []*models.Design
	if v := ret.Get(0); v != nil {
		r0 = v.([]*models.Design)
	}

	return r0, ret.Error(1)
}

// MockCheckoutService is a testify mock of service.CheckoutService.
type MockCheckoutService struct {
	mock.Mock
}

func NewMockCheckoutService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCheckoutService {
	m := &MockCheckoutService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (_m *MockCheckoutService) StartCheckout(ctx context.Context, customerID uuid.UUID, req *models.StartCheckoutRequest) (*checkout.View, error) {
	ret := _m.Called(ctx, customerID, req)

	var r0 *checkout.View
	if v := ret.Get(0); v != nil {
		r0 = v.(*checkout.View)
	}

	return r0, ret.Error(1)
}

func (_m *MockCheckoutService) GetCheckout(ctx context.Context, customerID uuid.UUID, sessionID uuid.UUID) (*checkout.View, error) {
	ret := _m.Called(ctx, customerID, sessionID)

	var r0 *checkout.View
	if v := ret.Get(0); v != nil {
		r0 = v.(*checkout.View)
	}

	return r0, ret.Error(1)
}

func (_m *MockCheckoutService) RefreshCart(ctx context.Context, customerID uuid.UUID, sessionID uuid.UUID) (*checkout.View, error) {
	ret := _m.Called(ctx, customerID, sessionID)

	var r0 *checkout.View
	if v := ret.Get(0); v != nil {
		r0 = v.(*checkout.View)
	}

	return r0, ret.Error(1)
}

func (_m *MockCheckoutService) UpdateShipping(ctx context.Context, customerID uuid.UUID, sessionID uuid.UUID, details *models.ShippingDetails) (*checkout.View, error) {
	ret := _m.Called(ctx, customerID, sessionID, details)

	var r0 *checkout.View
	if v := ret.Get(0); v != nil {
		r0 = v.(*checkout.View)
	}

	return r0, ret.Error(1)
}

func (_m *MockCheckoutService) SelectShippingMethod(ctx context.Context, customerID uuid.UUID, sessionID uuid.UUID, methodID string) (*checkout.View, error) {
	ret := _m.Called(ctx, customerID, sessionID, methodID)

	var r0 *checkout.View
	if v := ret.Get(0); v != nil {
		r0 = v.(*checkout.View)
	}

	return r0, ret.Error(1)
}

func (_m *MockCheckoutService) ApplyPromo(ctx context.Context, customerID uuid.UUID, sessionID uuid.UUID, code string) (*service.PromoResponse, error) {
	ret := _m.Called(ctx, customerID, sessionID, code)

	var r0 *service.PromoResponse
	if v := ret.Get(0); v != nil {
		r0 = v.(*service.PromoResponse)
	}

	return r0, ret.Error(1)
}

func (_m *MockCheckoutService) RemovePromo(ctx context.Context, customerID uuid.UUID, sessionID uuid.UUID) (*service.PromoResponse, error) {
	ret := _m.Called(ctx, customerID, sessionID)

	var r0 *service.PromoResponse
	if v := ret.Get(0); v != nil {
		r0 = v.(*service.PromoResponse)
	}

	return r0, ret.Error(1)
}

func (_m *MockCheckoutService) Advance(ctx context.Context, claims *models.Claims, sessionID uuid.UUID) (*checkout.View, error) {
	ret := _m.Called(ctx, claims, sessionID)

	var r0 *checkout.View
	if v := ret.Get(0); v != nil {
		r0 = v.(*checkout.View)
	}

	return r0, ret.Error(1)
}

func (_m *MockCheckoutService) Retreat(ctx context.Context, customerID uuid.UUID, sessionID uuid.UUID) (*checkout.View, error) {
	ret := _m.Called(ctx, customerID, sessionID)

	var r0 *checkout.View
	if v := ret.Get(0); v != nil {
		r0 = v.(*checkout.View)
	}

	return r0, ret.Error(1)
}

func (_m *MockCheckoutService) CreatePayment(ctx context.Context, claims *models.Claims, sessionID uuid.UUID) (*models.PaymentResponse, error) {
	ret := _m.Called(ctx, claims, sessionID)

	var r0 *models.PaymentResponse
	if v := ret.Get(0); v != nil {
		r0 = v.(*models.PaymentResponse)
	}

	return r0, ret.Error(1)
}

// MockOrderService is a testify mock of service.OrderService.
type MockOrderService struct {
	mock.Mock
}

func NewMockOrderService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockOrderService {
	m := &MockOrderService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (_m *MockOrderService) GetOrderByID(ctx context.Context, requester *models.Claims, id uuid.UUID) (*models.Order, error) {
	ret := _m.Called(ctx, requester, id)

	var r0 *models.Order
	if v := ret.Get(0); v != nil {
		r0 = v.(*models.Order)
	}

	return r0, ret.Error(1)
}

func (_m *MockOrderService) ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID, page int, size int) ([]*models.Order, int, error) {
	ret := _m.Called(ctx, customerID, page, size)

	var r0 []*models.Order
	if v := ret.Get(0); v != nil {
		r0 = v.([]*models.Order)
	}

	r1 := ret.Int(1)

	return r0, r1, ret.Error(2)
}

func (_m *MockOrderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	ret := _m.Called(ctx, id, status)

	var r0 *models.Order
	if v := ret.Get(0); v != nil {
		r0 = v.(*models.Order)
	}

	return r0, ret.Error(1)
}

// MockPaymentService is a testify mock of service.PaymentService.
type MockPaymentService struct {
	mock.Mock
}

func NewMockPaymentService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPaymentService {
	m := &MockPaymentService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (_m *MockPaymentService) ProcessWebhook(ctx context.Context, payload []byte, signature string) (stripe.Event, error) {
	ret := _m.Called(ctx, payload, signature)

	r0 := ret.Get(0).(stripe.Event)

	return r0, ret.Error(1)
}

// MockNotificationService is a testify mock of service.NotificationService.
type MockNotificationService struct {
	mock.Mock
}

func NewMockNotificationService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockNotificationService {
	m := &MockNotificationService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (_m *MockNotificationService) SendOrderConfirmation(ctx context.Context, order *models.Order, recipient string) (*models.Notification, error) {
	ret := _m.Called(ctx, order, recipient)

	var r0 *models.Notification
	if v := ret.Get(0); v != nil {
		r0 = v.(*models.Notification)
	}

	return r0, ret.Error(1)
}

func (_m *MockNotificationService) ListOrderNotifications(ctx context.Context, orderID uuid.UUID) ([]*models.Notification, error) {
	ret := _m.Called(ctx, orderID)

	var r0 []*models.Notification
	if v := ret.Get(0); v != nil {
		r0 = v.([]*models.Notification)
	}

	return r0, ret.Error(1)
}
