package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/revorbit/auto-frames/internal/api/handlers"
	appErrors "github.com/revorbit/auto-frames/internal/errors"
	"github.com/revorbit/auto-frames/internal/models"
	"github.com/revorbit/auto-frames/internal/services/mocks"
	"github.com/revorbit/auto-frames/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupNotificationTest(t *testing.T) (*mocks.MockNotificationService, *mocks.MockOrderService, *handlers.NotificationHandler) {
	mockNotificationService := mocks.NewMockNotificationService(t)
	mockOrderService := mocks.NewMockOrderService(t)
	return mockNotificationService, mockOrderService, handlers.NewNotificationHandler(mockNotificationService, mockOrderService)
}

func TestListOrderNotifications(t *testing.T) {
	t.Run("Success - Listed", func(t *testing.T) {
		// Arrange
		mockNotificationService, _, notificationHandler := setupNotificationTest(t)
		orderID := uuid.New()
		req := testutils.CreateAdminTestRequest(http.MethodGet, "/api/v1/admin/orders/"+orderID.String()+"/notifications", nil, uuid.New(), map[string]string{"id": orderID.String()})
		recorder := httptest.NewRecorder()

		notifications := []*models.Notification{
			{ID: uuid.New(), OrderID: orderID, Type: models.NotificationTypeOrderConfirmation, Recipient: "asha@example.com", Status: models.NotificationStatusSent},
		}
		mockNotificationService.On("ListOrderNotifications", mock.Anything, orderID).Return(notifications, nil).Once()

		// Act
		notificationHandler.ListOrderNotifications()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		resp := decodeResponse(t, recorder)
		assert.Len(t, resp.Data, 1)
	})
}

func TestResendOrderConfirmation(t *testing.T) {
	t.Run("Success - Sent To Shipping Email", func(t *testing.T) {
		// Arrange
		mockNotificationService, mockOrderService, notificationHandler := setupNotificationTest(t)
		orderID := uuid.New()
		req := testutils.CreateAdminTestRequest(http.MethodPost, "/api/v1/admin/orders/"+orderID.String()+"/notifications", nil, uuid.New(), map[string]string{"id": orderID.String()})
		recorder := httptest.NewRecorder()

		order := &models.Order{ID: orderID, ShippingAddress: models.ShippingDetails{Email: "asha@example.com"}}
		mockOrderService.On("GetOrderByID", mock.Anything, mock.MatchedBy(func(c *models.Claims) bool { return c.IsAdmin() }), orderID).Return(order, nil).Once()
		mockNotificationService.On("SendOrderConfirmation", mock.Anything, order, "asha@example.com").
			Return(&models.Notification{ID: uuid.New(), OrderID: orderID, Status: models.NotificationStatusSent}, nil).Once()

		// Act
		notificationHandler.ResendOrderConfirmation()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusCreated, recorder.Code)
	})

	t.Run("Failure - Provider Error", func(t *testing.T) {
		// Arrange
		mockNotificationService, mockOrderService, notificationHandler := setupNotificationTest(t)
		orderID := uuid.New()
		req := testutils.CreateAdminTestRequest(http.MethodPost, "/api/v1/admin/orders/"+orderID.String()+"/notifications", nil, uuid.New(), map[string]string{"id": orderID.String()})
		recorder := httptest.NewRecorder()

		order := &models.Order{ID: orderID, ShippingAddress: models.ShippingDetails{Email: "asha@example.com"}}
		mockOrderService.On("GetOrderByID", mock.Anything, mock.Anything, orderID).Return(order, nil).Once()
		mockNotificationService.On("SendOrderConfirmation", mock.Anything, order, "asha@example.com").
			Return(nil, appErrors.ThirdPartyError("Failed to send email")).Once()

		// Act
		notificationHandler.ResendOrderConfirmation()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	})
}
