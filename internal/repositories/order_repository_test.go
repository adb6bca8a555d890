package repository_test

import (
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/revorbit/auto-frames/internal/models"
	repository "github.com/revorbit/auto-frames/internal/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupOrderRepoTest(t *testing.T) (repository.OrderRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	t.Cleanup(func() {
		db.Close()
	})

	return repository.NewOrderRepository(db), mock
}

var orderColumnNames = []string{
	"id", "customer_id", "checkout_session_id", "origin", "status", "payment_status", "payment_method", "payment_intent_id",
	"shipping_address", "shipping_method", "promo_code", "subtotal", "shipping_cost", "taxes", "discount", "total",
	"design_id", "design_snapshot", "created_at", "updated_at",
}

var orderItemColumnNames = []string{"id", "order_id", "product_id", "name", "quantity", "unit_price", "customization_note", "created_at"}

func testShipping() models.ShippingDetails {
	return models.ShippingDetails{
		FullName: "Asha Rao",
		Phone:    "9876543210",
		Address1: "12 MG Road",
		City:     "Bengaluru",
		State:    "KA",
		Pincode:  "560001",
	}
}

func testCartOrder() *models.Order {
	orderID := uuid.New()
	return &models.Order{
		ID:                orderID,
		CustomerID:        uuid.New(),
		CheckoutSessionID: uuid.New(),
		Origin:            models.OriginCart,
		Status:            models.OrderStatusConfirmed,
		PaymentStatus:     models.PaymentStatusSucceeded,
		PaymentMethod:     "card",
		PaymentIntentID:   "pi_123",
		ShippingAddress:   testShipping(),
		ShippingMethod:    "standard",
		Totals: models.OrderTotals{
			Subtotal:     decimal.NewFromInt(2998),
			ShippingCost: decimal.Zero,
			Taxes:        decimal.NewFromInt(540),
			Discount:     decimal.Zero,
			Total:        decimal.NewFromInt(3538),
		},
		Items: []models.OrderItem{
			{ID: uuid.New(), ProductID: "classic-black-a4", Name: "Classic Black A4 Frame", Quantity: 2, UnitPrice: decimal.NewFromInt(1499)},
		},
	}
}

const insertOrderSQL = `INSERT INTO orders`
const insertOrderItemSQL = `INSERT INTO order_items`

func TestCreateOrder(t *testing.T) {
	ctx := t.Context()
	now := time.Now()

	t.Run("Success - Cart Order Clears Ordered Lines", func(t *testing.T) {
		repo, mock := setupOrderRepoTest(t)
		order := testCartOrder()
		item := order.Items[0]

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(insertOrderSQL)).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
		mock.ExpectExec(regexp.QuoteMeta(insertOrderItemSQL)).
			WithArgs(item.ID, order.ID, item.ProductID, item.Name, item.Quantity, item.UnitPrice, item.CustomizationNote).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM cart_lines WHERE customer_id = $1 AND id = ANY($2::uuid[])`)).
			WithArgs(order.CustomerID, pq.Array([]string{item.ID.String()})).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.CreateOrder(ctx, order)

		require.NoError(t, err)
		assert.Equal(t, now, order.CreatedAt)
		assert.Equal(t, order.ID, order.Items[0].OrderID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Design Order Marks Design Ordered", func(t *testing.T) {
		repo, mock := setupOrderRepoTest(t)
		order := testCartOrder()
		designID := uuid.New()
		order.Origin = models.OriginDesign
		order.DesignID = &designID
		order.Design = &models.DesignConfiguration{FrameStyle: models.PricedOption{ID: "classic", Name: "Classic", Price: decimal.NewFromInt(1499)}}

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(insertOrderSQL)).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
		mock.ExpectExec(regexp.QuoteMeta(insertOrderItemSQL)).WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE designs SET status = $1`)).
			WithArgs(models.DesignStatusOrdered, designID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.CreateOrder(ctx, order))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Session Already Ordered", func(t *testing.T) {
		repo, mock := setupOrderRepoTest(t)
		order := testCartOrder()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(insertOrderSQL)).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}))
		mock.ExpectRollback()

		err := repo.CreateOrder(ctx, order)

		assert.ErrorIs(t, err, repository.ErrDuplicate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Item Insert Rolls Back", func(t *testing.T) {
		repo, mock := setupOrderRepoTest(t)
		order := testCartOrder()
		dbErr := errors.New("insert failed")

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(insertOrderSQL)).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
		mock.ExpectExec(regexp.QuoteMeta(insertOrderItemSQL)).WillReturnError(dbErr)
		mock.ExpectRollback()

		err := repo.CreateOrder(ctx, order)

		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Begin Error", func(t *testing.T) {
		repo, mock := setupOrderRepoTest(t)
		mock.ExpectBegin().WillReturnError(sql.ErrConnDone)

		err := repo.CreateOrder(ctx, testCartOrder())

		assert.ErrorIs(t, err, sql.ErrConnDone)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func orderRow(t *testing.T, o *models.Order) *sqlmock.Rows {
	t.Helper()

	shipping, err := json.Marshal(o.ShippingAddress)
	require.NoError(t, err)

	return sqlmock.NewRows(orderColumnNames).AddRow(
		o.ID.String(), o.CustomerID.String(), o.CheckoutSessionID.String(), string(o.Origin), string(o.Status), string(o.PaymentStatus), o.PaymentMethod, o.PaymentIntentID,
		shipping, o.ShippingMethod, o.PromoCode, "2998.00", "0.00", "540.00", "0.00", "3538.00",
		nil, nil, o.CreatedAt, o.UpdatedAt,
	)
}

func TestGetOrderByID(t *testing.T) {
	ctx := t.Context()
	order := testCartOrder()
	order.CreatedAt = time.Now().UTC()
	order.UpdatedAt = order.CreatedAt
	item := order.Items[0]

	t.Run("Success - Order With Items", func(t *testing.T) {
		repo, mock := setupOrderRepoTest(t)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM orders WHERE id = $1`)).
			WithArgs(order.ID).
			WillReturnRows(orderRow(t, order))
		mock.ExpectQuery(regexp.QuoteMeta(`FROM order_items`)).
			WithArgs(pq.Array([]string{order.ID.String()})).
			WillReturnRows(sqlmock.NewRows(orderItemColumnNames).
				AddRow(item.ID.String(), order.ID.String(), item.ProductID, item.Name, item.Quantity, "1499.00", "", order.CreatedAt))

		result, err := repo.GetOrderByID(ctx, order.ID)

		require.NoError(t, err)
		assert.Equal(t, order.ID, result.ID)
		assert.Equal(t, testShipping(), result.ShippingAddress)
		assert.True(t, decimal.NewFromInt(3538).Equal(result.Totals.Total))
		assert.Nil(t, result.DesignID)
		assert.Nil(t, result.Design)
		require.Len(t, result.Items, 1)
		assert.True(t, decimal.NewFromInt(1499).Equal(result.Items[0].UnitPrice))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		repo, mock := setupOrderRepoTest(t)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM orders WHERE id = $1`)).
			WithArgs(order.ID).
			WillReturnError(sql.ErrNoRows)

		result, err := repo.GetOrderByID(ctx, order.ID)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetOrderBySessionID(t *testing.T) {
	repo, mock := setupOrderRepoTest(t)
	order := testCartOrder()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM orders WHERE checkout_session_id = $1`)).
		WithArgs(order.CheckoutSessionID).
		WillReturnRows(orderRow(t, order))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM order_items`)).
		WillReturnRows(sqlmock.NewRows(orderItemColumnNames))

	result, err := repo.GetOrderBySessionID(t.Context(), order.CheckoutSessionID)

	require.NoError(t, err)
	assert.Equal(t, order.CheckoutSessionID, result.CheckoutSessionID)
	assert.Empty(t, result.Items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListOrdersByCustomer(t *testing.T) {
	ctx := t.Context()
	order := testCartOrder()

	t.Run("Success - Paged", func(t *testing.T) {
		repo, mock := setupOrderRepoTest(t)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM orders WHERE customer_id = $1`)).
			WithArgs(order.CustomerID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))
		mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY created_at DESC LIMIT $2 OFFSET $3`)).
			WithArgs(order.CustomerID, 10, 10).
			WillReturnRows(orderRow(t, order))
		mock.ExpectQuery(regexp.QuoteMeta(`FROM order_items`)).
			WillReturnRows(sqlmock.NewRows(orderItemColumnNames))

		orders, total, err := repo.ListOrdersByCustomer(ctx, order.CustomerID, 2, 10)

		require.NoError(t, err)
		assert.Equal(t, 11, total)
		assert.Len(t, orders, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Empty Page Skips Items Query", func(t *testing.T) {
		repo, mock := setupOrderRepoTest(t)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM orders`)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY created_at DESC`)).
			WillReturnRows(sqlmock.NewRows(orderColumnNames))

		orders, total, err := repo.ListOrdersByCustomer(ctx, order.CustomerID, 1, 10)

		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, orders)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Count Error", func(t *testing.T) {
		repo, mock := setupOrderRepoTest(t)
		dbErr := errors.New("count failed")

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM orders`)).WillReturnError(dbErr)

		_, _, err := repo.ListOrdersByCustomer(ctx, order.CustomerID, 1, 10)

		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	ctx := t.Context()
	order := testCartOrder()

	t.Run("Success", func(t *testing.T) {
		repo, mock := setupOrderRepoTest(t)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE orders SET status = $1`)).
			WithArgs(models.OrderStatusShipped, order.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta(`FROM orders WHERE id = $1`)).
			WillReturnRows(orderRow(t, order))
		mock.ExpectQuery(regexp.QuoteMeta(`FROM order_items`)).
			WillReturnRows(sqlmock.NewRows(orderItemColumnNames))

		result, err := repo.UpdateOrderStatus(ctx, order.ID, models.OrderStatusShipped)

		require.NoError(t, err)
		assert.Equal(t, order.ID, result.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		repo, mock := setupOrderRepoTest(t)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE orders SET status = $1`)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		result, err := repo.UpdateOrderStatus(ctx, order.ID, models.OrderStatusShipped)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdatePaymentStatusBySession(t *testing.T) {
	ctx := t.Context()
	sessionID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		repo, mock := setupOrderRepoTest(t)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE orders SET payment_status = $1`)).
			WithArgs(models.PaymentStatusRefunded, sessionID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdatePaymentStatusBySession(ctx, sessionID, models.PaymentStatusRefunded)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - No Order For Session", func(t *testing.T) {
		repo, mock := setupOrderRepoTest(t)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE orders SET payment_status = $1`)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdatePaymentStatusBySession(ctx, sessionID, models.PaymentStatusRefunded)

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
