package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/revorbit/auto-frames/internal/models"
	"github.com/revorbit/auto-frames/internal/utils"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetOrderBySessionID(ctx context.Context, sessionID uuid.UUID) (*models.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID, page, size int) ([]*models.Order, int, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error)
	UpdatePaymentStatusBySession(ctx context.Context, sessionID uuid.UUID, status models.PaymentStatus) error
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

const orderColumns = `id, customer_id, checkout_session_id, origin, status, payment_status, payment_method, payment_intent_id,
	shipping_address, shipping_method, promo_code, subtotal, shipping_cost, taxes, discount, total,
	design_id, design_snapshot, created_at, updated_at`

// CreateOrder writes the order, its items and the consumed source in one transaction:
// ordered cart lines are removed, an ordered design leaves the draft state.
// A second order for the same checkout session fails with ErrDuplicate.
func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) (err error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	shippingAddress, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return fmt.Errorf("failed to marshal shipping address: %w", err)
	}

	var designSnapshot []byte
	if order.Design != nil {
		if designSnapshot, err = json.Marshal(order.Design); err != nil {
			return fmt.Errorf("failed to marshal design snapshot: %w", err)
		}
	}

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := `
		INSERT INTO orders (id, customer_id, checkout_session_id, origin, status, payment_status, payment_method, payment_intent_id,
			shipping_address, shipping_method, promo_code, subtotal, shipping_cost, taxes, discount, total, design_id, design_snapshot)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (checkout_session_id) DO NOTHING
		RETURNING created_at, updated_at
	`

	t := order.Totals
	err = tx.QueryRowContext(dbCtx, query,
		order.ID, order.CustomerID, order.CheckoutSessionID, order.Origin, order.Status, order.PaymentStatus, order.PaymentMethod, order.PaymentIntentID,
		shippingAddress, order.ShippingMethod, order.PromoCode, t.Subtotal, t.ShippingCost, t.Taxes, t.Discount, t.Total,
		uuid.NullUUID{UUID: derefUUID(order.DesignID), Valid: order.DesignID != nil}, designSnapshot,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("order for checkout %s: %w", order.CheckoutSessionID, ErrDuplicate)
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, name, quantity, unit_price, customization_note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	lineIDs := make([]string, 0, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		item.CreatedAt = order.CreatedAt

		if _, err = tx.ExecContext(dbCtx, itemQuery, item.ID, order.ID, item.ProductID, item.Name, item.Quantity, item.UnitPrice, item.CustomizationNote); err != nil {
			return fmt.Errorf("failed to insert an order item: %w", err)
		}
		lineIDs = append(lineIDs, item.ID.String())
	}

	switch order.Origin {
	case models.OriginCart:
		// order items reuse the ids of the cart lines they were built from
		if _, err = tx.ExecContext(dbCtx, `DELETE FROM cart_lines WHERE customer_id = $1 AND id = ANY($2::uuid[])`, order.CustomerID, pq.Array(lineIDs)); err != nil {
			return fmt.Errorf("failed to remove ordered cart lines: %w", err)
		}
	case models.OriginDesign:
		if order.DesignID != nil {
			if _, err = tx.ExecContext(dbCtx, `UPDATE designs SET status = $1, updated_at = NOW() WHERE id = $2`, models.DesignStatusOrdered, *order.DesignID); err != nil {
				return fmt.Errorf("failed to mark design as ordered: %w", err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("order for checkout %s: %w", order.CheckoutSessionID, ErrDuplicate)
		}
		return fmt.Errorf("failed to commit order: %w", err)
	}

	return nil
}

func derefUUID(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}

func scanOrder(row interface{ Scan(dest ...any) error }) (*models.Order, error) {
	o := &models.Order{}
	var (
		shippingAddress []byte
		designSnapshot  []byte
		designID        uuid.NullUUID
	)

	err := row.Scan(&o.ID, &o.CustomerID, &o.CheckoutSessionID, &o.Origin, &o.Status, &o.PaymentStatus, &o.PaymentMethod, &o.PaymentIntentID,
		&shippingAddress, &o.ShippingMethod, &o.PromoCode, &o.Totals.Subtotal, &o.Totals.ShippingCost, &o.Totals.Taxes, &o.Totals.Discount, &o.Totals.Total,
		&designID, &designSnapshot, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(shippingAddress, &o.ShippingAddress); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shipping address: %w", err)
	}

	if designID.Valid {
		o.DesignID = &designID.UUID
	}

	if len(designSnapshot) > 0 {
		o.Design = &models.DesignConfiguration{}
		if err := json.Unmarshal(designSnapshot, o.Design); err != nil {
			return nil, fmt.Errorf("failed to unmarshal design snapshot: %w", err)
		}
	}

	o.Items = []models.OrderItem{}

	return o, nil
}

func (r *orderRepository) getOrder(ctx context.Context, where string, arg any) (*models.Order, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	order, err := scanOrder(r.DB.QueryRowContext(dbCtx, `SELECT `+orderColumns+` FROM orders WHERE `+where+` = $1`, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("order: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get the order: %w", err)
	}

	if err := r.attachItems(dbCtx, []*models.Order{order}); err != nil {
		return nil, err
	}

	return order, nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return r.getOrder(ctx, "id", id)
}

func (r *orderRepository) GetOrderBySessionID(ctx context.Context, sessionID uuid.UUID) (*models.Order, error) {
	return r.getOrder(ctx, "checkout_session_id", sessionID)
}

// attachItems loads the items of all orders with a single query.
func (r *orderRepository) attachItems(ctx context.Context, orders []*models.Order) error {

	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, len(orders))
	byID := make(map[uuid.UUID]*models.Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID.String()
		byID[o.ID] = o
	}

	query := `
		SELECT id, order_id, product_id, name, quantity, unit_price, customization_note, created_at
		FROM order_items
		WHERE order_id = ANY($1::uuid[])
		ORDER BY created_at, id
	`

	rows, err := r.DB.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to get the order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.Quantity, &item.UnitPrice, &item.CustomizationNote, &item.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}

		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating over order items: %w", err)
	}

	return nil
}

func (r *orderRepository) ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID, page, size int) ([]*models.Order, int, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int
	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM orders WHERE customer_id = $1`, customerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (page - 1) * size

	query := `SELECT ` + orderColumns + ` FROM orders WHERE customer_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(dbCtx, query, customerID, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := []*models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("failed to scan the orders: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, 0, fmt.Errorf("error iterating over orders: %w", err)
	}
	rows.Close()

	if err := r.attachItems(dbCtx, orders); err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updated == 0 {
		return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}

	return r.GetOrderByID(ctx, id)
}

// UpdatePaymentStatusBySession mirrors gateway payment state onto the order of a checkout.
func (r *orderRepository) UpdatePaymentStatusBySession(ctx context.Context, sessionID uuid.UUID, status models.PaymentStatus) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `UPDATE orders SET payment_status = $1, updated_at = NOW() WHERE checkout_session_id = $2`, status, sessionID)
	if err != nil {
		return fmt.Errorf("failed to update order payment status: %w", err)
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updated == 0 {
		return fmt.Errorf("order for session %s: %w", sessionID, ErrNotFound)
	}

	return nil
}
