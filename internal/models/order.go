package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

type PaymentStatus string

type CheckoutOrigin string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"

	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
	PaymentStatusCanceled  PaymentStatus = "canceled"

	OriginCart   CheckoutOrigin = "cart"
	OriginDesign CheckoutOrigin = "design"
)

// Only the engine decides which fields are required, so partial forms can be saved.
type ShippingDetails struct {
	FullName string `json:"full_name" validate:"max=120"`
	Phone    string `json:"phone" validate:"max=20"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Address1 string `json:"address1" validate:"max=200"`
	Address2 string `json:"address2,omitempty" validate:"max=200"`
	City     string `json:"city" validate:"max=100"`
	State    string `json:"state" validate:"max=100"`
	Pincode  string `json:"pincode" validate:"max=12"`
}

type OrderItem struct {
	ID                uuid.UUID       `json:"id"`
	OrderID           uuid.UUID       `json:"order_id"`
	ProductID         string          `json:"product_id"`
	Name              string          `json:"name"`
	Quantity          int             `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	CustomizationNote string          `json:"customization_note,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

type Order struct {
	ID                uuid.UUID            `json:"id"`
	CustomerID        uuid.UUID            `json:"customer_id"`
	CheckoutSessionID uuid.UUID            `json:"checkout_session_id"`
	Origin            CheckoutOrigin       `json:"origin"`
	Status            OrderStatus          `json:"status"`
	PaymentStatus     PaymentStatus        `json:"payment_status"`
	PaymentMethod     string               `json:"payment_method"`
	PaymentIntentID   string               `json:"payment_intent_id,omitempty"`
	ShippingAddress   ShippingDetails      `json:"shipping_address"`
	ShippingMethod    string               `json:"shipping_method"`
	PromoCode         string               `json:"promo_code,omitempty"`
	Totals            OrderTotals          `json:"totals"`
	DesignID          *uuid.UUID           `json:"design_id,omitempty"`
	Design            *DesignConfiguration `json:"design,omitempty"`
	Items             []OrderItem          `json:"items"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=pending confirmed processing shipped delivered cancelled"`
}
