package models

import "github.com/shopspring/decimal"

type ShippingMethod struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type PromoKind string

const (
	PromoKindPercent PromoKind = "percent"
	PromoKindFlat    PromoKind = "flat"
)

type PromoCode struct {
	Code  string          `json:"code"`
	Kind  PromoKind       `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

// Invariant: Total = Subtotal + ShippingCost + Taxes - Discount.
type OrderTotals struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	Taxes        decimal.Decimal `json:"taxes"`
	Discount     decimal.Decimal `json:"discount"`
	Total        decimal.Decimal `json:"total"`
}
