package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CartLine struct {
	ID                uuid.UUID       `json:"id"`
	CustomerID        uuid.UUID       `json:"-"`
	ProductID         string          `json:"product_id"`
	Name              string          `json:"name"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Quantity          int             `json:"quantity"`
	ImageURL          string          `json:"image_url,omitempty"`
	CustomizationNote string          `json:"customization_note,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

type Cart struct {
	Lines     []CartLine      `json:"lines"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Name and price come from the catalog, never from the client.
type AddItemRequest struct {
	ProductID         string `json:"product_id" validate:"required,max=64"`
	Quantity          int    `json:"quantity" validate:"required,min=1,max=99"`
	CustomizationNote string `json:"customization_note,omitempty" validate:"omitempty,max=500"`
}

// Quantity 0 removes the line.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=0,max=99"`
}
