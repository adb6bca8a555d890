package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusInactive     ProductStatus = "inactive"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

// Product is a ready-made frame in the catalog. The id is a url-safe slug.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url,omitempty"`
	Status      ProductStatus   `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type CreateProductRequest struct {
	ID          string          `json:"id" validate:"required,min=3,max=64"`
	Name        string          `json:"name" validate:"required,min=3,max=200"`
	Description string          `json:"description,omitempty" validate:"max=2000"`
	Category    string          `json:"category" validate:"required,max=64"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url,omitempty" validate:"omitempty,url"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=3,max=200"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=2000"`
	Category    *string          `json:"category,omitempty" validate:"omitempty,max=64"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	ImageURL    *string          `json:"image_url,omitempty" validate:"omitempty,url"`
	Status      *ProductStatus   `json:"status,omitempty" validate:"omitempty,oneof=active inactive discontinued"`
}
