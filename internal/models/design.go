package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DesignStatus string

const (
	DesignStatusDraft    DesignStatus = "draft"
	DesignStatusOrdered  DesignStatus = "ordered"
	DesignStatusArchived DesignStatus = "archived"
)

type PricedOption struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type Personalization struct {
	Text     string `json:"text,omitempty" validate:"max=60"`
	Style    string `json:"style,omitempty" validate:"max=40"`
	Font     string `json:"font,omitempty" validate:"max=40"`
	Size     string `json:"size,omitempty" validate:"max=20"`
	Position string `json:"position,omitempty" validate:"max=20"`
	Color    string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

type DesignFeatures struct {
	Lighting    string   `json:"lighting,omitempty" validate:"max=40"`
	Mounting    string   `json:"mounting,omitempty" validate:"max=40"`
	Protections []string `json:"protections,omitempty" validate:"max=8,dive,required,max=40"`
	Background  string   `json:"background,omitempty" validate:"max=40"`
}

type DesignConfiguration struct {
	FrameStyle      PricedOption    `json:"frame_style"`
	Material        PricedOption    `json:"material"`
	Personalization Personalization `json:"personalization"`
	Features        DesignFeatures  `json:"features"`
}

type Design struct {
	ID         uuid.UUID           `json:"id"`
	CustomerID uuid.UUID           `json:"customer_id"`
	Name       string              `json:"name"`
	Status     DesignStatus        `json:"status"`
	Config     DesignConfiguration `json:"config"`
	Price      decimal.Decimal     `json:"price"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

type SaveDesignRequest struct {
	Name            string          `json:"name,omitempty" validate:"max=120"`
	FrameStyleID    string          `json:"frame_style_id" validate:"required,max=40"`
	MaterialID      string          `json:"material_id" validate:"required,max=40"`
	Personalization Personalization `json:"personalization"`
	Features        DesignFeatures  `json:"features"`
}
