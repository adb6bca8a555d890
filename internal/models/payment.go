package models

import (
	"time"

	"github.com/google/uuid"
)

// Amount is in minor units (paise).
type Payment struct {
	ID                string        `json:"id"`
	CheckoutSessionID uuid.UUID     `json:"checkout_session_id"`
	CustomerID        uuid.UUID     `json:"customer_id"`
	Amount            int64         `json:"amount"`
	Currency          string        `json:"currency"`
	Status            PaymentStatus `json:"payment_status"`
	PaymentMethod     string        `json:"payment_method"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

type PaymentResponse struct {
	Payment      *Payment `json:"payment"`
	ClientSecret string   `json:"client_secret,omitempty"`
}
