package models

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type AppMetadata struct {
	Role string `json:"role,omitempty"`
}

// Claims issued by the hosted auth provider. "sub" carries the user id.
type Claims struct {
	UserID      uuid.UUID   `json:"sub"`
	Email       string      `json:"email"`
	Role        string      `json:"role,omitempty"`
	AppMetadata AppMetadata `json:"app_metadata"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAdmin() bool {
	return c.AppMetadata.Role == "admin"
}
