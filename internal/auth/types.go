package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

const (
	contextUserID    = "user_id"
	contextUserEmail = "user_email"
)

// represents JWT claims
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
