package models

import (
	"time"

	"github.com/rentadriver/ride-booking-system/pkg/uuid"
	"github.com/golang-jwt/jwt/v5"
)

// Token types carried in the "typ" claim.
const (
	AccessToken  = "access"
	RefreshToken = "refresh"
)

func IsValidTokenType(t string) bool {
	return t == AccessToken || t == RefreshToken
}

type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// CustomClaims is the decoded content of a platform JWT.
type CustomClaims struct {
	UserID    uuid.UUID
	TokenID   uuid.UUID
	TokenType string
	Email     string
	Role      string
	jwt.RegisteredClaims
}

// RefreshTokenRecord is the persisted, hashed form of an issued refresh token.
type RefreshTokenRecord struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	TokenHash  string
	ExpiresAt  time.Time
	Revoked    bool
	CreatedAt  time.Time
	LastUsedAt *time.Time
}
