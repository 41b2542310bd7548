package models

import (
	"context"
	"time"

	"github.com/rentadriver/ride-booking-system/internal/domain/types"
	"github.com/rentadriver/ride-booking-system/pkg/uuid"
)

// User is an account on the platform. The role is set at registration and
// never changes afterwards.
type User struct {
	ID           uuid.UUID
	Email        string
	Role         string
	Status       string
	PasswordHash string

	// Last-known position, reported by the client. Nil until the first
	// location update.
	LastLocation *Coordinates

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) GetPassword() string {
	return u.PasswordHash
}

func (u *User) SetPassword(hash string) {
	u.PasswordHash = hash
}

func (u *User) IsDriver() bool {
	return u.Role == types.DriverRole.String()
}

func (u *User) IsCustomer() bool {
	return u.Role == types.CustomerRole.String()
}

// AnonymousUser represents an unauthenticated request.
func AnonymousUser() *User {
	return &User{}
}

func (u *User) IsAnonymous() bool {
	return u == nil || u.ID == uuid.UUID{}
}

type userCtxKey struct{}

var userKey = userCtxKey{}

// WithUser stores the authenticated user in the context.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext returns the authenticated user, or nil.
func UserFromContext(ctx context.Context) *User {
	u, ok := ctx.Value(userKey).(*User)
	if !ok {
		return nil
	}
	return u
}

// UserCreateRequest carries the fields needed to register a new account.
type UserCreateRequest struct {
	Email    string
	Password string
	Role     types.UserRole
}
