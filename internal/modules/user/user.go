package user

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role determines which operations a user may invoke.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleBusiness Role = "business"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleBusiness, RoleAdmin:
		return true
	}
	return false
}

const defaultCountry = "India"

// Address is the optional postal address stored on a user profile.
type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
	Country string `json:"country,omitempty"`
}

// User is a registered account. PasswordHash never leaves the server.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	Phone        string     `json:"phone,omitempty"`
	Address      *Address   `json:"address,omitempty"`
	IsActive     bool       `json:"isActive"`
	LastLoginAt  *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Name     string   `json:"name" validate:"required,max=50"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=6"`
	Role     Role     `json:"role" validate:"omitempty,oneof=customer business admin"`
	Phone    string   `json:"phone" validate:"omitempty,max=32"`
	Address  *Address `json:"address"`
}

// UpdateRequest carries the admin-editable profile fields. Nil fields are
// left unchanged; password and role are not editable here.
type UpdateRequest struct {
	Name     *string  `json:"name" validate:"omitempty,min=1,max=50"`
	Phone    *string  `json:"phone" validate:"omitempty,max=32"`
	Address  *Address `json:"address"`
	IsActive *bool    `json:"isActive"`
}

// ListFilter narrows the admin user listing.
type ListFilter struct {
	Role     Role
	IsActive *bool
	Search   string
	Page     int
	Limit    int
}

// Pagination describes the page returned by ListUsers.
type Pagination struct {
	Current int  `json:"current"`
	Total   int  `json:"total"`
	HasNext bool `json:"hasNext"`
	HasPrev bool `json:"hasPrev"`
}

// ListResult is one page of users.
type ListResult struct {
	Data       []*User    `json:"data"`
	Total      int        `json:"total"`
	Count      int        `json:"count"`
	Pagination Pagination `json:"pagination"`
}

type ctxKey struct{}

// NewContext returns ctx carrying the authenticated user.
func NewContext(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// FromContext returns the authenticated user stored in ctx, if any.
func FromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ctxKey{}).(*User)
	return u, ok && u != nil
}
