package auth

import (
	"context"

	"github.com/georgemunganga/townkart-backend/internal/modules/user"
)

// Session is returned by register and login.
type Session struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

// Service defines the interface for authentication-related business logic.
type Service interface {
	Register(ctx context.Context, req user.RegisterRequest) (*Session, error)
	// Login answers unknown emails and wrong passwords identically.
	Login(ctx context.Context, email, password string) (*Session, error)
	Me(ctx context.Context, u *user.User) (*user.User, error)
}
