package user

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the interface for user-related business logic.
type Service interface {
	// Register validates and persists a new account with a hashed password.
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context, f ListFilter) (*ListResult, error)
	UpdateUser(ctx context.Context, id string, req UpdateRequest) (*User, error)
	// ToggleStatus flips the active flag. Admins cannot toggle themselves.
	ToggleStatus(ctx context.Context, actor *User, id string) (*User, error)
	// DeleteUser removes the account. Admins cannot delete themselves.
	DeleteUser(ctx context.Context, actor *User, id string) error
	RecordLogin(ctx context.Context, id uuid.UUID) error
	// EnsureAdmin creates an admin account or promotes an existing one.
	EnsureAdmin(ctx context.Context, name, email, password string) (*User, bool, error)
}
