package user

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for user data storage.
type Repository interface {
	// Create fails with a CONFLICT error when the email is already taken.
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, f ListFilter) ([]*User, int, error)
	Update(ctx context.Context, u *User) error
	SetRole(ctx context.Context, id uuid.UUID, role Role) error
	Delete(ctx context.Context, id uuid.UUID) error
	TouchLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}
