package category

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for category storage.
type Repository interface {
	// Create fails with CONFLICT when the name or slug is taken.
	Create(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)
	// ListActive returns active categories by sort order, then name.
	ListActive(ctx context.Context) ([]*Category, error)
	Update(ctx context.Context, c *Category) error
}
