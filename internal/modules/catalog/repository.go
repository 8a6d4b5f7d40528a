package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for product storage.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	// GetByID returns the product without its reviews.
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	// List returns active products matching q and the total match count.
	List(ctx context.Context, q ListQuery) ([]*Product, int, error)
	ListByOwner(ctx context.Context, owner uuid.UUID) ([]*Product, error)
	Update(ctx context.Context, p *Product) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
	ListReviews(ctx context.Context, productID uuid.UUID) ([]Review, error)
	// AddReview stores r and recomputes the rating aggregate atomically.
	// A second review by the same user fails with CONFLICT.
	AddReview(ctx context.Context, productID uuid.UUID, r *Review) (Rating, error)
}
