package report

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository computes the reporting aggregates straight from the order,
// catalog and user tables on every call.
type Repository interface {
	AdminOverview(ctx context.Context, recent int) (*AdminOverview, error)
	BusinessOverview(ctx context.Context, owner uuid.UUID, top int) (*BusinessOverview, error)
	// UserStats counts users; NewUsers covers accounts created at or after since.
	UserStats(ctx context.Context, since time.Time) (*UserStats, error)
}
