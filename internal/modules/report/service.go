package report

import (
	"context"
	"time"

	"github.com/georgemunganga/townkart-backend/internal/modules/user"
)

const (
	recentOrdersLimit = 5
	topProductsLimit  = 5
	newUserWindow     = 30 * 24 * time.Hour
)

// Service exposes the read-only reporting views.
type Service interface {
	AdminOverview(ctx context.Context) (*AdminOverview, error)
	BusinessOverview(ctx context.Context, owner *user.User) (*BusinessOverview, error)
	UserStats(ctx context.Context) (*UserStats, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) AdminOverview(ctx context.Context) (*AdminOverview, error) {
	return s.repo.AdminOverview(ctx, recentOrdersLimit)
}

func (s *service) BusinessOverview(ctx context.Context, owner *user.User) (*BusinessOverview, error) {
	return s.repo.BusinessOverview(ctx, owner.ID, topProductsLimit)
}

func (s *service) UserStats(ctx context.Context) (*UserStats, error) {
	return s.repo.UserStats(ctx, s.now().Add(-newUserWindow))
}
