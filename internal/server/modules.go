package server

import (
	"database/sql"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/georgemunganga/townkart-backend/internal/config"
	"github.com/georgemunganga/townkart-backend/internal/modules/auth"
	"github.com/georgemunganga/townkart-backend/internal/modules/catalog"
	"github.com/georgemunganga/townkart-backend/internal/modules/category"
	"github.com/georgemunganga/townkart-backend/internal/modules/order"
	"github.com/georgemunganga/townkart-backend/internal/modules/rental"
	"github.com/georgemunganga/townkart-backend/internal/modules/report"
	"github.com/georgemunganga/townkart-backend/internal/modules/user"
)

// Modules holds the wired services behind the HTTP surface.
type Modules struct {
	Gate       *auth.Gate
	Users      user.Service
	Auth       auth.Service
	Categories category.Service
	Products   catalog.Service
	Orders     order.Service
	Rental     rental.Service
	Reports    report.Service
}

// NewModules builds every service on top of the PostgreSQL repositories.
// A non-nil rdb puts the Redis cache in front of the category store.
func NewModules(cfg *config.Config, db *sql.DB, rdb *redis.Client, logger *slog.Logger) *Modules {
	// ── Identity ─────────────────────────────────────────────
	userRepo := user.NewPostgresRepository(db)
	users := user.NewService(userRepo, cfg.BcryptCost)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)

	// ── Catalog ──────────────────────────────────────────────
	var categoryRepo category.Repository = category.NewPostgresRepository(db)
	if rdb != nil {
		categoryRepo = category.NewCachedRepository(categoryRepo, rdb, category.DefaultCacheTTL, logger)
	}

	return &Modules{
		Gate:       auth.NewGate(tokens, userRepo),
		Users:      users,
		Auth:       auth.NewService(users, tokens),
		Categories: category.NewService(categoryRepo),
		Products:   catalog.NewService(catalog.NewPostgresRepository(db)),
		Orders:     order.NewService(order.NewPostgresRepository(db)),
		Rental:     rental.NewService(rental.NewPostgresRepository(db)),
		Reports:    report.NewService(report.NewPostgresRepository(db)),
	}
}
