// Package server assembles the HTTP router and runs the API server.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"go.opentelemetry.io/otel"

	"github.com/georgemunganga/townkart-backend/internal/config"
	"github.com/georgemunganga/townkart-backend/internal/modules/auth"
	"github.com/georgemunganga/townkart-backend/internal/modules/catalog"
	"github.com/georgemunganga/townkart-backend/internal/modules/category"
	"github.com/georgemunganga/townkart-backend/internal/modules/order"
	"github.com/georgemunganga/townkart-backend/internal/modules/rental"
	"github.com/georgemunganga/townkart-backend/internal/modules/report"
	"github.com/georgemunganga/townkart-backend/internal/modules/user"
	"github.com/georgemunganga/townkart-backend/internal/platform/httpx"
	"github.com/georgemunganga/townkart-backend/internal/platform/telemetry"
)

// NewRouter mounts every module under /api.
func NewRouter(cfg *config.Config, m *Modules) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(httpx.Recoverer)
	router.Use(httpx.ExposeErrors(!cfg.IsProduction()))
	router.Use(telemetry.Middleware(otel.GetTracerProvider()))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Every route lives under /api, so the limiter covers the whole API.
	router.Use(httprate.LimitByIP(cfg.RateLimitMaxRequests, cfg.RateLimitWindow))

	router.NotFound(httpx.NotFound)
	router.MethodNotAllowed(httpx.MethodNotAllowed)
	router.Get("/api/health", health(cfg)) // GET /api/health

	// ── Identity ─────────────────────────────────────────────
	auth.NewHandler(m.Auth, m.Gate).RegisterRoutes(router)
	user.NewHandler(m.Users).RegisterRoutes(router, m.Gate.Protect(auth.ActionManageUsers)...)

	// ── Catalog ──────────────────────────────────────────────
	category.NewHandler(m.Categories).RegisterRoutes(router, m.Gate)
	catalog.NewHandler(m.Products).RegisterRoutes(router, m.Gate)

	// ── Orders & Reporting ───────────────────────────────────
	order.NewHandler(m.Orders).RegisterRoutes(router, m.Gate)
	report.NewHandler(m.Reports).RegisterRoutes(router, m.Gate)

	// ── Rentals ──────────────────────────────────────────────
	rental.NewHandler(m.Rental).RegisterRoutes(router, m.Gate)

	return router
}

func health(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.Respond(w, http.StatusOK, map[string]interface{}{
			"success":     true,
			"message":     "TownKart API is running",
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"environment": cfg.Env,
		})
	}
}
