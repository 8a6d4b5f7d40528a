package report

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/townkart-backend/internal/modules/auth"
	"github.com/georgemunganga/townkart-backend/internal/platform/httpx"
)

// Handler exposes the reporting endpoints. Each view answers on its
// canonical path and on the legacy alias under /api/orders.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router, gate *auth.Gate) {
	admin := r.With(gate.Protect(auth.ActionAdminOverview)...)
	admin.Get("/api/admin/overview", h.adminOverview)        // GET /api/admin/overview
	admin.Get("/api/orders/admin/overview", h.adminOverview) // GET /api/orders/admin/overview

	business := r.With(gate.Protect(auth.ActionBusinessOverview)...)
	business.Get("/api/business/overview", h.businessOverview)        // GET /api/business/overview
	business.Get("/api/orders/business/overview", h.businessOverview) // GET /api/orders/business/overview

	r.With(gate.Protect(auth.ActionViewUserStats)...).Get("/api/users/stats/overview", h.userStats) // GET /api/users/stats/overview
}

func (h *Handler) adminOverview(w http.ResponseWriter, r *http.Request) {
	ov, err := h.service.AdminOverview(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{"data": ov})
}

func (h *Handler) businessOverview(w http.ResponseWriter, r *http.Request) {
	owner, _ := auth.CurrentUser(r.Context())
	ov, err := h.service.BusinessOverview(r.Context(), owner)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{"data": ov})
}

func (h *Handler) userStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.UserStats(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{"data": st})
}
