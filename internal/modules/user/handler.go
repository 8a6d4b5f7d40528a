package user

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/townkart-backend/internal/platform/httpx"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the admin user management endpoints behind the
// given guard middlewares.
func (h *Handler) RegisterRoutes(router chi.Router, guard ...func(http.Handler) http.Handler) {
	router.Route("/api/users", func(r chi.Router) {
		r.Use(guard...)
		r.Get("/", h.listUsers)
		r.Get("/{id}", h.getUser)
		r.Put("/{id}", h.updateUser)
		r.Delete("/{id}", h.deleteUser)
		r.Put("/{id}/toggle-status", h.toggleStatus)
	})
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := ListFilter{
		Role:   Role(q.Get("role")),
		Search: q.Get("search"),
		Page:   httpx.QueryInt(r, "page", 1),
		Limit:  httpx.QueryInt(r, "limit", defaultPageSize),
	}
	if raw := q.Get("isActive"); raw != "" {
		active, _ := strconv.ParseBool(raw)
		f.IsActive = &active
	}

	result, err := h.service.ListUsers(r.Context(), f)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, result)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{"data": user})
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}

	user, err := h.service.UpdateUser(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{"data": user})
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	actor, _ := FromContext(r.Context())
	if err := h.service.DeleteUser(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

func (h *Handler) toggleStatus(w http.ResponseWriter, r *http.Request) {
	actor, _ := FromContext(r.Context())
	user, err := h.service.ToggleStatus(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	msg := "User deactivated successfully"
	if user.IsActive {
		msg = "User activated successfully"
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{"message": msg, "data": user})
}
