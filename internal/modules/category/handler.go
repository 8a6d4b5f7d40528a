package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/townkart-backend/internal/modules/auth"
	"github.com/georgemunganga/townkart-backend/internal/platform/httpx"
)

// Handler exposes category HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router, gate *auth.Gate) {
	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", h.list)                    // GET    /api/categories
		r.Get("/{id}", h.get)                 // GET    /api/categories/{id}
		r.Get("/{id}/hierarchy", h.hierarchy) // GET    /api/categories/{id}/hierarchy

		r.Group(func(r chi.Router) {
			r.Use(gate.Protect(auth.ActionManageCategories)...)
			r.Post("/", h.create)       // POST   /api/categories
			r.Put("/{id}", h.update)    // PUT    /api/categories/{id}
			r.Delete("/{id}", h.delete) // DELETE /api/categories/{id}
		})
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.List(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{"category": c})
}

func (h *Handler) hierarchy(w http.ResponseWriter, r *http.Request) {
	trail, err := h.service.Hierarchy(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{"hierarchy": trail})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	c, err := h.service.Create(r.Context(), req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, map[string]interface{}{"category": c})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	c, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{"category": c})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{"message": "Category deleted (inactive)", "category": c})
}
