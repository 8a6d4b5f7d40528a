package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/townkart-backend/internal/modules/auth"
	"github.com/georgemunganga/townkart-backend/internal/platform/httpx"
)

// Handler exposes product HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router, gate *auth.Gate) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.list)    // GET    /api/products?search=&category=&page=&limit=&sort=
		r.Get("/{id}", h.get) // GET    /api/products/{id}

		r.With(gate.Protect(auth.ActionCreateProduct)...).Post("/", h.create)                        // POST   /api/products
		r.With(gate.Protect(auth.ActionEditProduct)...).Put("/{id}", h.update)                       // PUT    /api/products/{id}
		r.With(gate.Protect(auth.ActionEditProduct)...).Delete("/{id}", h.delete)                    // DELETE /api/products/{id}
		r.With(gate.Protect(auth.ActionListOwnProducts)...).Get("/business/my-products", h.listMine) // GET    /api/products/business/my-products
		r.With(gate.Protect(auth.ActionReviewProduct)...).Post("/{id}/reviews", h.addReview)         // POST   /api/products/{id}/reviews
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.service.ListProducts(r.Context(), ListQuery{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Sort:     q.Get("sort"),
		Page:     httpx.QueryInt(r, "page", 1),
		Limit:    httpx.QueryInt(r, "limit", defaultPageSize),
	})
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, res)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{"product": p})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	owner, _ := auth.CurrentUser(r.Context())
	p, err := h.service.CreateProduct(r.Context(), owner, req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, map[string]interface{}{"product": p})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	actor, _ := auth.CurrentUser(r.Context())
	p, err := h.service.UpdateProduct(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{"product": p})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentUser(r.Context())
	p, err := h.service.DeleteProduct(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{"message": "Product marked inactive", "product": p})
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	owner, _ := auth.CurrentUser(r.Context())
	products, err := h.service.ListMine(r.Context(), owner)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{"products": products})
}

func (h *Handler) addReview(w http.ResponseWriter, r *http.Request) {
	var req ReviewRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	actor, _ := auth.CurrentUser(r.Context())
	res, err := h.service.AddReview(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, res)
}
