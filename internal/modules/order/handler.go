package order

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/townkart-backend/internal/modules/auth"
	"github.com/georgemunganga/townkart-backend/internal/platform/httpx"
)

// Handler exposes order HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router, gate *auth.Gate) {
	r.Route("/api/orders", func(r chi.Router) {
		r.With(gate.Protect(auth.ActionPlaceOrder)...).Post("/", h.placeOrder)                         // POST   /api/orders
		r.With(gate.Protect(auth.ActionListMyOrders)...).Get("/my-orders", h.listMine)                 // GET    /api/orders/my-orders
		r.With(gate.Protect(auth.ActionListBusinessOrders)...).Get("/business-orders", h.listBusiness) // GET    /api/orders/business-orders
		r.With(gate.Protect(auth.ActionListAllOrders)...).Get("/", h.listAll)                          // GET    /api/orders?page=&limit=
		r.With(gate.Protect(auth.ActionViewOrder)...).Get("/{id}", h.getOrder)                         // GET    /api/orders/{id}
		r.With(gate.Protect(auth.ActionUpdateOrderStatus)...).Put("/{id}/status", h.updateStatus)      // PUT    /api/orders/{id}/status
		r.With(gate.Protect(auth.ActionUpdateOrderStatus)...).Patch("/{id}/status", h.updateStatus)    // PATCH  /api/orders/{id}/status
		r.With(gate.Protect(auth.ActionCancelOrder)...).Put("/{id}/cancel", h.cancelOrder)             // PUT    /api/orders/{id}/cancel
		r.With(gate.Protect(auth.ActionUpdatePayment)...).Put("/{id}/payment", h.updatePayment)        // PUT    /api/orders/{id}/payment
	})
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	customer, _ := auth.CurrentUser(r.Context())
	o, err := h.service.PlaceOrder(r.Context(), customer, req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, map[string]interface{}{"order": o})
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	customer, _ := auth.CurrentUser(r.Context())
	orders, err := h.service.ListMyOrders(r.Context(), customer)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

func (h *Handler) listBusiness(w http.ResponseWriter, r *http.Request) {
	owner, _ := auth.CurrentUser(r.Context())
	orders, err := h.service.ListBusinessOrders(r.Context(), owner)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

func (h *Handler) listAll(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.ListOrders(r.Context(),
		httpx.QueryInt(r, "page", 1), httpx.QueryInt(r, "limit", defaultPageSize))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, res)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentUser(r.Context())
	o, err := h.service.GetOrder(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{"order": o})
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	actor, _ := auth.CurrentUser(r.Context())
	o, err := h.service.UpdateStatus(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{"order": o})
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	var req CancelRequest
	if err := httpx.DecodeOptional(w, r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	actor, _ := auth.CurrentUser(r.Context())
	o, err := h.service.CancelOrder(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{"order": o})
}

func (h *Handler) updatePayment(w http.ResponseWriter, r *http.Request) {
	var req UpdatePaymentRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	actor, _ := auth.CurrentUser(r.Context())
	o, err := h.service.UpdatePayment(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{"order": o})
}
