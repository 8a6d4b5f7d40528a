package rental

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/townkart-backend/internal/modules/auth"
	"github.com/georgemunganga/townkart-backend/internal/platform/httpx"
)

// Handler exposes the fleet and booking endpoints. Responses are bare
// arrays and objects, as the rental frontend expects.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router, gate *auth.Gate) {
	r.Route("/api/cars", func(r chi.Router) {
		r.Get("/", h.listCars)                                                 // GET    /api/cars
		r.With(gate.Protect(auth.ActionSeedCars)...).Post("/seed", h.seedCars) // POST   /api/cars/seed
	})
	r.With(gate.Protect(auth.ActionCreateBooking)...).Post("/api/bookings", h.createBooking) // POST /api/bookings
	r.Route("/api/admin/bookings", func(r chi.Router) {
		r.Use(gate.Protect(auth.ActionManageBookings)...)
		r.Get("/", h.listBookings)          // GET    /api/admin/bookings
		r.Patch("/{id}/approve", h.approve) // PATCH  /api/admin/bookings/{id}/approve
		r.Patch("/{id}/reject", h.reject)   // PATCH  /api/admin/bookings/{id}/reject
	})
}

func (h *Handler) listCars(w http.ResponseWriter, r *http.Request) {
	cars, err := h.service.ListCars(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, cars)
}

func (h *Handler) seedCars(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.SeedCars(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, res)
}

func (h *Handler) createBooking(w http.ResponseWriter, r *http.Request) {
	var req BookingRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	actor, _ := auth.CurrentUser(r.Context())
	b, err := h.service.CreateBooking(r.Context(), actor, req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, b)
}

func (h *Handler) listBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.ListBookings(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, bookings)
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.ApproveBooking(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, b)
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.RejectBooking(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, b)
}
