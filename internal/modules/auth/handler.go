package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/townkart-backend/internal/modules/user"
	"github.com/georgemunganga/townkart-backend/internal/platform/httpx"
)

type Handler struct {
	service Service
	gate    *Gate
}

func NewHandler(service Service, gate *Gate) *Handler {
	return &Handler{service: service, gate: gate}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/signup", h.register)
		r.Post("/login", h.login)
		r.With(h.gate.Authenticate).Get("/me", h.me)
	})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req user.RegisterRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}

	session, err := h.service.Register(r.Context(), req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, session)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req request
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}

	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, session)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	current, _ := CurrentUser(r.Context())
	u, err := h.service.Me(r.Context(), current)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{"user": u})
}
