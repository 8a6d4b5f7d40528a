package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/georgemunganga/townkart-backend/internal/modules/user"
	"github.com/georgemunganga/townkart-backend/internal/platform/apperr"
	"github.com/georgemunganga/townkart-backend/internal/platform/httpx"
)

// UserLookup loads the account a token refers to.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// Gate resolves the caller from a bearer token and enforces Permissions.
type Gate struct {
	tokens *Tokens
	users  UserLookup
}

func NewGate(tokens *Tokens, users UserLookup) *Gate {
	return &Gate{tokens: tokens, users: users}
}

// CurrentUser returns the authenticated caller.
func CurrentUser(ctx context.Context) (*user.User, bool) {
	return user.FromContext(ctx)
}

// Authenticate rejects requests without a valid token for an existing user.
func (g *Gate) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, err := g.resolve(r)
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(user.NewContext(r.Context(), u)))
	})
}

func (g *Gate) resolve(r *http.Request) (*user.User, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return nil, apperr.Unauthenticated("Not authorized, token missing")
	}

	claims, err := g.tokens.Verify(strings.TrimSpace(token))
	if err != nil {
		return nil, err
	}
	id, _ := claims.SubjectID()

	u, err := g.users.GetByID(r.Context(), id)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.Unauthenticated("User not found")
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Require must run after Authenticate.
func (g *Gate) Require(action Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, _ := CurrentUser(r.Context())
			if err := Can(u, action); err != nil {
				httpx.Error(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Protect chains Authenticate and Require for one action.
func (g *Gate) Protect(action Action) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{g.Authenticate, g.Require(action)}
}
