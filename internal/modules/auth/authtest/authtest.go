// Package authtest builds a Gate backed by in-memory users so handler
// tests can issue real bearer tokens.
package authtest

import (
	"net/http"
	"testing"
	"time"

	"github.com/georgemunganga/townkart-backend/internal/modules/auth"
	"github.com/georgemunganga/townkart-backend/internal/modules/user"
	"github.com/georgemunganga/townkart-backend/internal/modules/user/usertest"
)

type Env struct {
	Users  *usertest.Repository
	Tokens *auth.Tokens
	Gate   *auth.Gate
}

func New() *Env {
	users := usertest.NewRepository()
	tokens := auth.NewTokens("authtest-secret", time.Hour)
	return &Env{Users: users, Tokens: tokens, Gate: auth.NewGate(tokens, users)}
}

// NewUser stores an active user with the given role.
func (e *Env) NewUser(name string, role user.Role) *user.User {
	return e.Users.Seed(&user.User{
		Name:     name,
		Email:    name + "@townkart.test",
		Role:     role,
		IsActive: true,
	})
}

// Authorize sets a bearer token for u on req.
func (e *Env) Authorize(t *testing.T, req *http.Request, u *user.User) *http.Request {
	t.Helper()
	tok, err := e.Tokens.Issue(u)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	return req
}
