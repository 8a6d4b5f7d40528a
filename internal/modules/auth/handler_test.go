package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/georgemunganga/townkart-backend/internal/modules/auth"
	"github.com/georgemunganga/townkart-backend/internal/modules/user"
	"github.com/georgemunganga/townkart-backend/internal/modules/user/usertest"
)

type fixture struct {
	router *chi.Mux
	repo   *usertest.Repository
	tokens *auth.Tokens
	gate   *auth.Gate
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := usertest.NewRepository()
	tokens := auth.NewTokens("test-secret", time.Hour)
	gate := auth.NewGate(tokens, repo)
	users := user.NewService(repo, bcrypt.MinCost)

	r := chi.NewRouter()
	auth.NewHandler(auth.NewService(users, tokens), gate).RegisterRoutes(r)
	return &fixture{router: r, repo: repo, tokens: tokens, gate: gate}
}

func (f *fixture) do(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

type sessionBody struct {
	Token   string                 `json:"token"`
	User    map[string]interface{} `json:"user"`
	Message string                 `json:"message"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) sessionBody {
	t.Helper()
	var b sessionBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	return b
}

func TestRegisterLoginScenario(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/auth/register", `{"name":"A","email":"a@x.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	registered := decode(t, rec)
	assert.NotEmpty(t, registered.Token)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = f.do(http.MethodPost, "/api/auth/login", `{"email":"a@x.com","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(http.MethodPost, "/api/auth/login", `{"email":"a@x.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	session := decode(t, rec)

	claims, err := f.tokens.Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User["id"], claims.Subject)
}

func TestLoginDoesNotEnumerateUsers(t *testing.T) {
	f := newFixture(t)
	f.do(http.MethodPost, "/api/auth/register", `{"name":"A","email":"a@x.com","password":"secret1"}`, "")

	wrongPassword := f.do(http.MethodPost, "/api/auth/login", `{"email":"a@x.com","password":"nope!!"}`, "")
	unknownEmail := f.do(http.MethodPost, "/api/auth/login", `{"email":"ghost@x.com","password":"nope!!"}`, "")

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, wrongPassword.Code, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	assert.Equal(t, "Invalid email or password", decode(t, unknownEmail).Message)
}

func TestLoginDeactivatedAccount(t *testing.T) {
	f := newFixture(t)
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	f.repo.Seed(&user.User{Name: "Off", Email: "off@x.com", PasswordHash: string(hash), Role: user.RoleCustomer})

	rec := f.do(http.MethodPost, "/api/auth/login", `{"email":"off@x.com","password":"secret1"}`, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(http.MethodPost, "/api/auth/login", `{"email":"off@x.com","password":"wrong!"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignupAliasAndDuplicateEmail(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/auth/signup", `{"name":"A","email":"a@x.com","password":"secret1","role":"business"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "business", decode(t, rec).User["role"])

	rec = f.do(http.MethodPost, "/api/auth/register", `{"name":"B","email":"A@x.com","password":"secret1"}`, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 1, f.repo.Count())
}

func TestRegisterRefusesAdminRole(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/auth/register", `{"name":"A","email":"a@x.com","password":"secret1","role":"admin"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, f.repo.Count())
}

func TestMeIsIdempotent(t *testing.T) {
	f := newFixture(t)
	token := decode(t, f.do(http.MethodPost, "/api/auth/register", `{"name":"A","email":"a@x.com","password":"secret1"}`, "")).Token

	first := f.do(http.MethodGet, "/api/auth/me", "", token)
	second := f.do(http.MethodGet, "/api/auth/me", "", token)

	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "a@x.com", decode(t, first).User["email"])
}

func TestMeRequiresToken(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/api/auth/me", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/api/auth/me", "", "garbage").Code)
}
