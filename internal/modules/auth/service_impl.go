package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/georgemunganga/townkart-backend/internal/modules/user"
	"github.com/georgemunganga/townkart-backend/internal/platform/apperr"
)

const invalidCredentials = "Invalid email or password"

// dummyHash keeps the unknown-email path as slow as a real comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("townkart-dummy-password"), bcrypt.DefaultCost)

type service struct {
	users  user.Service
	tokens *Tokens
}

// NewService creates a new auth service.
func NewService(users user.Service, tokens *Tokens) Service {
	return &service{users: users, tokens: tokens}
}

func (s *service) Register(ctx context.Context, req user.RegisterRequest) (*Session, error) {
	if req.Role == user.RoleAdmin {
		return nil, apperr.ValidationFields("validation failed", map[string]string{
			"role": "must be one of: customer business",
		})
	}
	u, err := s.users.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.session(u)
}

func (s *service) Login(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, apperr.Validation("Email and password are required")
	}

	u, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, apperr.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, apperr.Unauthenticated(invalidCredentials)
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.Unauthenticated(invalidCredentials)
	}
	if !u.IsActive {
		return nil, apperr.Forbidden("Account is deactivated")
	}

	if err := s.users.RecordLogin(ctx, u.ID); err != nil {
		return nil, err
	}
	return s.session(u)
}

func (s *service) Me(_ context.Context, u *user.User) (*user.User, error) {
	if u == nil {
		return nil, apperr.Unauthenticated("Not authorized, token missing")
	}
	return u, nil
}

func (s *service) session(u *user.User) (*Session, error) {
	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: u}, nil
}
