package user

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/georgemunganga/townkart-backend/internal/platform/apperr"
	"github.com/georgemunganga/townkart-backend/internal/platform/validate"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type service struct {
	repo       Repository
	bcryptCost int
	now        func() time.Time
}

// NewService creates a new user service.
func NewService(repo Repository, bcryptCost int) Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &service{repo: repo, bcryptCost: bcryptCost, now: time.Now}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Role == "" {
		req.Role = RoleCustomer
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	addr := req.Address
	if addr != nil && addr.Country == "" {
		addr.Country = defaultCountry
	}

	user := &User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Role:         req.Role,
		Phone:        strings.TrimSpace(req.Phone),
		Address:      addr,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func parseID(id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, apperr.NotFound("User not found")
	}
	return uid, nil
}

func (s *service) GetUser(ctx context.Context, id string) (*User, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, uid)
}

func (s *service) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, strings.TrimSpace(email))
}

func (s *service) ListUsers(ctx context.Context, f ListFilter) (*ListResult, error) {
	if f.Role != "" && !f.Role.Valid() {
		return nil, apperr.ValidationFields("validation failed", map[string]string{"role": "Invalid role"})
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultPageSize
	}
	if f.Limit > maxPageSize {
		return nil, apperr.ValidationFields("validation failed", map[string]string{"limit": "Limit must be between 1 and 100"})
	}

	users, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	pages := int(math.Ceil(float64(total) / float64(f.Limit)))
	return &ListResult{
		Data:  users,
		Total: total,
		Count: len(users),
		Pagination: Pagination{
			Current: f.Page,
			Total:   pages,
			HasNext: f.Page < pages,
			HasPrev: f.Page > 1,
		},
	}, nil
}

func (s *service) UpdateUser(ctx context.Context, id string, req UpdateRequest) (*User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		u.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		u.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		u.Address = req.Address
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) ToggleStatus(ctx context.Context, actor *User, id string) (*User, error) {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor != nil && actor.ID == u.ID {
		return nil, apperr.Validation("You cannot deactivate your own account")
	}
	u.IsActive = !u.IsActive
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) DeleteUser(ctx context.Context, actor *User, id string) error {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if actor != nil && actor.ID == u.ID {
		return apperr.Validation("You cannot delete your own account")
	}
	return s.repo.Delete(ctx, u.ID)
}

func (s *service) RecordLogin(ctx context.Context, id uuid.UUID) error {
	return s.repo.TouchLogin(ctx, id, s.now().UTC())
}

func (s *service) EnsureAdmin(ctx context.Context, name, email, password string) (*User, bool, error) {
	existing, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	switch {
	case err == nil:
		if existing.Role != RoleAdmin {
			if err := s.repo.SetRole(ctx, existing.ID, RoleAdmin); err != nil {
				return nil, false, err
			}
			existing.Role = RoleAdmin
		}
		return existing, false, nil
	case !errors.Is(err, apperr.ErrNotFound):
		return nil, false, err
	}

	u, err := s.Register(ctx, RegisterRequest{Name: name, Email: email, Password: password, Role: RoleAdmin})
	if err != nil {
		return nil, false, err
	}
	return u, true, nil
}
