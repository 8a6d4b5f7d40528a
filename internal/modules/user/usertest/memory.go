// Package usertest provides an in-memory user.Repository for tests of
// packages that depend on accounts.
package usertest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/georgemunganga/townkart-backend/internal/modules/user"
	"github.com/georgemunganga/townkart-backend/internal/platform/apperr"
)

// Repository is a map-backed user.Repository.
type Repository struct {
	mu    sync.Mutex
	users map[uuid.UUID]*user.User
	// Referenced marks users that a foreign key would protect from deletion.
	Referenced map[uuid.UUID]bool
}

func NewRepository() *Repository {
	return &Repository{users: map[uuid.UUID]*user.User{}, Referenced: map[uuid.UUID]bool{}}
}

var _ user.Repository = (*Repository)(nil)

func clone(u *user.User) *user.User {
	c := *u
	if u.Address != nil {
		a := *u.Address
		c.Address = &a
	}
	return &c
}

func (r *Repository) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return apperr.Conflict("User already exists with this email")
		}
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	r.users[u.ID] = clone(u)
	return nil
}

func (r *Repository) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperr.NotFound("User not found")
	}
	return clone(u), nil
}

func (r *Repository) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return clone(u), nil
		}
	}
	return nil, apperr.NotFound("User not found")
}

func (r *Repository) List(_ context.Context, f user.ListFilter) ([]*user.User, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*user.User
	for _, u := range r.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.IsActive != nil && u.IsActive != *f.IsActive {
			continue
		}
		if f.Search != "" {
			s := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(u.Name), s) && !strings.Contains(strings.ToLower(u.Email), s) {
				continue
			}
		}
		matched = append(matched, clone(u))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := len(matched)
	start := (f.Page - 1) * f.Limit
	if start > total {
		start = total
	}
	end := start + f.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (r *Repository) Update(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return apperr.NotFound("User not found")
	}
	u.UpdatedAt = time.Now().UTC()
	r.users[u.ID] = clone(u)
	return nil
}

func (r *Repository) SetRole(_ context.Context, id uuid.UUID, role user.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return apperr.NotFound("User not found")
	}
	u.Role = role
	return nil
}

func (r *Repository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return apperr.NotFound("User not found")
	}
	if r.Referenced[id] {
		return apperr.Conflict("User still owns orders, products or bookings")
	}
	delete(r.users, id)
	return nil
}

func (r *Repository) TouchLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return apperr.NotFound("User not found")
	}
	u.LastLoginAt = &at
	return nil
}

// Count returns the number of stored users.
func (r *Repository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// Seed stores u directly, filling in an id when it has none.
func (r *Repository) Seed(u *user.User) *user.User {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	r.users[u.ID] = clone(u)
	return u
}
