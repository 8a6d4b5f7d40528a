package category

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/georgemunganga/townkart-backend/internal/platform/apperr"
	"github.com/georgemunganga/townkart-backend/internal/platform/slug"
	"github.com/georgemunganga/townkart-backend/internal/platform/validate"
)

// maxDepth bounds the ancestry walk against accidental parent cycles.
const maxDepth = 16

// Service defines the category business logic.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Category, error)
	Get(ctx context.Context, id string) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Category, error)
	// Delete deactivates the category; it stays in storage.
	Delete(ctx context.Context, id string) (*Category, error)
	// Hierarchy lists the category's ancestors, root first, ending with itself.
	Hierarchy(ctx context.Context, id string) ([]Breadcrumb, error)
}

type service struct {
	repo Repository
}

// NewService creates a new category service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func parseID(id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, apperr.NotFound("Category not found")
	}
	return uid, nil
}

func (s *service) parent(ctx context.Context, raw *string, self uuid.UUID) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	pid, err := uuid.Parse(*raw)
	if err != nil {
		return nil, apperr.ValidationFields("validation failed", map[string]string{"parentCategory": "must be a valid id"})
	}
	if pid == self {
		return nil, apperr.ValidationFields("validation failed", map[string]string{"parentCategory": "cannot be the category itself"})
	}
	if _, err := s.repo.GetByID(ctx, pid); err != nil {
		if apperr.CodeOf(err) == apperr.CodeNotFound {
			return nil, apperr.ValidationFields("validation failed", map[string]string{"parentCategory": "does not exist"})
		}
		return nil, err
	}
	return &pid, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	c := &Category{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Slug:        slug.Make(req.Name),
		Icon:        req.Icon,
		ImageURL:    req.ImageURL,
		IsActive:    true,
		SortOrder:   req.SortOrder,
	}
	if c.Icon == "" {
		c.Icon = defaultIcon
	}
	if c.Slug == "" {
		return nil, apperr.ValidationFields("validation failed", map[string]string{"name": "must contain letters or digits"})
	}
	parent, err := s.parent(ctx, req.ParentID, c.ID)
	if err != nil {
		return nil, err
	}
	c.ParentID = parent

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Get(ctx context.Context, id string) (*Category, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, uid)
}

func (s *service) List(ctx context.Context) ([]*Category, error) {
	return s.repo.ListActive(ctx)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Category, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
		c.Slug = slug.Make(c.Name)
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.Icon != nil {
		c.Icon = *req.Icon
	}
	if req.ImageURL != nil {
		c.ImageURL = *req.ImageURL
	}
	if req.ParentID != nil {
		parent, err := s.parent(ctx, req.ParentID, c.ID)
		if err != nil {
			return nil, err
		}
		c.ParentID = parent
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	if req.SortOrder != nil {
		c.SortOrder = *req.SortOrder
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Delete(ctx context.Context, id string) (*Category, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.IsActive = false
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Hierarchy(ctx context.Context, id string) ([]Breadcrumb, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	trail := []Breadcrumb{{ID: c.ID, Name: c.Name, Slug: c.Slug}}
	for depth := 0; c.ParentID != nil && depth < maxDepth; depth++ {
		c, err = s.repo.GetByID(ctx, *c.ParentID)
		if err != nil {
			return nil, err
		}
		trail = append([]Breadcrumb{{ID: c.ID, Name: c.Name, Slug: c.Slug}}, trail...)
	}
	return trail, nil
}
