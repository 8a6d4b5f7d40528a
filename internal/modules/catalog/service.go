package catalog

import (
	"context"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/townkart-backend/internal/modules/user"
	"github.com/georgemunganga/townkart-backend/internal/platform/apperr"
	"github.com/georgemunganga/townkart-backend/internal/platform/slug"
	"github.com/georgemunganga/townkart-backend/internal/platform/validate"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Service defines catalog business logic.
type Service interface {
	ListProducts(ctx context.Context, q ListQuery) (*ListResult, error)
	// GetProduct returns the product with its reviews and counts the view.
	GetProduct(ctx context.Context, id string) (*Product, error)
	CreateProduct(ctx context.Context, owner *user.User, req CreateRequest) (*Product, error)
	// UpdateProduct is allowed for the owning business or an admin.
	UpdateProduct(ctx context.Context, actor *user.User, id string, req UpdateRequest) (*Product, error)
	// DeleteProduct marks the product inactive.
	DeleteProduct(ctx context.Context, actor *user.User, id string) (*Product, error)
	ListMine(ctx context.Context, owner *user.User) ([]*Product, error)
	AddReview(ctx context.Context, actor *user.User, id string, req ReviewRequest) (*ReviewResult, error)
}

type service struct{ repo Repository }

func NewService(repo Repository) Service { return &service{repo: repo} }

func parseID(id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, apperr.NotFound("Product not found")
	}
	return uid, nil
}

func checkPrices(fields map[string]string, price decimal.Decimal, original *decimal.Decimal) {
	if !price.IsPositive() {
		fields["price"] = "must be greater than 0"
	}
	if original != nil && original.IsNegative() {
		fields["originalPrice"] = "must be greater than or equal to 0"
	}
}

func parseCategory(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	cid, err := uuid.Parse(*raw)
	if err != nil {
		return nil, apperr.ValidationFields("validation failed", map[string]string{"category": "must be a valid id"})
	}
	return &cid, nil
}

func productSlug(title string, id uuid.UUID) string {
	hex := strings.ReplaceAll(id.String(), "-", "")
	base := slug.Make(title)
	if base == "" {
		return hex[len(hex)-6:]
	}
	return base + "-" + hex[len(hex)-6:]
}

func (s *service) ListProducts(ctx context.Context, q ListQuery) (*ListResult, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultPageSize
	}
	if q.Limit > maxPageSize {
		q.Limit = maxPageSize
	}
	q.Search = strings.TrimSpace(q.Search)

	products, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return &ListResult{
		Total:    total,
		Page:     q.Page,
		Pages:    int(math.Ceil(float64(total) / float64(q.Limit))),
		Products: products,
	}, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if err := s.repo.IncrementViews(ctx, uid); err != nil {
		return nil, err
	}
	p.ViewCount++

	p.Reviews, err = s.repo.ListReviews(ctx, uid)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) CreateProduct(ctx context.Context, owner *user.User, req CreateRequest) (*Product, error) {
	req.Title = strings.TrimSpace(req.Title)
	fields := map[string]string{}
	if err := validate.Struct(req); err != nil {
		e, ok := apperr.As(err)
		if !ok {
			return nil, err
		}
		for k, v := range e.Fields {
			fields[k] = v
		}
	}
	checkPrices(fields, req.Price, req.OriginalPrice)
	if len(fields) > 0 {
		return nil, apperr.ValidationFields("validation failed", fields)
	}
	categoryID, err := parseCategory(req.CategoryID)
	if err != nil {
		return nil, err
	}

	p := &Product{
		ID:              uuid.New(),
		Title:           req.Title,
		Description:     req.Description,
		Price:           req.Price.Round(2),
		OriginalPrice:   req.OriginalPrice,
		ImageURL:        req.ImageURL,
		Seller:          req.Seller,
		CategoryID:      categoryID,
		BusinessOwnerID: owner.ID,
		IsActive:        true,
		IsOnSale:        req.IsOnSale,
		Inventory:       Inventory{TrackInventory: true},
	}
	if p.Seller == "" {
		p.Seller = owner.Name
	}
	applyInventory(&p.Inventory, req.Inventory)
	p.Slug = productSlug(p.Title, p.ID)

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func applyInventory(inv *Inventory, in *InventoryInput) {
	if in == nil {
		return
	}
	if in.TrackInventory != nil {
		inv.TrackInventory = *in.TrackInventory
	}
	if in.Quantity != nil {
		inv.Quantity = *in.Quantity
	}
}

// owned loads the product and checks that actor may modify it.
func (s *service) owned(ctx context.Context, actor *user.User, id string) (*Product, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if actor == nil || (p.BusinessOwnerID != actor.ID && !actor.IsAdmin()) {
		return nil, apperr.Forbidden("Not authorized to modify this product")
	}
	return p, nil
}

func (s *service) UpdateProduct(ctx context.Context, actor *user.User, id string, req UpdateRequest) (*Product, error) {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		req.Title = &title
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	p, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		p.Price = req.Price.Round(2)
	}
	if req.OriginalPrice != nil {
		p.OriginalPrice = req.OriginalPrice
	}
	if req.ImageURL != nil {
		p.ImageURL = *req.ImageURL
	}
	if req.Seller != nil {
		p.Seller = *req.Seller
	}
	if req.CategoryID != nil {
		if p.CategoryID, err = parseCategory(req.CategoryID); err != nil {
			return nil, err
		}
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if req.IsOnSale != nil {
		p.IsOnSale = *req.IsOnSale
	}
	applyInventory(&p.Inventory, req.Inventory)

	fields := map[string]string{}
	checkPrices(fields, p.Price, p.OriginalPrice)
	if len(fields) > 0 {
		return nil, apperr.ValidationFields("validation failed", fields)
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) DeleteProduct(ctx context.Context, actor *user.User, id string) (*Product, error) {
	p, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	p.IsActive = false
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) ListMine(ctx context.Context, owner *user.User) ([]*Product, error) {
	return s.repo.ListByOwner(ctx, owner.ID)
}

func (s *service) AddReview(ctx context.Context, actor *user.User, id string, req ReviewRequest) (*ReviewResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByID(ctx, uid); err != nil {
		return nil, err
	}

	rv := &Review{
		ID:      uuid.New(),
		UserID:  actor.ID,
		Rating:  req.Rating,
		Comment: strings.TrimSpace(req.Comment),
	}
	rating, err := s.repo.AddReview(ctx, uid, rv)
	if err != nil {
		return nil, err
	}
	reviews, err := s.repo.ListReviews(ctx, uid)
	if err != nil {
		return nil, err
	}
	return &ReviewResult{Reviews: reviews, Ratings: rating}, nil
}
