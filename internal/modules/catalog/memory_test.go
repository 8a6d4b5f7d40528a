package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/georgemunganga/townkart-backend/internal/platform/apperr"
)

type memoryRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]Product
	reviews  map[uuid.UUID][]Review
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{products: map[uuid.UUID]Product{}, reviews: map[uuid.UUID][]Review{}}
}

func (m *memoryRepo) Create(_ context.Context, p *Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.products[p.ID] = *p
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, apperr.NotFound("Product not found")
	}
	return &p, nil
}

func (m *memoryRepo) List(_ context.Context, q ListQuery) ([]*Product, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Product
	for _, p := range m.products {
		if !p.IsActive {
			continue
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(p.Title+" "+p.Description), strings.ToLower(q.Search)) {
			continue
		}
		if q.Category != "" && (p.CategoryID == nil || p.CategoryID.String() != q.Category) {
			continue
		}
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	total := len(out)
	start := min((q.Page-1)*q.Limit, total)
	end := min(start+q.Limit, total)
	return out[start:end], total, nil
}

func (m *memoryRepo) ListByOwner(_ context.Context, owner uuid.UUID) ([]*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*Product{}
	for _, p := range m.products {
		if p.BusinessOwnerID == owner {
			p := p
			out = append(out, &p)
		}
	}
	return out, nil
}

func (m *memoryRepo) Update(_ context.Context, p *Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[p.ID]; !ok {
		return apperr.NotFound("Product not found")
	}
	m.products[p.ID] = *p
	return nil
}

func (m *memoryRepo) IncrementViews(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.products[id]
	p.ViewCount++
	m.products[id] = p
	return nil
}

func (m *memoryRepo) ListReviews(_ context.Context, productID uuid.UUID) ([]Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Review{}, m.reviews[productID]...), nil
}

func (m *memoryRepo) AddReview(_ context.Context, productID uuid.UUID, r *Review) (Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.reviews[productID] {
		if existing.UserID == r.UserID {
			return Rating{}, apperr.Conflict("Already reviewed")
		}
	}
	r.CreatedAt = time.Now()
	m.reviews[productID] = append(m.reviews[productID], *r)

	sum := 0
	for _, rv := range m.reviews[productID] {
		sum += rv.Rating
	}
	p := m.products[productID]
	p.Ratings = Rating{Average: float64(sum) / float64(len(m.reviews[productID])), Count: len(m.reviews[productID])}
	m.products[productID] = p
	return p.Ratings, nil
}
