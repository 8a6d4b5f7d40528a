package category

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/georgemunganga/townkart-backend/internal/platform/apperr"
)

type memoryRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]Category
	reads int
}

func newMemoryRepo() *memoryRepo { return &memoryRepo{items: map[uuid.UUID]Category{}} }

func (m *memoryRepo) Create(_ context.Context, c *Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.items {
		if strings.EqualFold(existing.Name, c.Name) || existing.Slug == c.Slug {
			return apperr.Conflict("Category name already exists")
		}
	}
	m.items[c.ID] = *c
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (*Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	c, ok := m.items[id]
	if !ok {
		return nil, apperr.NotFound("Category not found")
	}
	return &c, nil
}

func (m *memoryRepo) ListActive(_ context.Context) ([]*Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	out := []*Category{}
	for _, c := range m.items {
		if c.IsActive {
			c := c
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (m *memoryRepo) Update(_ context.Context, c *Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[c.ID]; !ok {
		return apperr.NotFound("Category not found")
	}
	m.items[c.ID] = *c
	return nil
}

func (m *memoryRepo) readCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}
