package order

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/georgemunganga/townkart-backend/internal/platform/apperr"
)

type memoryRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]ProductSnapshot
	sales    map[uuid.UUID]int
	orders   map[uuid.UUID]*Order
	numbers  map[string]bool
	// collisions makes the next n CreateOrder calls fail as duplicates.
	collisions int
	createErr  error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		products: map[uuid.UUID]ProductSnapshot{},
		sales:    map[uuid.UUID]int{},
		orders:   map[uuid.UUID]*Order{},
		numbers:  map[string]bool{},
	}
}

func (m *memoryRepo) addProduct(p ProductSnapshot) ProductSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.products[p.ID] = p
	return p
}

func (m *memoryRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

func (m *memoryRepo) ProductSnapshots(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]ProductSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[uuid.UUID]ProductSnapshot{}
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (m *memoryRepo) CreateOrder(_ context.Context, o *Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if m.collisions > 0 {
		m.collisions--
		return ErrDuplicateOrderNumber
	}
	if m.numbers[o.OrderNumber] {
		return ErrDuplicateOrderNumber
	}
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	m.numbers[o.OrderNumber] = true
	m.orders[o.ID] = clone(o)
	for _, it := range o.Items {
		m.sales[it.ProductID] += it.Quantity
	}
	return nil
}

func clone(o *Order) *Order {
	c := *o
	c.Items = append([]*Item(nil), o.Items...)
	c.StatusHistory = append([]StatusEntry{}, o.StatusHistory...)
	if o.Cancellation != nil {
		cc := *o.Cancellation
		c.Cancellation = &cc
	}
	return &c
}

func (m *memoryRepo) GetOrderByID(_ context.Context, id uuid.UUID) (*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, apperr.NotFound("Order not found")
	}
	return clone(o), nil
}

func (m *memoryRepo) filter(keep func(*Order) bool) []*Order {
	out := []*Order{}
	for _, o := range m.orders {
		if keep(o) {
			out = append(out, clone(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memoryRepo) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter(func(o *Order) bool { return o.Customer.ID == customerID }), nil
}

func (m *memoryRepo) ListByBusiness(_ context.Context, owner uuid.UUID) ([]*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter(func(o *Order) bool { return o.HasBusinessOwner(owner) }), nil
}

func (m *memoryRepo) List(_ context.Context, page, limit int) ([]*Order, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.filter(func(*Order) bool { return true })
	start := min((page-1)*limit, len(all))
	end := min(start+limit, len(all))
	return all[start:end], len(all), nil
}

func (m *memoryRepo) UpdateStatus(_ context.Context, id uuid.UUID, entry StatusEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return apperr.NotFound("Order not found")
	}
	o.Status = entry.Status
	o.StatusHistory = append(o.StatusHistory, entry)
	return nil
}

func (m *memoryRepo) Cancel(_ context.Context, id uuid.UUID, c Cancellation, entry StatusEntry, from []Status) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return false, apperr.NotFound("Order not found")
	}
	allowed := false
	for _, s := range from {
		if o.Status == s {
			allowed = true
		}
	}
	if !allowed {
		return false, nil
	}
	o.Status = StatusCancelled
	o.Cancellation = &c
	o.StatusHistory = append(o.StatusHistory, entry)
	return true, nil
}

func (m *memoryRepo) UpdatePayment(_ context.Context, id uuid.UUID, p PaymentInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return apperr.NotFound("Order not found")
	}
	o.Payment = p
	return nil
}
