package rental

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
	cars     map[uuid.UUID]*Car
	bookings map[uuid.UUID]*Booking
	seq      int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{cars: map[uuid.UUID]*Car{}, bookings: map[uuid.UUID]*Booking{}}
}

// tick returns strictly increasing timestamps so ordering is deterministic.
func (m *memoryRepo) tick() time.Time {
	m.seq++
	return time.Date(2025, 1, 1, 0, 0, m.seq, 0, time.UTC)
}

func (m *memoryRepo) ListActiveCars(_ context.Context) ([]*Car, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*Car{}
	for _, c := range m.cars {
		if c.Active {
			cc := *c
			out = append(out, &cc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memoryRepo) GetCar(_ context.Context, id uuid.UUID) (*Car, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cars[id]
	if !ok {
		return nil, apperr.NotFound("Car not found")
	}
	cc := *c
	return &cc, nil
}

func (m *memoryRepo) ReplaceCars(_ context.Context, cars []*Car) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cars = map[uuid.UUID]*Car{}
	for _, c := range cars {
		c.CreatedAt = m.tick()
		c.UpdatedAt = c.CreatedAt
		cc := *c
		m.cars[c.ID] = &cc
	}
	for _, b := range m.bookings {
		if b.CarID != nil && m.cars[*b.CarID] == nil {
			b.CarID = nil
		}
	}
	return nil
}

func (m *memoryRepo) CreateBooking(_ context.Context, b *Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.CreatedAt = m.tick()
	b.UpdatedAt = b.CreatedAt
	bb := *b
	m.bookings[b.ID] = &bb
	return nil
}

func (m *memoryRepo) ListBookings(_ context.Context) ([]*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*Booking{}
	for _, b := range m.bookings {
		bb := *b
		out = append(out, &bb)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memoryRepo) Decide(_ context.Context, id uuid.UUID, status AdminStatus, at time.Time) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, apperr.NotFound("Booking not found")
	}
	if b.AdminStatus != AdminPending {
		return nil, apperr.Conflict("Booking is already " + string(b.AdminStatus))
	}
	b.AdminStatus = status
	if status == AdminApproved {
		b.ApprovedAt = &at
	} else {
		b.RejectedAt = &at
	}
	bb := *b
	return &bb, nil
}
