package rental

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines storage for the fleet and its bookings.
type Repository interface {
	ListActiveCars(ctx context.Context) ([]*Car, error)
	GetCar(ctx context.Context, id uuid.UUID) (*Car, error)
	// ReplaceCars deletes the whole fleet and inserts cars in one
	// transaction. Existing bookings keep their snapshots.
	ReplaceCars(ctx context.Context, cars []*Car) error

	CreateBooking(ctx context.Context, b *Booking) error
	// ListBookings returns every booking, newest first.
	ListBookings(ctx context.Context) ([]*Booking, error)
	// Decide moves a pending booking to status, stamping at. It fails with
	// NOT_FOUND for unknown ids and CONFLICT when the booking is no longer
	// pending.
	Decide(ctx context.Context, id uuid.UUID, status AdminStatus, at time.Time) (*Booking, error)
}
