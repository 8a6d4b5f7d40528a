package order

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrDuplicateOrderNumber is returned by CreateOrder when the generated
// order number is already taken.
var ErrDuplicateOrderNumber = errors.New("order number already exists")

// ProductSnapshot is the catalog state copied into a line item.
type ProductSnapshot struct {
	ID              uuid.UUID
	Title           string
	ImageURL        string
	Price           decimal.Decimal
	BusinessOwnerID uuid.UUID
	IsActive        bool
}

// Repository defines data access for orders.
type Repository interface {
	// ProductSnapshots returns the catalog state of the requested products.
	// Unknown ids are absent from the result.
	ProductSnapshots(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]ProductSnapshot, error)

	// CreateOrder persists a new order and its items atomically and bumps
	// the sales counter of every ordered product in the same transaction.
	CreateOrder(ctx context.Context, o *Order) error

	// GetOrderByID retrieves an order with its items and history.
	GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error)

	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*Order, error)

	// ListByBusiness returns orders containing at least one item owned by owner.
	ListByBusiness(ctx context.Context, owner uuid.UUID) ([]*Order, error)

	// List returns one page of all orders, newest first, and the total count.
	List(ctx context.Context, page, limit int) ([]*Order, int, error)

	// UpdateStatus sets the status and appends entry to the history.
	UpdateStatus(ctx context.Context, id uuid.UUID, entry StatusEntry) error

	// Cancel moves the order to cancelled only when its current status is
	// one of from. It returns false when the order was not in such a state.
	Cancel(ctx context.Context, id uuid.UUID, c Cancellation, entry StatusEntry, from []Status) (bool, error)

	UpdatePayment(ctx context.Context, id uuid.UUID, p PaymentInfo) error
}
