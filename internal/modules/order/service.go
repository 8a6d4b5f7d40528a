package order

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/georgemunganga/townkart-backend/internal/modules/user"
	"github.com/georgemunganga/townkart-backend/internal/platform/apperr"
	"github.com/georgemunganga/townkart-backend/internal/platform/validate"
)

const (
	defaultPageSize     = 10
	maxPageSize         = 100
	orderNumberAttempts = 3
)

// Service defines the order management business logic.
type Service interface {
	// PlaceOrder validates the cart, snapshots catalog prices and owners,
	// derives the pricing and persists the order atomically.
	PlaceOrder(ctx context.Context, customer *user.User, req PlaceOrderRequest) (*Order, error)

	// GetOrder is allowed for the ordering customer, any business owning a
	// line item, and admins.
	GetOrder(ctx context.Context, actor *user.User, id string) (*Order, error)

	ListMyOrders(ctx context.Context, customer *user.User) ([]*Order, error)
	ListBusinessOrders(ctx context.Context, owner *user.User) ([]*Order, error)
	ListOrders(ctx context.Context, page, limit int) (*ListResult, error)

	// UpdateStatus sets any status from the enumeration. History grows only
	// when the value actually changes.
	UpdateStatus(ctx context.Context, actor *user.User, id string, req UpdateStatusRequest) (*Order, error)

	// CancelOrder cancels a pending or confirmed order.
	CancelOrder(ctx context.Context, actor *user.User, id string, req CancelRequest) (*Order, error)

	UpdatePayment(ctx context.Context, actor *user.User, id string, req UpdatePaymentRequest) (*Order, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new order service.
func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func parseID(id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, apperr.NotFound("Order not found")
	}
	return uid, nil
}

func (s *service) PlaceOrder(ctx context.Context, customer *user.User, req PlaceOrderRequest) (*Order, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	// ── Resolve products ──────────────────────────────────────────────────────
	ids := make([]uuid.UUID, 0, len(req.Items))
	for i, ci := range req.Items {
		pid, err := uuid.Parse(ci.ProductID)
		if err != nil {
			return nil, apperr.ValidationFields("validation failed", map[string]string{
				fmt.Sprintf("items[%d].product", i): "must be a valid id",
			})
		}
		ids = append(ids, pid)
	}
	snapshots, err := s.repo.ProductSnapshots(ctx, ids)
	if err != nil {
		return nil, err
	}

	// ── Build order items from catalog snapshots ──────────────────────────────
	items := make([]*Item, 0, len(req.Items))
	for i, ci := range req.Items {
		p, ok := snapshots[ids[i]]
		if !ok {
			return nil, apperr.Validation("Product not found: " + ci.ProductID)
		}
		if !p.IsActive {
			return nil, apperr.Validation("Product is not available: " + p.Title)
		}
		items = append(items, &Item{
			ID:              uuid.New(),
			ProductID:       p.ID,
			BusinessOwnerID: p.BusinessOwnerID,
			Title:           p.Title,
			ImageURL:        p.ImageURL,
			Quantity:        ci.Quantity,
			UnitPrice:       p.Price,
		})
	}

	pricing, err := computePricing(items, req.Pricing)
	if err != nil {
		return nil, err
	}

	shipping := *req.ShippingAddress
	if strings.TrimSpace(shipping.Country) == "" {
		shipping.Country = defaultCountry
	}
	method := req.PaymentInfo.Method
	if method == "" {
		method = PaymentCashOnDelivery
	}

	o := &Order{
		ID:            uuid.New(),
		Customer:      Customer{ID: customer.ID, Name: customer.Name, Email: customer.Email},
		Items:         items,
		Shipping:      shipping,
		Payment:       PaymentInfo{Method: method, Status: PaymentPending},
		Pricing:       pricing,
		Status:        StatusPending,
		StatusHistory: []StatusEntry{},
		Notes:         Notes{CustomerNotes: req.Notes.CustomerNotes},
	}

	for attempt := 1; ; attempt++ {
		o.OrderNumber = generateOrderNumber(s.now())
		err = s.repo.CreateOrder(ctx, o)
		if !errors.Is(err, ErrDuplicateOrderNumber) || attempt == orderNumberAttempts {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}
	return o, nil
}

func (s *service) load(ctx context.Context, id string) (*Order, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.GetOrderByID(ctx, uid)
}

func (s *service) GetOrder(ctx context.Context, actor *user.User, id string) (*Order, error) {
	o, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() || o.Customer.ID == actor.ID ||
		(actor.Role == user.RoleBusiness && o.HasBusinessOwner(actor.ID)) {
		return o, nil
	}
	return nil, apperr.Forbidden("Not authorized to view this order")
}

func (s *service) ListMyOrders(ctx context.Context, customer *user.User) ([]*Order, error) {
	return s.repo.ListByCustomer(ctx, customer.ID)
}

func (s *service) ListBusinessOrders(ctx context.Context, owner *user.User) ([]*Order, error) {
	return s.repo.ListByBusiness(ctx, owner.ID)
}

func (s *service) ListOrders(ctx context.Context, page, limit int) (*ListResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	orders, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	return &ListResult{
		Total:  total,
		Page:   page,
		Pages:  int(math.Ceil(float64(total) / float64(limit))),
		Orders: orders,
	}, nil
}

// managed loads the order and checks that actor is an admin or owns one of
// its line items.
func (s *service) managed(ctx context.Context, actor *user.User, id string) (*Order, error) {
	o, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() || (actor.Role == user.RoleBusiness && o.HasBusinessOwner(actor.ID)) {
		return o, nil
	}
	return nil, apperr.Forbidden("Not authorized to update this order")
}

func (s *service) UpdateStatus(ctx context.Context, actor *user.User, id string, req UpdateStatusRequest) (*Order, error) {
	if !req.Status.Valid() {
		return nil, apperr.ValidationFields("validation failed", map[string]string{
			"status": "must be one of: " + joinStatuses(),
		})
	}
	o, err := s.managed(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if o.Status == req.Status {
		return o, nil
	}

	by := actor.ID
	entry := StatusEntry{
		Status:    req.Status,
		Timestamp: s.now().UTC(),
		Note:      strings.TrimSpace(req.Note),
		UpdatedBy: &by,
	}
	if err := s.repo.UpdateStatus(ctx, o.ID, entry); err != nil {
		return nil, err
	}
	o.Status = req.Status
	o.StatusHistory = append(o.StatusHistory, entry)
	return o, nil
}

func (s *service) CancelOrder(ctx context.Context, actor *user.User, id string, req CancelRequest) (*Order, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	o, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && o.Customer.ID != actor.ID {
		return nil, apperr.Forbidden("Not authorized to cancel this order")
	}
	if !o.Status.Cancellable() {
		return nil, apperr.Validation("Order cannot be cancelled in status: " + string(o.Status))
	}

	now := s.now().UTC()
	by := actor.ID
	c := Cancellation{
		Reason:       strings.TrimSpace(req.Reason),
		CancelledBy:  actor.ID,
		CancelledAt:  now,
		RefundStatus: RefundStatusPending,
	}
	entry := StatusEntry{Status: StatusCancelled, Timestamp: now, Note: c.Reason, UpdatedBy: &by}
	ok, err := s.repo.Cancel(ctx, o.ID, c, entry, cancellableFrom)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Validation("Order cannot be cancelled in its current status")
	}
	o.Status = StatusCancelled
	o.Cancellation = &c
	o.StatusHistory = append(o.StatusHistory, entry)
	return o, nil
}

func (s *service) UpdatePayment(ctx context.Context, actor *user.User, id string, req UpdatePaymentRequest) (*Order, error) {
	fields := map[string]string{}
	if err := validate.Struct(req); err != nil {
		if e, ok := apperr.As(err); ok {
			for k, v := range e.Fields {
				fields[k] = v
			}
		}
	}
	if !req.Status.Valid() {
		fields["status"] = "must be one of: pending completed failed refunded"
	}
	if len(fields) > 0 {
		return nil, apperr.ValidationFields("validation failed", fields)
	}
	o, err := s.managed(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	p := o.Payment
	p.Status = req.Status
	if req.TransactionID != "" {
		p.TransactionID = req.TransactionID
	}
	if req.Status == PaymentCompleted {
		now := s.now().UTC()
		p.PaidAt = &now
	}
	if err := s.repo.UpdatePayment(ctx, o.ID, p); err != nil {
		return nil, err
	}
	o.Payment = p
	return o, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

// generateOrderNumber creates a human-readable order number: TK + the last
// six digits of the millisecond clock + five random digits.
func generateOrderNumber(now time.Time) string {
	ms := now.UnixMilli() % 1_000_000
	return fmt.Sprintf("TK%06d%05d", ms, rand.IntN(100_000))
}

func joinStatuses() string {
	parts := make([]string, len(Statuses))
	for i, s := range Statuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, " ")
}
