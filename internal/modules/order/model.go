package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of an order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
	StatusReturned   Status = "returned"
)

// Statuses lists every valid status in lifecycle order.
var Statuses = []Status{
	StatusPending, StatusConfirmed, StatusProcessing, StatusShipped,
	StatusDelivered, StatusCancelled, StatusReturned,
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// cancellableFrom are the only states an order may be cancelled from.
var cancellableFrom = []Status{StatusPending, StatusConfirmed}

func (s Status) Cancellable() bool {
	for _, v := range cancellableFrom {
		if s == v {
			return true
		}
	}
	return false
}

// PaymentMethod is how the customer pays.
type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentCard           PaymentMethod = "card"
	PaymentUPI            PaymentMethod = "upi"
	PaymentNetBanking     PaymentMethod = "net_banking"
)

// PaymentStatus tracks settlement of the order total.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// RefundStatusPending is recorded on every cancellation.
const RefundStatusPending = "pending"

const defaultCountry = "India"

// ShippingAddress is the delivery contact snapshot taken at checkout.
type ShippingAddress struct {
	FullName string `json:"fullName" validate:"required,max=100"`
	Street   string `json:"street" validate:"required,max=200"`
	City     string `json:"city" validate:"required,max=100"`
	State    string `json:"state" validate:"required,max=100"`
	ZipCode  string `json:"zipCode" validate:"required,max=20"`
	Country  string `json:"country" validate:"max=100"`
	Phone    string `json:"phone" validate:"required,max=32"`
}

// PaymentInfo is the payment sub-record of an order.
type PaymentInfo struct {
	Method        PaymentMethod `json:"method"`
	Status        PaymentStatus `json:"status"`
	TransactionID string        `json:"transactionId,omitempty"`
	PaidAt        *time.Time    `json:"paidAt,omitempty"`
}

// Pricing is fixed at creation. Total always equals
// Subtotal + ShippingCost + Tax - Discount.
type Pricing struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	ShippingCost decimal.Decimal `json:"shippingCost"`
	Tax          decimal.Decimal `json:"tax"`
	Discount     decimal.Decimal `json:"discount"`
	Total        decimal.Decimal `json:"total"`
}

// Balanced reports whether the total identity holds.
func (p Pricing) Balanced() bool {
	return p.Total.Equal(p.Subtotal.Add(p.ShippingCost).Add(p.Tax).Sub(p.Discount))
}

// Item is a line item. Price and owner are copied from the catalog when
// the order is placed.
type Item struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product"`
	BusinessOwnerID uuid.UUID       `json:"businessOwner"`
	Title           string          `json:"title"`
	ImageURL        string          `json:"image,omitempty"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"price"`
}

func (i *Item) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// StatusEntry is one append-only record of a status change.
type StatusEntry struct {
	Status    Status     `json:"status"`
	Timestamp time.Time  `json:"timestamp"`
	Note      string     `json:"note,omitempty"`
	UpdatedBy *uuid.UUID `json:"updatedBy,omitempty"`
}

// Cancellation records who cancelled an order and why.
type Cancellation struct {
	Reason       string    `json:"reason,omitempty"`
	CancelledBy  uuid.UUID `json:"cancelledBy"`
	CancelledAt  time.Time `json:"cancelledAt"`
	RefundStatus string    `json:"refundStatus"`
}

type Notes struct {
	CustomerNotes string `json:"customerNotes,omitempty"`
	AdminNotes    string `json:"adminNotes,omitempty"`
}

// Customer is the denormalised view of the ordering user.
type Customer struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name,omitempty"`
	Email string    `json:"email,omitempty"`
}

// Order is the order aggregate.
type Order struct {
	ID            uuid.UUID       `json:"id"`
	OrderNumber   string          `json:"orderNumber"`
	Customer      Customer        `json:"customer"`
	Items         []*Item         `json:"items"`
	Shipping      ShippingAddress `json:"shippingAddress"`
	Payment       PaymentInfo     `json:"paymentInfo"`
	Pricing       Pricing         `json:"pricing"`
	Status        Status          `json:"status"`
	StatusHistory []StatusEntry   `json:"statusHistory"`
	Notes         Notes           `json:"notes"`
	Cancellation  *Cancellation   `json:"cancellation,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// HasBusinessOwner reports whether any line item belongs to owner.
func (o *Order) HasBusinessOwner(owner uuid.UUID) bool {
	for _, it := range o.Items {
		if it.BusinessOwnerID == owner {
			return true
		}
	}
	return false
}

// CartItem is one requested line. Any client-supplied price is ignored.
type CartItem struct {
	ProductID string `json:"product" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

// PricingInput holds the optional pricing components supplied at checkout.
type PricingInput struct {
	Subtotal     *decimal.Decimal `json:"subtotal"`
	ShippingCost *decimal.Decimal `json:"shippingCost"`
	Tax          *decimal.Decimal `json:"tax"`
	Discount     *decimal.Decimal `json:"discount"`
	Total        *decimal.Decimal `json:"total"`
}

// PaymentInput selects the payment method at checkout.
type PaymentInput struct {
	Method PaymentMethod `json:"method" validate:"omitempty,oneof=cash_on_delivery card upi net_banking"`
}

// PlaceOrderRequest is the payload for creating a new order.
type PlaceOrderRequest struct {
	Items           []CartItem       `json:"items" validate:"required,min=1,dive"`
	ShippingAddress *ShippingAddress `json:"shippingAddress" validate:"required"`
	PaymentInfo     PaymentInput     `json:"paymentInfo"`
	Pricing         *PricingInput    `json:"pricing"`
	Notes           Notes            `json:"notes"`
}

// UpdateStatusRequest is the payload for changing an order's status.
type UpdateStatusRequest struct {
	Status Status `json:"status"`
	Note   string `json:"note"`
}

// CancelRequest is the payload for cancelling an order.
type CancelRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// UpdatePaymentRequest records a payment outcome.
type UpdatePaymentRequest struct {
	Status        PaymentStatus `json:"status"`
	TransactionID string        `json:"transactionId" validate:"max=128"`
}

// ListResult is one page of the admin order listing.
type ListResult struct {
	Total  int      `json:"total"`
	Page   int      `json:"page"`
	Pages  int      `json:"pages"`
	Orders []*Order `json:"orders"`
}
