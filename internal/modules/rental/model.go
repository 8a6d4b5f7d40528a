package rental

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CarCategory groups the fleet for display.
type CarCategory string

const (
	CategoryLuxury  CarCategory = "luxury"
	CategorySUV     CarCategory = "suv"
	CategoryCompact CarCategory = "compact"
	CategoryOther   CarCategory = "other"
)

// Car is a rentable vehicle. Price is per day.
type Car struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Category     CarCategory     `json:"category"`
	ImageURL     string          `json:"image,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Seats        int             `json:"seats"`
	Transmission string          `json:"transmission"`
	Fuel         string          `json:"fuel"`
	Features     []string        `json:"features"`
	Description  string          `json:"description,omitempty"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// CarSnapshot is the car as it was when a booking was made.
type CarSnapshot struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Category CarCategory     `json:"category"`
	ImageURL string          `json:"image,omitempty"`
	Price    decimal.Decimal `json:"price"`
	Seats    int             `json:"seats"`
}

func (c *Car) Snapshot() CarSnapshot {
	return CarSnapshot{ID: c.ID, Name: c.Name, Category: c.Category, ImageURL: c.ImageURL, Price: c.Price, Seats: c.Seats}
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
	PaymentFailed  PaymentStatus = "Failed"
)

// AdminStatus is the review state of a booking. Pending is the only state
// a decision can be made from.
type AdminStatus string

const (
	AdminPending  AdminStatus = "Pending"
	AdminApproved AdminStatus = "Approved"
	AdminRejected AdminStatus = "Rejected"
)

// Booking is a rental reservation.
type Booking struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	Pickup        string          `json:"pickup"`
	Dropoff       string          `json:"dropoff"`
	StartDate     string          `json:"startDate"`
	EndDate       string          `json:"endDate"`
	StartTime     string          `json:"startTime,omitempty"`
	EndTime       string          `json:"endTime,omitempty"`
	RentalDays    int             `json:"rentalDays"`
	CarID         *uuid.UUID      `json:"car,omitempty"`
	CarSnapshot   CarSnapshot     `json:"carSnapshot"`
	BaseAmount    decimal.Decimal `json:"baseAmount"`
	Tax           decimal.Decimal `json:"tax"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	AdminStatus   AdminStatus     `json:"adminStatus"`
	ApprovedAt    *time.Time      `json:"approvedAt,omitempty"`
	RejectedAt    *time.Time      `json:"rejectedAt,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// BookingRequest is the payload for reserving a car. Name and email fall
// back to the signed-in user.
type BookingRequest struct {
	CarID         string        `json:"carId" validate:"required"`
	Name          string        `json:"name" validate:"max=100"`
	Email         string        `json:"email" validate:"omitempty,email"`
	Phone         string        `json:"phone" validate:"required,max=32"`
	Pickup        string        `json:"pickup" validate:"required,max=200"`
	Dropoff       string        `json:"dropoff" validate:"required,max=200"`
	StartDate     string        `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate       string        `json:"endDate" validate:"required,datetime=2006-01-02"`
	StartTime     string        `json:"startTime" validate:"omitempty,datetime=15:04"`
	EndTime       string        `json:"endTime" validate:"omitempty,datetime=15:04"`
	RentalDays    int           `json:"rentalDays" validate:"gte=1"`
	PaymentStatus PaymentStatus `json:"paymentStatus" validate:"omitempty,oneof=Pending Paid Failed"`
}

// SeedResult reports how many cars a fleet reseed inserted.
type SeedResult struct {
	Inserted int `json:"inserted"`
}
