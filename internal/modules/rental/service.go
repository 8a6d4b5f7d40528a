package rental

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/townkart-backend/internal/modules/user"
	"github.com/georgemunganga/townkart-backend/internal/platform/apperr"
	"github.com/georgemunganga/townkart-backend/internal/platform/validate"
)

var taxRate = decimal.RequireFromString("0.18")

// Service defines the car rental business logic.
type Service interface {
	ListCars(ctx context.Context) ([]*Car, error)
	// SeedCars replaces the fleet with the sample cars.
	SeedCars(ctx context.Context) (*SeedResult, error)
	CreateBooking(ctx context.Context, actor *user.User, req BookingRequest) (*Booking, error)
	ListBookings(ctx context.Context) ([]*Booking, error)
	ApproveBooking(ctx context.Context, id string) (*Booking, error)
	RejectBooking(ctx context.Context, id string) (*Booking, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

// Quote prices a rental: tax is 18% of the base rounded to a whole unit.
func Quote(pricePerDay decimal.Decimal, days int) (base, tax, total decimal.Decimal) {
	base = pricePerDay.Mul(decimal.NewFromInt(int64(days)))
	tax = base.Mul(taxRate).Round(0)
	return base, tax, base.Add(tax)
}

// spanDays counts the days between start and end; a same-day rental is one day.
func spanDays(start, end time.Time) int {
	days := int(end.Sub(start).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

func (s *service) ListCars(ctx context.Context) ([]*Car, error) {
	return s.repo.ListActiveCars(ctx)
}

func (s *service) SeedCars(ctx context.Context) (*SeedResult, error) {
	cars := sampleFleet()
	if err := s.repo.ReplaceCars(ctx, cars); err != nil {
		return nil, err
	}
	return &SeedResult{Inserted: len(cars)}, nil
}

func (s *service) CreateBooking(ctx context.Context, actor *user.User, req BookingRequest) (*Booking, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	start, _ := time.Parse(dateLayout, req.StartDate)
	end, _ := time.Parse(dateLayout, req.EndDate)
	if end.Before(start) {
		return nil, apperr.ValidationFields("validation failed", map[string]string{
			"endDate": "must not be before startDate",
		})
	}
	if days := spanDays(start, end); req.RentalDays != days {
		return nil, apperr.ValidationFields("validation failed", map[string]string{
			"rentalDays": fmt.Sprintf("must be %d for the selected dates", days),
		})
	}

	carID, err := uuid.Parse(req.CarID)
	if err != nil {
		return nil, apperr.ValidationFields("validation failed", map[string]string{"carId": "must be a valid id"})
	}
	car, err := s.repo.GetCar(ctx, carID)
	if apperr.CodeOf(err) == apperr.CodeNotFound {
		return nil, apperr.Validation("Car not found")
	}
	if err != nil {
		return nil, err
	}
	if !car.Active {
		return nil, apperr.Validation("Car is not available: " + car.Name)
	}

	b := &Booking{
		ID:            uuid.New(),
		UserID:        actor.ID,
		Name:          strings.TrimSpace(req.Name),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:         strings.TrimSpace(req.Phone),
		Pickup:        strings.TrimSpace(req.Pickup),
		Dropoff:       strings.TrimSpace(req.Dropoff),
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		RentalDays:    req.RentalDays,
		CarID:         &car.ID,
		CarSnapshot:   car.Snapshot(),
		PaymentStatus: req.PaymentStatus,
		AdminStatus:   AdminPending,
	}
	if b.Name == "" {
		b.Name = actor.Name
	}
	if b.Email == "" {
		b.Email = actor.Email
	}
	if b.PaymentStatus == "" {
		b.PaymentStatus = PaymentPaid
	}
	b.BaseAmount, b.Tax, b.TotalAmount = Quote(car.Price, req.RentalDays)

	if err := s.repo.CreateBooking(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) ListBookings(ctx context.Context) ([]*Booking, error) {
	return s.repo.ListBookings(ctx)
}

func (s *service) ApproveBooking(ctx context.Context, id string) (*Booking, error) {
	return s.decide(ctx, id, AdminApproved)
}

func (s *service) RejectBooking(ctx context.Context, id string) (*Booking, error) {
	return s.decide(ctx, id, AdminRejected)
}

func (s *service) decide(ctx context.Context, id string, status AdminStatus) (*Booking, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NotFound("Booking not found")
	}
	return s.repo.Decide(ctx, uid, status, s.now().UTC())
}
