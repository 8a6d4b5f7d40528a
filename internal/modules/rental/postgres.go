package rental

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/georgemunganga/townkart-backend/internal/platform/apperr"
)

const dateLayout = "2006-01-02"

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const carColumns = `id,name,category,image_url,price,seats,transmission,fuel,features,description,active,created_at,updated_at`

func scanCar(scan func(...interface{}) error) (*Car, error) {
	c := &Car{}
	var features pq.StringArray
	err := scan(&c.ID, &c.Name, &c.Category, &c.ImageURL, &c.Price, &c.Seats, &c.Transmission,
		&c.Fuel, &features, &c.Description, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Features = []string(features)
	if c.Features == nil {
		c.Features = []string{}
	}
	return c, nil
}

func (r *postgresRepo) ListActiveCars(ctx context.Context) ([]*Car, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+carColumns+` FROM cars WHERE active=true ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cars := []*Car{}
	for rows.Next() {
		c, err := scanCar(rows.Scan)
		if err != nil {
			return nil, err
		}
		cars = append(cars, c)
	}
	return cars, rows.Err()
}

func (r *postgresRepo) GetCar(ctx context.Context, id uuid.UUID) (*Car, error) {
	c, err := scanCar(r.db.QueryRowContext(ctx, `SELECT `+carColumns+` FROM cars WHERE id=$1`, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Wrap(apperr.CodeNotFound, "Car not found", err)
	}
	return c, err
}

func (r *postgresRepo) ReplaceCars(ctx context.Context, cars []*Car) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cars`); err != nil {
		return fmt.Errorf("clear fleet: %w", err)
	}
	for _, c := range cars {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO cars
			  (id, name, category, image_url, price, seats, transmission, fuel, features, description, active)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
			RETURNING created_at, updated_at`,
			c.ID, c.Name, c.Category, c.ImageURL, c.Price, c.Seats, c.Transmission, c.Fuel,
			pq.Array(c.Features), c.Description, c.Active,
		).Scan(&c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert car %q: %w", c.Name, err)
		}
	}
	return tx.Commit()
}

const bookingColumns = `id,user_id,name,email,phone,pickup,dropoff,start_date,end_date,start_time,end_time,
	rental_days,car_id,car_snapshot,base_amount,tax,total_amount,payment_status,admin_status,
	approved_at,rejected_at,created_at,updated_at`

func scanBooking(scan func(...interface{}) error) (*Booking, error) {
	b := &Booking{}
	var start, end time.Time
	var car uuid.NullUUID
	var snapshot []byte
	var approved, rejected sql.NullTime
	err := scan(&b.ID, &b.UserID, &b.Name, &b.Email, &b.Phone, &b.Pickup, &b.Dropoff, &start, &end,
		&b.StartTime, &b.EndTime, &b.RentalDays, &car, &snapshot, &b.BaseAmount, &b.Tax, &b.TotalAmount,
		&b.PaymentStatus, &b.AdminStatus, &approved, &rejected, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(snapshot, &b.CarSnapshot); err != nil {
		return nil, fmt.Errorf("decode car snapshot: %w", err)
	}
	b.StartDate = start.Format(dateLayout)
	b.EndDate = end.Format(dateLayout)
	if car.Valid {
		b.CarID = &car.UUID
	}
	if approved.Valid {
		b.ApprovedAt = &approved.Time
	}
	if rejected.Valid {
		b.RejectedAt = &rejected.Time
	}
	return b, nil
}

func (r *postgresRepo) CreateBooking(ctx context.Context, b *Booking) error {
	snapshot, err := json.Marshal(b.CarSnapshot)
	if err != nil {
		return err
	}
	return r.db.QueryRowContext(ctx, `
		INSERT INTO bookings
		  (id, user_id, name, email, phone, pickup, dropoff, start_date, end_date, start_time, end_time,
		   rental_days, car_id, car_snapshot, base_amount, tax, total_amount, payment_status, admin_status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		RETURNING created_at, updated_at`,
		b.ID, b.UserID, b.Name, b.Email, b.Phone, b.Pickup, b.Dropoff, b.StartDate, b.EndDate,
		b.StartTime, b.EndTime, b.RentalDays, b.CarID, snapshot, b.BaseAmount, b.Tax, b.TotalAmount,
		b.PaymentStatus, b.AdminStatus,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
}

func (r *postgresRepo) ListBookings(ctx context.Context) ([]*Booking, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := []*Booking{}
	for rows.Next() {
		b, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *postgresRepo) Decide(ctx context.Context, id uuid.UUID, status AdminStatus, at time.Time) (*Booking, error) {
	column := "approved_at"
	if status == AdminRejected {
		column = "rejected_at"
	}
	row := r.db.QueryRowContext(ctx, `
		UPDATE bookings SET admin_status=$1, `+column+`=$2, updated_at=NOW()
		WHERE id=$3 AND admin_status=$4
		RETURNING `+bookingColumns, status, at, id, AdminPending)
	b, err := scanBooking(row.Scan)
	if !errors.Is(err, sql.ErrNoRows) {
		return b, err
	}

	var current AdminStatus
	err = r.db.QueryRowContext(ctx, `SELECT admin_status FROM bookings WHERE id=$1`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Wrap(apperr.CodeNotFound, "Booking not found", err)
	}
	if err != nil {
		return nil, err
	}
	return nil, apperr.Conflict("Booking is already " + string(current))
}
