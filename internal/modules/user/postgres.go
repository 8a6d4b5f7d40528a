package user

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/georgemunganga/townkart-backend/internal/database"
	"github.com/georgemunganga/townkart-backend/internal/platform/apperr"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL user repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

const userColumns = `id, name, email, password_hash, role, phone, address, is_active, last_login_at, created_at, updated_at`

func (r *postgresRepository) Create(ctx context.Context, u *User) error {
	addr, err := encodeAddress(u.Address)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO users (id, name, email, password_hash, role, phone, address, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	err = r.db.QueryRowContext(ctx, query,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.Phone, addr, u.IsActive,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if database.IsUniqueViolation(err) {
		return apperr.Wrap(apperr.CodeConflict, "User already exists with this email", err)
	}
	return err
}

func scanUser(scan func(...interface{}) error) (*User, error) {
	u := &User{}
	var addr []byte
	var lastLogin sql.NullTime
	err := scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.Phone,
		&addr,
		&u.IsActive,
		&lastLogin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(addr) > 0 {
		u.Address = &Address{}
		if err := json.Unmarshal(addr, u.Address); err != nil {
			return nil, fmt.Errorf("decode address: %w", err)
		}
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLoginAt = &t
	}
	return u, nil
}

func (r *postgresRepository) getOne(ctx context.Context, where string, arg interface{}) (*User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg)
	u, err := scanUser(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Wrap(apperr.CodeNotFound, "User not found", err)
	}
	return u, err
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.getOne(ctx, `id = $1`, id)
}

func (r *postgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getOne(ctx, `LOWER(email) = LOWER($1)`, email)
}

func (r *postgresRepository) List(ctx context.Context, f ListFilter) ([]*User, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	n := 1
	if f.Role != "" {
		where += fmt.Sprintf(` AND role = $%d`, n)
		args = append(args, f.Role)
		n++
	}
	if f.IsActive != nil {
		where += fmt.Sprintf(` AND is_active = $%d`, n)
		args = append(args, *f.IsActive)
		n++
	}
	if f.Search != "" {
		where += fmt.Sprintf(` AND (name ILIKE $%d OR email ILIKE $%d)`, n, n)
		args = append(args, "%"+f.Search+"%")
		n++
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + userColumns + ` FROM users` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, n, n+1)
	args = append(args, f.Limit, (f.Page-1)*f.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := []*User{}
	for rows.Next() {
		u, err := scanUser(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (r *postgresRepository) Update(ctx context.Context, u *User) error {
	addr, err := encodeAddress(u.Address)
	if err != nil {
		return err
	}
	query := `
		UPDATE users
		SET name = $1, phone = $2, address = $3, is_active = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`
	err = r.db.QueryRowContext(ctx, query, u.Name, u.Phone, addr, u.IsActive, u.ID).Scan(&u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.Wrap(apperr.CodeNotFound, "User not found", err)
	}
	return err
}

func (r *postgresRepository) SetRole(ctx context.Context, id uuid.UUID, role Role) error {
	return r.execOne(ctx, `UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`, role, id)
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.execOne(ctx, `DELETE FROM users WHERE id = $1`, id)
	if database.IsForeignKeyViolation(err) {
		return apperr.Wrap(apperr.CodeConflict, "User still owns orders, products or bookings", err)
	}
	return err
}

func (r *postgresRepository) TouchLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.execOne(ctx, `UPDATE users SET last_login_at = $1 WHERE id = $2`, at, id)
}

func (r *postgresRepository) execOne(ctx context.Context, query string, args ...interface{}) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("User not found")
	}
	return nil
}

func encodeAddress(a *Address) (interface{}, error) {
	if a == nil {
		return nil, nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode address: %w", err)
	}
	return b, nil
}
