package category

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/georgemunganga/townkart-backend/internal/database"
	"github.com/georgemunganga/townkart-backend/internal/platform/apperr"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const categoryColumns = `id,name,description,slug,icon,image_url,parent_id,is_active,sort_order,created_at,updated_at`

func (r *postgresRepo) Create(ctx context.Context, c *Category) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO categories (id,name,description,slug,icon,image_url,parent_id,is_active,sort_order)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at, updated_at`,
		c.ID, c.Name, c.Description, c.Slug, c.Icon, c.ImageURL, c.ParentID, c.IsActive, c.SortOrder,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	return mapWriteErr(err)
}

func scanCategory(scan func(...interface{}) error) (*Category, error) {
	c := &Category{}
	var parent uuid.NullUUID
	err := scan(&c.ID, &c.Name, &c.Description, &c.Slug, &c.Icon, &c.ImageURL,
		&parent, &c.IsActive, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if parent.Valid {
		c.ParentID = &parent.UUID
	}
	return c, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id=$1`, id)
	c, err := scanCategory(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Wrap(apperr.CodeNotFound, "Category not found", err)
	}
	return c, err
}

func (r *postgresRepo) ListActive(ctx context.Context) ([]*Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories WHERE is_active=true
		ORDER BY sort_order ASC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []*Category{}
	for rows.Next() {
		c, err := scanCategory(rows.Scan)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, c *Category) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE categories
		SET name=$1, description=$2, slug=$3, icon=$4, image_url=$5, parent_id=$6,
		    is_active=$7, sort_order=$8, updated_at=NOW()
		WHERE id=$9
		RETURNING updated_at`,
		c.Name, c.Description, c.Slug, c.Icon, c.ImageURL, c.ParentID, c.IsActive, c.SortOrder, c.ID,
	).Scan(&c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.Wrap(apperr.CodeNotFound, "Category not found", err)
	}
	return mapWriteErr(err)
}

func mapWriteErr(err error) error {
	switch {
	case database.IsUniqueViolation(err):
		return apperr.Wrap(apperr.CodeConflict, "Category name already exists", err)
	case database.IsForeignKeyViolation(err):
		return apperr.Wrap(apperr.CodeValidation, "Parent category does not exist", err)
	}
	return err
}
