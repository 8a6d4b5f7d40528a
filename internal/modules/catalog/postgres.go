package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/townkart-backend/internal/database"
	"github.com/georgemunganga/townkart-backend/internal/platform/apperr"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const productColumns = `p.id,p.title,p.description,p.price,p.original_price,p.image_url,p.seller,p.category_id,
	p.business_owner_id,p.is_active,p.is_on_sale,p.track_inventory,p.inventory_quantity,
	p.view_count,p.sales_count,p.rating_average,p.rating_count,p.slug,p.created_at,p.updated_at`

// sortColumns maps the accepted sort keys onto ORDER BY clauses.
var sortColumns = map[string]string{
	"createdAt":        "p.created_at ASC",
	"-createdAt":       "p.created_at DESC",
	"price":            "p.price ASC",
	"-price":           "p.price DESC",
	"title":            "p.title ASC",
	"-title":           "p.title DESC",
	"-ratings.average": "p.rating_average DESC",
	"-rating":          "p.rating_average DESC",
	"-salesCount":      "p.sales_count DESC",
}

func (r *postgresRepo) Create(ctx context.Context, p *Product) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products
		  (id, title, description, price, original_price, image_url, seller, category_id,
		   business_owner_id, is_active, is_on_sale, track_inventory, inventory_quantity, slug)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING created_at, updated_at`,
		p.ID, p.Title, p.Description, p.Price, p.OriginalPrice, p.ImageURL, p.Seller, p.CategoryID,
		p.BusinessOwnerID, p.IsActive, p.IsOnSale, p.Inventory.TrackInventory, p.Inventory.Quantity, p.Slug,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return mapWriteErr(err)
}

func scanProduct(scan func(...interface{}) error) (*Product, error) {
	p := &Product{}
	var original decimal.NullDecimal
	var category uuid.NullUUID
	err := scan(&p.ID, &p.Title, &p.Description, &p.Price, &original, &p.ImageURL, &p.Seller, &category,
		&p.BusinessOwnerID, &p.IsActive, &p.IsOnSale, &p.Inventory.TrackInventory, &p.Inventory.Quantity,
		&p.ViewCount, &p.SalesCount, &p.Ratings.Average, &p.Ratings.Count, &p.Slug, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if original.Valid {
		p.OriginalPrice = &original.Decimal
	}
	if category.Valid {
		p.CategoryID = &category.UUID
	}
	return p, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id=$1`, id)
	p, err := scanProduct(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Wrap(apperr.CodeNotFound, "Product not found", err)
	}
	return p, err
}

func (r *postgresRepo) List(ctx context.Context, q ListQuery) ([]*Product, int, error) {
	where := ` WHERE p.is_active=true`
	args := []interface{}{}
	n := 1
	if q.Search != "" {
		where += fmt.Sprintf(` AND to_tsvector('simple', p.title || ' ' || p.description) @@ plainto_tsquery('simple', $%d)`, n)
		args = append(args, q.Search)
		n++
	}
	if q.Category != "" {
		if cid, err := uuid.Parse(q.Category); err == nil {
			where += fmt.Sprintf(` AND p.category_id=$%d`, n)
			args = append(args, cid)
		} else {
			where += fmt.Sprintf(` AND p.category_id IN (SELECT id FROM categories WHERE slug=$%d)`, n)
			args = append(args, q.Category)
		}
		n++
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products p`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order, ok := sortColumns[q.Sort]
	if !ok {
		order = sortColumns["-createdAt"]
	}
	query := `SELECT ` + productColumns + ` FROM products p` + where +
		` ORDER BY ` + order + fmt.Sprintf(` LIMIT $%d OFFSET $%d`, n, n+1)
	args = append(args, q.Limit, (q.Page-1)*q.Limit)

	products, err := r.queryProducts(ctx, query, args...)
	return products, total, err
}

func (r *postgresRepo) ListByOwner(ctx context.Context, owner uuid.UUID) ([]*Product, error) {
	return r.queryProducts(ctx, `SELECT `+productColumns+`
		FROM products p WHERE p.business_owner_id=$1 ORDER BY p.created_at DESC`, owner)
}

func (r *postgresRepo) queryProducts(ctx context.Context, query string, args ...interface{}) ([]*Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*Product{}
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, p *Product) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE products
		SET title=$1, description=$2, price=$3, original_price=$4, image_url=$5, seller=$6,
		    category_id=$7, is_active=$8, is_on_sale=$9, track_inventory=$10,
		    inventory_quantity=$11, updated_at=NOW()
		WHERE id=$12
		RETURNING updated_at`,
		p.Title, p.Description, p.Price, p.OriginalPrice, p.ImageURL, p.Seller,
		p.CategoryID, p.IsActive, p.IsOnSale, p.Inventory.TrackInventory,
		p.Inventory.Quantity, p.ID,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.Wrap(apperr.CodeNotFound, "Product not found", err)
	}
	return mapWriteErr(err)
}

func (r *postgresRepo) IncrementViews(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE products SET view_count = view_count + 1 WHERE id=$1`, id)
	return err
}

func (r *postgresRepo) ListReviews(ctx context.Context, productID uuid.UUID) ([]Review, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT rv.id, rv.user_id, COALESCE(u.name, ''), rv.rating, rv.comment, rv.created_at
		FROM product_reviews rv
		LEFT JOIN users u ON u.id = rv.user_id
		WHERE rv.product_id=$1
		ORDER BY rv.created_at ASC`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []Review{}
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.UserName, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

// AddReview inserts the review and refreshes the rating aggregate inside a
// single transaction.
func (r *postgresRepo) AddReview(ctx context.Context, productID uuid.UUID, rv *Review) (Rating, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Rating{}, err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO product_reviews (id, product_id, user_id, rating, comment)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at`,
		rv.ID, productID, rv.UserID, rv.Rating, rv.Comment,
	).Scan(&rv.CreatedAt)
	if database.IsUniqueViolation(err) {
		return Rating{}, apperr.Wrap(apperr.CodeConflict, "Already reviewed", err)
	}
	if err != nil {
		return Rating{}, fmt.Errorf("insert review: %w", err)
	}

	var rating Rating
	err = tx.QueryRowContext(ctx, `
		UPDATE products p
		SET rating_average = agg.avg, rating_count = agg.cnt, updated_at = NOW()
		FROM (SELECT ROUND(AVG(rating)::numeric, 2) AS avg, COUNT(*) AS cnt
		      FROM product_reviews WHERE product_id=$1) agg
		WHERE p.id=$1
		RETURNING p.rating_average, p.rating_count`, productID,
	).Scan(&rating.Average, &rating.Count)
	if err != nil {
		return Rating{}, fmt.Errorf("update rating: %w", err)
	}

	return rating, tx.Commit()
}

func mapWriteErr(err error) error {
	if database.IsForeignKeyViolation(err) {
		return apperr.Wrap(apperr.CodeValidation, "Category or business owner does not exist", err)
	}
	return err
}
