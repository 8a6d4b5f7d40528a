package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/georgemunganga/townkart-backend/internal/database"
	"github.com/georgemunganga/townkart-backend/internal/platform/apperr"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const orderColumns = `o.id,o.order_number,o.customer_id,COALESCE(u.name,''),COALESCE(u.email,''),
	o.shipping,o.payment_method,o.payment_status,o.transaction_id,o.paid_at,
	o.subtotal,o.shipping_cost,o.tax,o.discount,o.total,o.status,
	o.cancel_reason,o.cancelled_by,o.cancelled_at,o.refund_status,
	o.customer_notes,o.admin_notes,o.created_at,o.updated_at`

const orderFrom = ` FROM orders o LEFT JOIN users u ON u.id = o.customer_id`

func (r *postgresRepo) ProductSnapshots(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]ProductSnapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, image_url, price, business_owner_id, is_active
		FROM products WHERE id = ANY($1)`, pq.Array(uuidStrings(ids)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uuid.UUID]ProductSnapshot, len(ids))
	for rows.Next() {
		var p ProductSnapshot
		if err := rows.Scan(&p.ID, &p.Title, &p.ImageURL, &p.Price, &p.BusinessOwnerID, &p.IsActive); err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

// CreateOrder inserts the order and all its items inside a single transaction.
func (r *postgresRepo) CreateOrder(ctx context.Context, o *Order) error {
	shipping, err := json.Marshal(o.Shipping)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders
		  (id, order_number, customer_id, shipping, payment_method, payment_status,
		   subtotal, shipping_cost, tax, discount, total, status, customer_notes, admin_notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING created_at, updated_at`,
		o.ID, o.OrderNumber, o.Customer.ID, shipping, o.Payment.Method, o.Payment.Status,
		o.Pricing.Subtotal, o.Pricing.ShippingCost, o.Pricing.Tax, o.Pricing.Discount, o.Pricing.Total,
		o.Status, o.Notes.CustomerNotes, o.Notes.AdminNotes,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if database.IsUniqueViolation(err, "orders_order_number_key") {
		return ErrDuplicateOrderNumber
	}
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items
			  (id, order_id, product_id, business_owner_id, title, image_url, quantity, unit_price, position)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			item.ID, o.ID, item.ProductID, item.BusinessOwnerID, item.Title, item.ImageURL,
			item.Quantity, item.UnitPrice, i)
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE products SET sales_count = sales_count + $1 WHERE id=$2`,
			item.Quantity, item.ProductID)
		if err != nil {
			return fmt.Errorf("bump sales count: %w", err)
		}
	}

	return tx.Commit()
}

func (r *postgresRepo) GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+orderFrom+` WHERE o.id=$1`, id)
	o, err := scanOrder(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Wrap(apperr.CodeNotFound, "Order not found", err)
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadChildren(ctx, []*Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*Order, error) {
	return r.queryOrders(ctx, `SELECT `+orderColumns+orderFrom+`
		WHERE o.customer_id=$1 ORDER BY o.created_at DESC`, customerID)
}

func (r *postgresRepo) ListByBusiness(ctx context.Context, owner uuid.UUID) ([]*Order, error) {
	return r.queryOrders(ctx, `SELECT `+orderColumns+orderFrom+`
		WHERE EXISTS (SELECT 1 FROM order_items oi WHERE oi.order_id = o.id AND oi.business_owner_id=$1)
		ORDER BY o.created_at DESC`, owner)
}

func (r *postgresRepo) List(ctx context.Context, page, limit int) ([]*Order, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total); err != nil {
		return nil, 0, err
	}
	orders, err := r.queryOrders(ctx, `SELECT `+orderColumns+orderFrom+`
		ORDER BY o.created_at DESC LIMIT $1 OFFSET $2`, limit, (page-1)*limit)
	return orders, total, err
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id uuid.UUID, entry StatusEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2`, entry.Status, id)
	if err := expectOne(res, err); err != nil {
		return err
	}
	if err := insertHistory(ctx, tx, id, entry); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresRepo) Cancel(ctx context.Context, id uuid.UUID, c Cancellation, entry StatusEntry, from []Status) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	allowed := make([]string, len(from))
	for i, s := range from {
		allowed[i] = string(s)
	}
	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET status=$1, cancel_reason=$2, cancelled_by=$3, cancelled_at=$4, refund_status=$5, updated_at=NOW()
		WHERE id=$6 AND status = ANY($7)`,
		StatusCancelled, c.Reason, c.CancelledBy, c.CancelledAt, c.RefundStatus, id, pq.Array(allowed))
	if err != nil {
		return false, err
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return false, err
	}
	if err := insertHistory(ctx, tx, id, entry); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

func (r *postgresRepo) UpdatePayment(ctx context.Context, id uuid.UUID, p PaymentInfo) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET payment_status=$1, transaction_id=$2, paid_at=$3, updated_at=NOW()
		WHERE id=$4`, p.Status, p.TransactionID, p.PaidAt, id)
	return expectOne(res, err)
}

// ── helpers ──────────────────────────────────────────────────────────────────

func insertHistory(ctx context.Context, tx *sql.Tx, orderID uuid.UUID, e StatusEntry) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO order_status_history (id, order_id, status, note, updated_by, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		uuid.New(), orderID, e.Status, e.Note, e.UpdatedBy, e.Timestamp)
	if err != nil {
		return fmt.Errorf("insert status history: %w", err)
	}
	return nil
}

func expectOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("Order not found")
	}
	return nil
}

func scanOrder(scan func(...interface{}) error) (*Order, error) {
	o := &Order{}
	var shipping []byte
	var paidAt, cancelledAt sql.NullTime
	var cancelReason, refundStatus sql.NullString
	var cancelledBy uuid.NullUUID
	err := scan(&o.ID, &o.OrderNumber, &o.Customer.ID, &o.Customer.Name, &o.Customer.Email,
		&shipping, &o.Payment.Method, &o.Payment.Status, &o.Payment.TransactionID, &paidAt,
		&o.Pricing.Subtotal, &o.Pricing.ShippingCost, &o.Pricing.Tax, &o.Pricing.Discount, &o.Pricing.Total,
		&o.Status, &cancelReason, &cancelledBy, &cancelledAt, &refundStatus,
		&o.Notes.CustomerNotes, &o.Notes.AdminNotes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(shipping, &o.Shipping); err != nil {
		return nil, fmt.Errorf("decode shipping address: %w", err)
	}
	if paidAt.Valid {
		o.Payment.PaidAt = &paidAt.Time
	}
	if cancelledAt.Valid {
		o.Cancellation = &Cancellation{
			Reason:       cancelReason.String,
			CancelledBy:  cancelledBy.UUID,
			CancelledAt:  cancelledAt.Time,
			RefundStatus: refundStatus.String,
		}
	}
	o.Items = []*Item{}
	o.StatusHistory = []StatusEntry{}
	return o, nil
}

func (r *postgresRepo) queryOrders(ctx context.Context, query string, args ...interface{}) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []*Order{}
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, r.loadChildren(ctx, orders)
}

// loadChildren fills items and status history for orders with one query each.
func (r *postgresRepo) loadChildren(ctx context.Context, orders []*Order) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[uuid.UUID]*Order, len(orders))
	ids := make([]uuid.UUID, len(orders))
	for i, o := range orders {
		byID[o.ID] = o
		ids[i] = o.ID
	}
	arg := pq.Array(uuidStrings(ids))

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, business_owner_id, title, image_url, quantity, unit_price
		FROM order_items WHERE order_id = ANY($1) ORDER BY order_id, position`, arg)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		item := &Item{}
		var orderID uuid.UUID
		if err := rows.Scan(&item.ID, &orderID, &item.ProductID, &item.BusinessOwnerID,
			&item.Title, &item.ImageURL, &item.Quantity, &item.UnitPrice); err != nil {
			return err
		}
		if o := byID[orderID]; o != nil {
			o.Items = append(o.Items, item)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	hist, err := r.db.QueryContext(ctx, `
		SELECT order_id, status, note, updated_by, created_at
		FROM order_status_history WHERE order_id = ANY($1) ORDER BY created_at`, arg)
	if err != nil {
		return err
	}
	defer hist.Close()
	for hist.Next() {
		var e StatusEntry
		var orderID uuid.UUID
		var by uuid.NullUUID
		if err := hist.Scan(&orderID, &e.Status, &e.Note, &by, &e.Timestamp); err != nil {
			return err
		}
		if by.Valid {
			e.UpdatedBy = &by.UUID
		}
		if o := byID[orderID]; o != nil {
			o.StatusHistory = append(o.StatusHistory, e)
		}
	}
	return hist.Err()
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
