package report

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) AdminOverview(ctx context.Context, recent int) (*AdminOverview, error) {
	ov := &AdminOverview{RecentOrders: []RecentOrder{}}
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total), 0) FROM orders`,
	).Scan(&ov.TotalOrders, &ov.TotalRevenue)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT o.id, o.order_number, o.total, o.status, o.created_at, COALESCE(u.name, '')
		FROM orders o
		LEFT JOIN users u ON u.id = o.customer_id
		ORDER BY o.created_at DESC
		LIMIT $1`, recent)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var ro RecentOrder
		if err := rows.Scan(&ro.ID, &ro.OrderNumber, &ro.Total, &ro.Status, &ro.CreatedAt, &ro.CustomerName); err != nil {
			return nil, err
		}
		ov.RecentOrders = append(ov.RecentOrders, ro)
	}
	return ov, rows.Err()
}

func (r *postgresRepo) BusinessOverview(ctx context.Context, owner uuid.UUID, top int) (*BusinessOverview, error) {
	ov := &BusinessOverview{TopProducts: []TopProduct{}}
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(o.total), 0)
		FROM orders o
		WHERE o.id IN (SELECT order_id FROM order_items WHERE business_owner_id=$1)`, owner,
	).Scan(&ov.OrdersCount, &ov.TotalSales)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(unit_price * quantity), 0)
		FROM order_items WHERE business_owner_id=$1`, owner,
	).Scan(&ov.OwnSales)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(view_count), 0)
		FROM products WHERE business_owner_id=$1`, owner,
	).Scan(&ov.ProductsCount, &ov.TotalViews)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, sales_count, inventory_quantity
		FROM products WHERE business_owner_id=$1
		ORDER BY sales_count DESC, created_at DESC
		LIMIT $2`, owner, top)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var tp TopProduct
		if err := rows.Scan(&tp.ID, &tp.Name, &tp.Sales, &tp.Stock); err != nil {
			return nil, err
		}
		ov.TopProducts = append(ov.TopProducts, tp)
	}
	return ov, rows.Err()
}

func (r *postgresRepo) UserStats(ctx context.Context, since time.Time) (*UserStats, error) {
	st := &UserStats{}
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_active),
		       COUNT(*) FILTER (WHERE role = 'customer'),
		       COUNT(*) FILTER (WHERE role = 'business'),
		       COUNT(*) FILTER (WHERE role = 'admin'),
		       COUNT(*) FILTER (WHERE created_at >= $1)
		FROM users`, since,
	).Scan(&st.TotalUsers, &st.ActiveUsers, &st.Customers, &st.Businesses, &st.Admins, &st.NewUsers)
	if err != nil {
		return nil, err
	}
	st.InactiveUsers = st.TotalUsers - st.ActiveUsers
	return st, nil
}
