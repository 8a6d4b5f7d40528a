package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecentOrder is one row of the admin overview's latest orders.
type RecentOrder struct {
	ID           uuid.UUID       `json:"id"`
	OrderNumber  string          `json:"orderNumber"`
	Total        decimal.Decimal `json:"total"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
	CustomerName string          `json:"customerName"`
}

// AdminOverview summarises every order in the store. Revenue includes
// cancelled orders.
type AdminOverview struct {
	TotalOrders  int             `json:"totalOrders"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	RecentOrders []RecentOrder   `json:"recentOrders"`
}

type TopProduct struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Sales int       `json:"sales"`
	Stock int       `json:"stock"`
}

// BusinessOverview summarises one business owner's activity. TotalSales
// sums the full totals of every order holding one of the owner's items;
// OwnSales counts only the owner's line items.
type BusinessOverview struct {
	OrdersCount   int             `json:"ordersCount"`
	TotalSales    decimal.Decimal `json:"totalSales"`
	OwnSales      decimal.Decimal `json:"ownSales"`
	ProductsCount int             `json:"productsCount"`
	TotalViews    int             `json:"totalViews"`
	TopProducts   []TopProduct    `json:"topProducts"`
}

type UserStats struct {
	TotalUsers    int `json:"totalUsers"`
	ActiveUsers   int `json:"activeUsers"`
	InactiveUsers int `json:"inactiveUsers"`
	Customers     int `json:"customers"`
	Businesses    int `json:"businesses"`
	Admins        int `json:"admins"`
	NewUsers      int `json:"newUsers"`
}
