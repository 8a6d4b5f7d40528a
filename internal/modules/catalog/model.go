package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Inventory tracks stock for a product. Orders do not reserve or decrement
// it.
type Inventory struct {
	TrackInventory bool `json:"trackInventory"`
	Quantity       int  `json:"quantity"`
}

// Rating is the aggregate of a product's reviews.
type Rating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Product is a catalog entry owned by exactly one business account.
type Product struct {
	ID              uuid.UUID        `json:"id"`
	Title           string           `json:"title"`
	Description     string           `json:"description,omitempty"`
	Price           decimal.Decimal  `json:"price"`
	OriginalPrice   *decimal.Decimal `json:"originalPrice,omitempty"`
	ImageURL        string           `json:"image,omitempty"`
	Seller          string           `json:"seller,omitempty"`
	CategoryID      *uuid.UUID       `json:"category,omitempty"`
	BusinessOwnerID uuid.UUID        `json:"businessOwner"`
	IsActive        bool             `json:"isActive"`
	IsOnSale        bool             `json:"isOnSale"`
	Inventory       Inventory        `json:"inventory"`
	ViewCount       int              `json:"viewCount"`
	SalesCount      int              `json:"salesCount"`
	Ratings         Rating           `json:"ratings"`
	Slug            string           `json:"slug"`
	Reviews         []Review         `json:"reviews,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// InStock reports whether quantity units are available.
func (p *Product) InStock(quantity int) bool {
	if !p.Inventory.TrackInventory {
		return true
	}
	return p.Inventory.Quantity >= quantity
}

// Review is one customer's rating of a product.
type Review struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user"`
	UserName  string    `json:"userName,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// InventoryInput is the writable part of Inventory.
type InventoryInput struct {
	TrackInventory *bool `json:"trackInventory"`
	Quantity       *int  `json:"quantity" validate:"omitempty,gte=0"`
}

// CreateRequest is the payload for a new product. Prices are checked in
// the service since the validator cannot compare decimals.
type CreateRequest struct {
	Title         string           `json:"title" validate:"required,max=200"`
	Description   string           `json:"description" validate:"max=2000"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
	ImageURL      string           `json:"image" validate:"max=500"`
	Seller        string           `json:"seller" validate:"max=100"`
	CategoryID    *string          `json:"category" validate:"omitempty,uuid"`
	IsOnSale      bool             `json:"isOnSale"`
	Inventory     *InventoryInput  `json:"inventory"`
}

// UpdateRequest changes only the fields that are present.
type UpdateRequest struct {
	Title         *string          `json:"title" validate:"omitnil,min=1,max=200"`
	Description   *string          `json:"description" validate:"omitempty,max=2000"`
	Price         *decimal.Decimal `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
	ImageURL      *string          `json:"image" validate:"omitempty,max=500"`
	Seller        *string          `json:"seller" validate:"omitempty,max=100"`
	CategoryID    *string          `json:"category" validate:"omitempty,uuid"`
	IsActive      *bool            `json:"isActive"`
	IsOnSale      *bool            `json:"isOnSale"`
	Inventory     *InventoryInput  `json:"inventory"`
}

// ReviewRequest is the payload for adding a review.
type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=500"`
}

// ReviewResult is returned after a review is added.
type ReviewResult struct {
	Reviews []Review `json:"reviews"`
	Ratings Rating   `json:"ratings"`
}

// ListQuery filters the public product listing.
type ListQuery struct {
	Search   string
	Category string
	Sort     string
	Page     int
	Limit    int
}

// ListResult is one page of the public listing.
type ListResult struct {
	Total    int        `json:"total"`
	Page     int        `json:"page"`
	Pages    int        `json:"pages"`
	Products []*Product `json:"products"`
}
