package category

import (
	"time"

	"github.com/google/uuid"
)

const defaultIcon = "📦"

// Category groups products for browsing.
type Category struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Slug        string     `json:"slug"`
	Icon        string     `json:"icon"`
	ImageURL    string     `json:"image,omitempty"`
	ParentID    *uuid.UUID `json:"parentCategory,omitempty"`
	IsActive    bool       `json:"isActive"`
	SortOrder   int        `json:"sortOrder"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Breadcrumb is one step of a category's ancestry.
type Breadcrumb struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// CreateRequest is the payload for a new category.
type CreateRequest struct {
	Name        string  `json:"name" validate:"required,max=50"`
	Description string  `json:"description" validate:"max=200"`
	Icon        string  `json:"icon" validate:"max=16"`
	ImageURL    string  `json:"image" validate:"omitempty,max=500"`
	ParentID    *string `json:"parentCategory" validate:"omitempty,uuid"`
	SortOrder   int     `json:"sortOrder"`
}

// UpdateRequest changes only the fields that are present.
type UpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=50"`
	Description *string `json:"description" validate:"omitempty,max=200"`
	Icon        *string `json:"icon" validate:"omitempty,max=16"`
	ImageURL    *string `json:"image" validate:"omitempty,max=500"`
	ParentID    *string `json:"parentCategory" validate:"omitempty,uuid"`
	IsActive    *bool   `json:"isActive"`
	SortOrder   *int    `json:"sortOrder"`
}
