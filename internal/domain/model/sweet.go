package model

import (
	"time"
)

type Sweet struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Category  string    `json:"category"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
	ImageURL  *string   `json:"image_url"`
	IsVeg     bool      `json:"is_veg"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SweetPatch carries a partial update: nil fields keep their prior values.
// Slug is never client-supplied; the service derives it when Name changes.
type SweetPatch struct {
	Name     *string  `json:"name,omitempty"`
	Category *string  `json:"category,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	Quantity *int     `json:"quantity,omitempty"`
	ImageURL *string  `json:"image_url,omitempty"`
	IsVeg    *bool    `json:"is_veg,omitempty"`
	Slug     *string  `json:"-"`
}

// SweetFilter holds the conjunctive search criteria. Zero-valued fields
// impose no constraint.
type SweetFilter struct {
	Name     string
	Category string
	MinPrice *float64
	MaxPrice *float64
}
