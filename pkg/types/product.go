package types

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The backend serializes prices as bare JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is the catalog record returned by the products endpoints.
type Product struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Category      string           `json:"category"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	Image         string           `json:"image"`
	Description   string           `json:"description"`
	Colors        []string         `json:"colors"`
	Sizes         []string         `json:"sizes"`
	InStock       bool             `json:"inStock"`
	Rating        float64          `json:"rating"`
	Reviews       int              `json:"reviews"`
	CreatedAt     time.Time        `json:"createdAt,omitzero"`
	UpdatedAt     time.Time        `json:"updatedAt,omitzero"`
}

// ProductInput is the admin create/update payload.
type ProductInput struct {
	Name          string           `json:"name" validate:"required"`
	Category      string           `json:"category" validate:"required"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	Image         string           `json:"image" validate:"required,url"`
	Description   string           `json:"description"`
	Colors        []string         `json:"colors"`
	Sizes         []string         `json:"sizes"`
	InStock       bool             `json:"inStock"`
}

// ProductFilters narrows a catalog listing.
type ProductFilters struct {
	Category string
	Search   string
	Skip     int
	Limit    int
}

// Category is one entry of the catalog category list.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
