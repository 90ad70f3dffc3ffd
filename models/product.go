package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID                int64           `json:"id"`
	FarmerID          int64           `json:"farmer_id"`
	CategoryID        int64           `json:"category_id"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	PricePerUnit      decimal.Decimal `json:"price_per_unit"`
	UnitType          string          `json:"unit_type"`
	QuantityAvailable int             `json:"quantity_available"`
	MinOrderQuantity  int             `json:"min_order_quantity"`
	IsOrganic         bool            `json:"is_organic"`
	ImageURLs         []string        `json:"image_urls"`
	IsActive          bool            `json:"is_active"`
	IsAvailable       bool            `json:"is_available"`
	CreatedAt         *time.Time      `json:"created_at,omitempty"`
}

// PrimaryImage is the first image URL, used as the cart thumbnail
func (p Product) PrimaryImage() *string {
	if len(p.ImageURLs) == 0 || p.ImageURLs[0] == "" {
		return nil
	}
	img := p.ImageURLs[0]
	return &img
}

// ProductCreateRequest is the payload for POST /products/
type ProductCreateRequest struct {
	Name              string          `json:"name" validate:"required"`
	Description       string          `json:"description" validate:"required"`
	PricePerUnit      decimal.Decimal `json:"price_per_unit"`
	UnitType          string          `json:"unit_type" validate:"required"`
	QuantityAvailable int             `json:"quantity_available" validate:"gte=0"`
	MinOrderQuantity  int             `json:"min_order_quantity,omitempty" validate:"gte=0"`
	IsOrganic         bool            `json:"is_organic"`
	ImageURLs         []string        `json:"image_urls,omitempty"`
	CategoryID        int64           `json:"category_id" validate:"required"`
}

// ProductUpdateRequest is the payload for PUT /products/:id; nil fields are not sent
type ProductUpdateRequest struct {
	Name              *string          `json:"name,omitempty"`
	Description       *string          `json:"description,omitempty"`
	PricePerUnit      *decimal.Decimal `json:"price_per_unit,omitempty"`
	UnitType          *string          `json:"unit_type,omitempty"`
	QuantityAvailable *int             `json:"quantity_available,omitempty"`
	MinOrderQuantity  *int             `json:"min_order_quantity,omitempty"`
	IsOrganic         *bool            `json:"is_organic,omitempty"`
	ImageURLs         []string         `json:"image_urls,omitempty"`
	CategoryID        *int64           `json:"category_id,omitempty"`
	IsActive          *bool            `json:"is_active,omitempty"`
}

// ProductQuery holds the optional filters for GET /products/
type ProductQuery struct {
	CategoryID *int64
	Search     string
	IsOrganic  *bool
	Skip       int
	Limit      int
}

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
