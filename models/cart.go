package models

import "github.com/shopspring/decimal"

// CartItem is a product snapshot taken when it was added to the cart
type CartItem struct {
	ProductID    int64           `json:"product_id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	UnitType     string          `json:"unit_type"`
	IsOrganic    bool            `json:"is_organic"`
	ImageURI     *string         `json:"image_uri,omitempty"`
	Quantity     int             `json:"quantity"`
}

// LineTotal is price_per_unit × quantity
func (i CartItem) LineTotal() decimal.Decimal {
	return i.PricePerUnit.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartSummary is the derived monetary breakdown of a cart
type CartSummary struct {
	Items       []CartItem      `json:"items"`
	ItemCount   int             `json:"item_count"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
	Display     CartDisplay     `json:"display"`
}

// CartDisplay carries the two-decimal strings shown to the user
type CartDisplay struct {
	Subtotal    string `json:"subtotal"`
	Tax         string `json:"tax"`
	DeliveryFee string `json:"delivery_fee"`
	Total       string `json:"total"`
}
