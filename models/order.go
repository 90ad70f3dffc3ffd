package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderPreparing, OrderReady, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

type Order struct {
	ID              int64           `json:"id"`
	CustomerID      int64           `json:"customer_id"`
	FarmerID        int64           `json:"farmer_id"`
	Status          OrderStatus     `json:"status"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	DeliveryAddress string          `json:"delivery_address"`
	DeliveryDate    *string         `json:"delivery_date,omitempty"`
	DeliveryTime    *string         `json:"delivery_time,omitempty"`
	Notes           *string         `json:"notes,omitempty"`
	CreatedAt       *time.Time      `json:"created_at,omitempty"`
	Items           []OrderItem     `json:"items"`
}

type OrderItem struct {
	ID         int64           `json:"id"`
	ProductID  int64           `json:"product_id"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// OrderLine is one entry of an order submission
type OrderLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// OrderCreateRequest is the payload for POST /orders/
type OrderCreateRequest struct {
	Items           []OrderLine `json:"items"`
	DeliveryAddress string      `json:"delivery_address"`
	Notes           *string     `json:"notes"`
}

// OrderStatusUpdate is the payload for PUT /orders/:id
type OrderStatusUpdate struct {
	Status OrderStatus `json:"status"`
	Notes  *string     `json:"notes,omitempty"`
}
