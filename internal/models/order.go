package models

import "github.com/shopspring/decimal"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is a status the backend accepts
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// Label returns the display label; anything unknown reads as the "all" filter.
func (s OrderStatus) Label() string {
	switch s {
	case OrderPending:
		return "Pending"
	case OrderDelivered:
		return "Delivered"
	case OrderCancelled:
		return "Cancelled"
	default:
		return "All Status"
	}
}

type Order struct {
	ID             int             `json:"id"`
	CustomerID     int             `json:"customer_id"`
	CustomerName   string          `json:"customer_name"`
	QuantityKg     float64         `json:"quantity_kg"`
	PricePerKg     decimal.Decimal `json:"price_per_kg"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	OrderDate      string          `json:"order_date"`
	DeliveryStatus OrderStatus     `json:"delivery_status"`
	DeliveryDate   *string         `json:"delivery_date,omitempty"`
}

// IsPending reports whether the order can still be edited, delivered or cancelled.
func (o *Order) IsPending() bool {
	return o.DeliveryStatus == OrderPending
}

// OrderRequest is the body of POST /orders and PUT /orders/{id}
type OrderRequest struct {
	CustomerID int     `json:"customer_id"`
	QuantityKg float64 `json:"quantity_kg"`
}

// OrderStatusRequest is the body of PUT /orders/{id}/status
type OrderStatusRequest struct {
	Status OrderStatus `json:"status"`
}

// OrderFilter selects the orders list. Zero values mean "all" and are not sent.
type OrderFilter struct {
	Status     OrderStatus
	CustomerID int
	Period     Period
}
