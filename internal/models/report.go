package models

import "github.com/shopspring/decimal"

// SalesReport is GET /reports/sales for one period
type SalesReport struct {
	Period               Period          `json:"period"`
	StartDate            string          `json:"start_date"`
	EndDate              string          `json:"end_date"`
	TotalOrders          int             `json:"total_orders"`
	TotalRevenue         decimal.Decimal `json:"total_revenue"`
	TotalKgSold          float64         `json:"total_kg_sold"`
	TotalCost            decimal.Decimal `json:"total_cost"`
	Profit               decimal.Decimal `json:"profit"`
	RestaurantOrders     int             `json:"restaurant_orders"`
	IndividualOrders     int             `json:"individual_orders"`
	RestaurantRevenue    decimal.Decimal `json:"restaurant_revenue"`
	IndividualRevenue    decimal.Decimal `json:"individual_revenue"`
	TotalOrdersAmount    decimal.Decimal `json:"total_orders_amount"`
	TotalPendingPayments decimal.Decimal `json:"total_pending_payments"`
}

// InventoryReport is GET /reports/inventory
type InventoryReport struct {
	TotalBagsPurchased int               `json:"total_bags_purchased"`
	TotalKgPurchased   float64           `json:"total_kg_purchased"`
	TotalPurchaseCost  decimal.Decimal   `json:"total_purchase_cost"`
	SoldKg             float64           `json:"sold_kg"`
	SoldRevenue        decimal.Decimal   `json:"sold_revenue"`
	AvailableKg        float64           `json:"available_kg"`
	CostOfSold         decimal.Decimal   `json:"cost_of_sold"`
	Profit             decimal.Decimal   `json:"profit"`
	InventoryRecords   []InventoryRecord `json:"inventory_records"`
}

// BackendHealth is GET /health on the backend
type BackendHealth struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Database string `json:"database"`
}

// PingResponse is GET /ping on the backend
type PingResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
