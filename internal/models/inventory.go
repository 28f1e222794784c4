package models

import "github.com/shopspring/decimal"

// InventorySummary is the backend's current stock aggregate (GET /inventory).
type InventorySummary struct {
	AvailableKg    float64 `json:"available_kg"`
	AvailableBags  float64 `json:"available_bags"`
	TotalBagsAdded int     `json:"total_bags_added"`
	TotalKgAdded   float64 `json:"total_kg_added"`
	TotalSoldKg    float64 `json:"total_sold_kg"`
}

// InventoryRecord is one stock addition from the history list.
type InventoryRecord struct {
	ID            int             `json:"id"`
	BagsAdded     int             `json:"bags_added"`
	TotalKg       float64         `json:"total_kg"`
	CostPerBag    decimal.Decimal `json:"cost_per_bag"`
	DateAdded     string          `json:"date_added"`
	FormattedDate string          `json:"formatted_date,omitempty"`
}

// InventoryRequest is the body of POST /inventory and PUT /inventory/{id}
type InventoryRequest struct {
	Bags       int     `json:"bags"`
	CostPerBag float64 `json:"cost_per_bag"`
}
