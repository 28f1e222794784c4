package models

import "github.com/shopspring/decimal"

type Payment struct {
	ID          int             `json:"id"`
	OrderID     int             `json:"order_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate string          `json:"payment_date,omitempty"`
	Notes       string          `json:"notes,omitempty"`
}

type CreatePaymentRequest struct {
	Amount float64 `json:"amount"`
	Notes  string  `json:"notes,omitempty"`
}
