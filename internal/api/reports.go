package api

import (
	"context"
	"net/http"
	"net/url"

	"ricepro-web/internal/models"
)

type ReportsClient struct{ c *Client }

// Sales fetches the sales aggregate for period; unset means month, the
// period the reports page opens with.
func (rc *ReportsClient) Sales(ctx context.Context, period models.Period) (*models.SalesReport, error) {
	if period == "" {
		period = models.PeriodMonth
	}
	var out models.SalesReport
	q := url.Values{"period": {string(period)}}
	if err := rc.c.do(ctx, "reports", http.MethodGet, "/reports/sales", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (rc *ReportsClient) Inventory(ctx context.Context) (*models.InventoryReport, error) {
	var out models.InventoryReport
	if err := rc.c.do(ctx, "reports", http.MethodGet, "/reports/inventory", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
