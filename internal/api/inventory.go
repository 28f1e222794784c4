package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"ricepro-web/internal/models"
)

type InventoryClient struct{ c *Client }

func (ic *InventoryClient) Get(ctx context.Context) (*models.InventorySummary, error) {
	var out models.InventorySummary
	if err := ic.c.do(ctx, "inventory", http.MethodGet, "/inventory", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// History lists stock additions. An unset period is sent as "all".
func (ic *InventoryClient) History(ctx context.Context, period models.Period) ([]models.InventoryRecord, error) {
	if period == "" {
		period = models.PeriodAll
	}
	q := url.Values{"period": {string(period)}}

	var out []models.InventoryRecord
	if err := ic.c.do(ctx, "inventory", http.MethodGet, "/inventory/history", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (ic *InventoryClient) Add(ctx context.Context, req models.InventoryRequest) (*models.MessageResponse, error) {
	var out models.MessageResponse
	if err := ic.c.do(ctx, "inventory", http.MethodPost, "/inventory", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (ic *InventoryClient) Update(ctx context.Context, id int, req models.InventoryRequest) (*models.MessageResponse, error) {
	var out models.MessageResponse
	path := "/inventory/" + strconv.Itoa(id)
	if err := ic.c.do(ctx, "inventory", http.MethodPut, path, nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
