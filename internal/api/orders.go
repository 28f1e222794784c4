package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"ricepro-web/internal/models"
)

type OrdersClient struct{ c *Client }

// filterQuery builds the list query; filters left unset or "all" are omitted.
func filterQuery(f models.OrderFilter) url.Values {
	q := url.Values{}
	if f.Status != "" && f.Status != "all" {
		q.Set("status", string(f.Status))
	}
	if f.CustomerID > 0 {
		q.Set("customer_id", strconv.Itoa(f.CustomerID))
	}
	if f.Period != "" && f.Period != models.PeriodAll {
		q.Set("period", string(f.Period))
	}
	return q
}

func (oc *OrdersClient) List(ctx context.Context, f models.OrderFilter) ([]models.Order, error) {
	var out []models.Order
	if err := oc.c.do(ctx, "orders", http.MethodGet, "/orders", filterQuery(f), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (oc *OrdersClient) Create(ctx context.Context, req models.OrderRequest) (*models.MessageResponse, error) {
	var out models.MessageResponse
	if err := oc.c.do(ctx, "orders", http.MethodPost, "/orders", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (oc *OrdersClient) Update(ctx context.Context, id int, req models.OrderRequest) (*models.MessageResponse, error) {
	var out models.MessageResponse
	if err := oc.c.do(ctx, "orders", http.MethodPut, "/orders/"+strconv.Itoa(id), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (oc *OrdersClient) SetStatus(ctx context.Context, id int, status models.OrderStatus) (*models.MessageResponse, error) {
	var out models.MessageResponse
	path := "/orders/" + strconv.Itoa(id) + "/status"
	if err := oc.c.do(ctx, "orders", http.MethodPut, path, nil, models.OrderStatusRequest{Status: status}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
