package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"ricepro-web/internal/models"
)

type CustomersClient struct{ c *Client }

// List returns customers, optionally only one tier. An empty type or "all"
// sends no filter.
func (cc *CustomersClient) List(ctx context.Context, customerType models.CustomerType) ([]models.Customer, error) {
	var q url.Values
	if customerType != "" && customerType != "all" {
		q = url.Values{"type": {string(customerType)}}
	}

	var out []models.Customer
	if err := cc.c.do(ctx, "customers", http.MethodGet, "/customers", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (cc *CustomersClient) Add(ctx context.Context, req models.CustomerRequest) (*models.MessageResponse, error) {
	var out models.MessageResponse
	if err := cc.c.do(ctx, "customers", http.MethodPost, "/customers", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (cc *CustomersClient) Update(ctx context.Context, id int, req models.CustomerRequest) (*models.MessageResponse, error) {
	var out models.MessageResponse
	if err := cc.c.do(ctx, "customers", http.MethodPut, "/customers/"+strconv.Itoa(id), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (cc *CustomersClient) Delete(ctx context.Context, id int) error {
	return cc.c.do(ctx, "customers", http.MethodDelete, "/customers/"+strconv.Itoa(id), nil, nil, nil)
}
