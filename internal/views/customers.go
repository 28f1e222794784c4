package views

import (
	"context"
	"sync"

	"ricepro-web/internal/api"
	"ricepro-web/internal/models"
	"ricepro-web/internal/validation"
)

type CustomersData struct {
	Customers []models.Customer
	Type      models.CustomerType
}

// CustomersPage lists customers, optionally one tier only.
type CustomersPage struct {
	view[CustomersData]
	client *api.Client

	filterMu sync.Mutex
	typ      models.CustomerType
}

func NewCustomersPage(client *api.Client) *CustomersPage {
	p := &CustomersPage{client: client}
	p.init("Customers")
	return p
}

func (p *CustomersPage) Type() models.CustomerType {
	p.filterMu.Lock()
	defer p.filterMu.Unlock()
	return p.typ
}

func (p *CustomersPage) Load(ctx context.Context, typ models.CustomerType) (Result[CustomersData], error) {
	if !typ.Valid() {
		typ = ""
	}
	p.filterMu.Lock()
	p.typ = typ
	p.filterMu.Unlock()

	return p.load(ctx, func(ctx context.Context) (CustomersData, error) {
		customers, err := p.client.Customers().List(ctx, typ)
		return CustomersData{Customers: customers, Type: typ}, err
	})
}

func (p *CustomersPage) Reload(ctx context.Context) (Result[CustomersData], error) {
	return p.Load(ctx, p.Type())
}

func (p *CustomersPage) Add(ctx context.Context, req models.CustomerRequest) error {
	return p.mutate(ctx, func() (string, error) {
		if err := validation.Customer(req); err != nil {
			return "", err
		}
		resp, err := p.client.Customers().Add(ctx, req)
		return messageOr(resp, "Customer added successfully"), err
	}, "Error adding customer.")
}

func (p *CustomersPage) Update(ctx context.Context, id int, req models.CustomerRequest) error {
	return p.mutate(ctx, func() (string, error) {
		if err := validation.Customer(req); err != nil {
			return "", err
		}
		resp, err := p.client.Customers().Update(ctx, id, req)
		return messageOr(resp, "Customer updated successfully"), err
	}, "Error updating customer.")
}

func (p *CustomersPage) Delete(ctx context.Context, id int) error {
	return p.mutate(ctx, func() (string, error) {
		return "Customer deleted successfully", p.client.Customers().Delete(ctx, id)
	}, "Error deleting customer.")
}

func (p *CustomersPage) mutate(ctx context.Context, do func() (string, error), fallback string) error {
	if err := p.act(do, fallback); err != nil {
		return err
	}
	_, err := p.Reload(ctx)
	return ignoreSuperseded(err)
}
