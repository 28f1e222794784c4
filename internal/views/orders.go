package views

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"ricepro-web/internal/api"
	"ricepro-web/internal/models"
	"ricepro-web/internal/validation"
)

type OrdersData struct {
	Orders    []models.Order
	Customers []models.Customer
	Filter    models.OrderFilter
}

// Find returns the order with id from the loaded list
func (d OrdersData) Find(id int) (*models.Order, bool) {
	for i := range d.Orders {
		if d.Orders[i].ID == id {
			return &d.Orders[i], true
		}
	}
	return nil, false
}

// OrdersPage lists orders with status and period filters. Only pending
// orders may be edited, delivered or cancelled.
type OrdersPage struct {
	view[OrdersData]
	client *api.Client
	rules  validation.OrderRules

	filterMu sync.Mutex
	filter   models.OrderFilter
}

func NewOrdersPage(client *api.Client, rules validation.OrderRules) *OrdersPage {
	p := &OrdersPage{client: client, rules: rules}
	p.init("Orders")
	return p
}

func (p *OrdersPage) Filter() models.OrderFilter {
	p.filterMu.Lock()
	defer p.filterMu.Unlock()
	return p.filter
}

func (p *OrdersPage) Rules() validation.OrderRules { return p.rules }

// Load fetches orders for f and the customer list in parallel.
func (p *OrdersPage) Load(ctx context.Context, f models.OrderFilter) (Result[OrdersData], error) {
	if !f.Status.Valid() {
		f.Status = ""
	}
	if _, ok := models.ParsePeriod(string(f.Period), models.HistoryPeriods); !ok {
		f.Period = ""
	}
	p.filterMu.Lock()
	p.filter = f
	p.filterMu.Unlock()

	return p.load(ctx, func(ctx context.Context) (OrdersData, error) {
		data := OrdersData{Filter: f}
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			orders, err := p.client.Orders().List(gctx, f)
			data.Orders = orders
			return err
		})
		g.Go(func() error {
			customers, err := p.client.Customers().List(gctx, "")
			data.Customers = customers
			return err
		})
		return data, g.Wait()
	})
}

func (p *OrdersPage) Reload(ctx context.Context) (Result[OrdersData], error) {
	return p.Load(ctx, p.Filter())
}

func (p *OrdersPage) Create(ctx context.Context, req models.OrderRequest) error {
	err := p.act(func() (string, error) {
		if err := p.rules.Order(req); err != nil {
			return "", err
		}
		resp, err := p.client.Orders().Create(ctx, req)
		if err != nil {
			return "", err
		}
		return messageOr(resp, "Order created successfully"), nil
	}, "Error creating order. Please check inventory and quantity.")
	if err != nil {
		return err
	}
	_, err = p.Reload(ctx)
	return ignoreSuperseded(err)
}

// Update changes customer and quantity of a pending order.
func (p *OrdersPage) Update(ctx context.Context, id int, req models.OrderRequest) error {
	err := p.act(func() (string, error) {
		if err := p.requirePending(ctx, id); err != nil {
			return "", err
		}
		if err := p.rules.Order(req); err != nil {
			return "", err
		}
		resp, err := p.client.Orders().Update(ctx, id, req)
		if err != nil {
			return "", err
		}
		return messageOr(resp, "Order updated successfully"), nil
	}, "Error updating order. Please check inventory and quantity.")
	if err != nil {
		return err
	}
	_, err = p.Reload(ctx)
	return ignoreSuperseded(err)
}

// SetStatus marks a pending order delivered or cancelled.
func (p *OrdersPage) SetStatus(ctx context.Context, id int, status models.OrderStatus) error {
	err := p.act(func() (string, error) {
		if err := validation.Status(status); err != nil {
			return "", err
		}
		if err := p.requirePending(ctx, id); err != nil {
			return "", err
		}
		resp, err := p.client.Orders().SetStatus(ctx, id, status)
		if err != nil {
			return "", err
		}
		return messageOr(resp, fmt.Sprintf("Order marked %s", status.Label())), nil
	}, "Error updating order status.")
	if err != nil {
		return err
	}
	_, err = p.Reload(ctx)
	return ignoreSuperseded(err)
}

// Order looks up one order, from the loaded list when present and from
// the backend otherwise.
func (p *OrdersPage) Order(ctx context.Context, id int) (*models.Order, error) {
	if snap := p.Snapshot(); snap.IsReady() {
		if o, ok := snap.Data.Find(id); ok {
			return o, nil
		}
	}
	orders, err := p.client.Orders().List(ctx, models.OrderFilter{})
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == id {
			return &orders[i], nil
		}
	}
	return nil, &validation.Error{Field: "id", Message: "Order not found"}
}

func (p *OrdersPage) requirePending(ctx context.Context, id int) error {
	o, err := p.Order(ctx, id)
	if err != nil {
		return err
	}
	return validation.Editable(o)
}

// Payments lists the payments recorded against an order.
func (p *OrdersPage) Payments(ctx context.Context, orderID int) Result[[]models.Payment] {
	payments, err := p.client.Payments().List(ctx, orderID)
	if err != nil {
		return FailedResult[[]models.Payment](err, api.Message(err, "Failed to load payments."))
	}
	return ReadyResult(payments)
}

func (p *OrdersPage) AddPayment(ctx context.Context, orderID int, req models.CreatePaymentRequest) error {
	err := p.act(func() (string, error) {
		if err := validation.Payment(req); err != nil {
			return "", err
		}
		resp, err := p.client.Payments().Add(ctx, orderID, req)
		if err != nil {
			return "", err
		}
		return messageOr(resp, "Payment recorded"), nil
	}, "Error recording payment.")
	if err != nil {
		return err
	}
	_, err = p.Reload(ctx)
	return ignoreSuperseded(err)
}

func (p *OrdersPage) DeletePayment(ctx context.Context, orderID, paymentID int) error {
	err := p.act(func() (string, error) {
		if err := p.client.Payments().Delete(ctx, orderID, paymentID); err != nil {
			return "", err
		}
		return "Payment deleted", nil
	}, "Error deleting payment.")
	if err != nil {
		return err
	}
	_, err = p.Reload(ctx)
	return ignoreSuperseded(err)
}
