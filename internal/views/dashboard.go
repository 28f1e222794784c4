package views

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"ricepro-web/internal/api"
	"ricepro-web/internal/models"
)

const recentOrdersShown = 5

type DashboardData struct {
	Inventory *models.InventorySummary
	Orders    []models.Order
	Customers []models.Customer
	Sales     *models.SalesReport
}

// PendingOrders counts orders still awaiting delivery
func (d DashboardData) PendingOrders() int {
	n := 0
	for i := range d.Orders {
		if d.Orders[i].IsPending() {
			n++
		}
	}
	return n
}

// RecentOrders returns the newest orders first
func (d DashboardData) RecentOrders() []models.Order {
	orders := make([]models.Order, len(d.Orders))
	copy(orders, d.Orders)
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].OrderDate > orders[j].OrderDate
	})
	if len(orders) > recentOrdersShown {
		orders = orders[:recentOrdersShown]
	}
	return orders
}

// HasPaymentOverview reports whether the backend sent payment totals.
func (d DashboardData) HasPaymentOverview() bool {
	return d.Sales != nil && !d.Sales.TotalOrdersAmount.IsZero()
}

// RevenueSplit returns restaurant and individual revenue for the month.
func (d DashboardData) RevenueSplit() (restaurant, individual decimal.Decimal) {
	if d.Sales == nil {
		return decimal.Zero, decimal.Zero
	}
	return d.Sales.RestaurantRevenue, d.Sales.IndividualRevenue
}

// DashboardPage shows stock, order and customer counts, and this month's sales.
type DashboardPage struct {
	view[DashboardData]
	client *api.Client
}

func NewDashboardPage(client *api.Client) *DashboardPage {
	p := &DashboardPage{client: client}
	p.init("Dashboard")
	return p
}

func (p *DashboardPage) Load(ctx context.Context) (Result[DashboardData], error) {
	return p.load(ctx, func(ctx context.Context) (DashboardData, error) {
		var data DashboardData
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			inv, err := p.client.Inventory().Get(gctx)
			data.Inventory = inv
			return err
		})
		g.Go(func() error {
			orders, err := p.client.Orders().List(gctx, models.OrderFilter{})
			data.Orders = orders
			return err
		})
		g.Go(func() error {
			customers, err := p.client.Customers().List(gctx, "")
			data.Customers = customers
			return err
		})
		g.Go(func() error {
			sales, err := p.client.Reports().Sales(gctx, models.PeriodMonth)
			data.Sales = sales
			return err
		})
		return data, g.Wait()
	})
}
