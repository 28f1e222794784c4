package views

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"ricepro-web/internal/api"
	"ricepro-web/internal/models"
)

type ReportsData struct {
	Sales     *models.SalesReport
	Inventory *models.InventoryReport
	Period    models.Period
}

// ReportsPage shows the sales report for a period next to the inventory report.
type ReportsPage struct {
	view[ReportsData]
	client *api.Client

	filterMu sync.Mutex
	period   models.Period
}

func NewReportsPage(client *api.Client) *ReportsPage {
	p := &ReportsPage{client: client, period: models.PeriodMonth}
	p.init("Reports")
	return p
}

func (p *ReportsPage) Period() models.Period {
	p.filterMu.Lock()
	defer p.filterMu.Unlock()
	return p.period
}

// Load fetches both reports. Unknown periods fall back to month.
func (p *ReportsPage) Load(ctx context.Context, period models.Period) (Result[ReportsData], error) {
	period = ReportPeriod(period)
	p.filterMu.Lock()
	p.period = period
	p.filterMu.Unlock()

	return p.load(ctx, func(ctx context.Context) (ReportsData, error) {
		return FetchReports(ctx, p.client, period)
	})
}

// ReportPeriod normalizes a requested sales period
func ReportPeriod(period models.Period) models.Period {
	if _, ok := models.ParsePeriod(string(period), models.ReportPeriods); !ok {
		return models.PeriodMonth
	}
	return period
}

// FetchReports loads the sales and inventory reports in parallel.
func FetchReports(ctx context.Context, client *api.Client, period models.Period) (ReportsData, error) {
	data := ReportsData{Period: period}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sales, err := client.Reports().Sales(gctx, period)
		data.Sales = sales
		return err
	})
	g.Go(func() error {
		inv, err := client.Reports().Inventory(gctx)
		data.Inventory = inv
		return err
	})
	return data, g.Wait()
}
