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

type InventoryData struct {
	Summary *models.InventorySummary
	History []models.InventoryRecord
	Period  models.Period
}

// InventoryPage shows current stock and the addition history.
type InventoryPage struct {
	view[InventoryData]
	client *api.Client

	filterMu sync.Mutex
	period   models.Period
}

func NewInventoryPage(client *api.Client) *InventoryPage {
	p := &InventoryPage{client: client, period: models.PeriodAll}
	p.init("Inventory")
	return p
}

func (p *InventoryPage) Period() models.Period {
	p.filterMu.Lock()
	defer p.filterMu.Unlock()
	return p.period
}

// Load fetches the summary and the history for period. Unknown periods
// fall back to all.
func (p *InventoryPage) Load(ctx context.Context, period models.Period) (Result[InventoryData], error) {
	if _, ok := models.ParsePeriod(string(period), models.HistoryPeriods); !ok {
		period = models.PeriodAll
	}
	p.filterMu.Lock()
	p.period = period
	p.filterMu.Unlock()

	return p.load(ctx, func(ctx context.Context) (InventoryData, error) {
		data := InventoryData{Period: period}
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			summary, err := p.client.Inventory().Get(gctx)
			data.Summary = summary
			return err
		})
		g.Go(func() error {
			history, err := p.client.Inventory().History(gctx, period)
			data.History = history
			return err
		})
		return data, g.Wait()
	})
}

// Reload re-fetches with the current period
func (p *InventoryPage) Reload(ctx context.Context) (Result[InventoryData], error) {
	return p.Load(ctx, p.Period())
}

// AddStock records a stock addition and reloads the page.
func (p *InventoryPage) AddStock(ctx context.Context, req models.InventoryRequest) error {
	err := p.act(func() (string, error) {
		if err := validation.Inventory(req); err != nil {
			return "", err
		}
		resp, err := p.client.Inventory().Add(ctx, req)
		if err != nil {
			return "", err
		}
		return messageOr(resp, fmt.Sprintf("Added %d bags to inventory", req.Bags)), nil
	}, "Error adding inventory. Please try again.")
	if err != nil {
		return err
	}
	_, err = p.Reload(ctx)
	return ignoreSuperseded(err)
}

func (p *InventoryPage) UpdateStock(ctx context.Context, id int, req models.InventoryRequest) error {
	err := p.act(func() (string, error) {
		if err := validation.Inventory(req); err != nil {
			return "", err
		}
		resp, err := p.client.Inventory().Update(ctx, id, req)
		if err != nil {
			return "", err
		}
		return messageOr(resp, "Inventory record updated"), nil
	}, "Error updating inventory. Please try again.")
	if err != nil {
		return err
	}
	_, err = p.Reload(ctx)
	return ignoreSuperseded(err)
}
