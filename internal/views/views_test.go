package views

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ricepro-web/internal/api"
	"ricepro-web/internal/models"
	"ricepro-web/internal/validation"
)

type call struct {
	Method string
	Path   string
	Query  string
	Body   string
}

// fakeBackend answers by "METHOD /path" and records every call.
type fakeBackend struct {
	mu     sync.Mutex
	calls  []call
	routes map[string]http.HandlerFunc
}

func newFakeBackend(t *testing.T) (*fakeBackend, *api.Client) {
	t.Helper()
	fb := &fakeBackend{routes: map[string]http.HandlerFunc{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fb.mu.Lock()
		fb.calls = append(fb.calls, call{r.Method, r.URL.Path, r.URL.RawQuery, string(body)})
		h, ok := fb.routes[r.Method+" "+r.URL.Path]
		fb.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"error":"not found"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return fb, api.NewClient(srv.URL, 2*time.Second, nil)
}

func (fb *fakeBackend) json(route string, status int, body string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.routes[route] = func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		io.WriteString(w, body)
	}
}

func (fb *fakeBackend) handle(route string, h http.HandlerFunc) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.routes[route] = h
}

func (fb *fakeBackend) recorded() []call {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	out := make([]call, len(fb.calls))
	copy(out, fb.calls)
	return out
}

func (fb *fakeBackend) count(method, path string) int {
	n := 0
	for _, c := range fb.recorded() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

func (fb *fakeBackend) reset() {
	fb.mu.Lock()
	fb.calls = nil
	fb.mu.Unlock()
}

const pendingAndDelivered = `[
	{"id":1,"customer_id":2,"customer_name":"Java House","quantity_kg":20,"price_per_kg":180,"total_amount":3600,"order_date":"2025-01-10T09:00:00","delivery_status":"delivered"},
	{"id":2,"customer_id":3,"customer_name":"Wanjiru","quantity_kg":10,"price_per_kg":200,"total_amount":2000,"order_date":"2025-01-11T09:00:00","delivery_status":"pending"}
]`

func TestAddStockPostsOnceThenRefetches(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.json("GET /inventory", 200, `{"available_kg":600}`)
	fb.json("GET /inventory/history", 200, `[]`)
	fb.json("POST /inventory", 201, `{"message":"Added 10 bags (600kg) to inventory"}`)

	page := NewInventoryPage(client)
	_, err := page.Load(context.Background(), models.PeriodWeek)
	require.NoError(t, err)
	fb.reset()

	require.NoError(t, page.AddStock(context.Background(), models.InventoryRequest{Bags: 10, CostPerBag: 9000}))

	calls := fb.recorded()
	require.Len(t, calls, 3)
	assert.Equal(t, "POST", calls[0].Method)
	assert.Equal(t, "/inventory", calls[0].Path)
	assert.JSONEq(t, `{"bags":10,"cost_per_bag":9000}`, calls[0].Body)
	assert.Equal(t, 1, fb.count("GET", "/inventory"))
	assert.Equal(t, 1, fb.count("GET", "/inventory/history"))
	for _, c := range calls[1:] {
		if c.Path == "/inventory/history" {
			assert.Equal(t, "period=week", c.Query)
		}
	}

	snap := page.Snapshot()
	require.True(t, snap.IsReady())
	assert.Equal(t, 600.0, snap.Data.Summary.AvailableKg)
	assert.Equal(t, Flash{Kind: FlashSuccess, Message: "Added 10 bags (600kg) to inventory"}, page.TakeFlash())
	assert.True(t, page.TakeFlash().Empty())
}

func TestAddStockGuardSendsNothing(t *testing.T) {
	fb, client := newFakeBackend(t)
	page := NewInventoryPage(client)

	err := page.AddStock(context.Background(), models.InventoryRequest{Bags: 0, CostPerBag: 9000})
	require.Error(t, err)
	assert.True(t, validation.IsValidation(err))
	assert.Empty(t, fb.recorded())
	assert.Equal(t, FlashWarning, page.TakeFlash().Kind)
}

func TestOrderQuantityGuard(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.json("POST /orders", 201, `{"message":"Order created successfully","id":9}`)
	fb.json("GET /orders", 200, `[]`)
	fb.json("GET /customers", 200, `[]`)

	page := NewOrdersPage(client, validation.DefaultOrderRules)
	ctx := context.Background()

	for _, kg := range []float64{7, 3} {
		err := page.Create(ctx, models.OrderRequest{CustomerID: 1, QuantityKg: kg})
		assert.Error(t, err)
	}
	assert.Zero(t, fb.count("POST", "/orders"))

	for _, kg := range []float64{5, 10, 15} {
		require.NoError(t, page.Create(ctx, models.OrderRequest{CustomerID: 1, QuantityKg: kg}))
	}
	assert.Equal(t, 3, fb.count("POST", "/orders"))
	assert.Equal(t, 3, fb.count("GET", "/orders"))
	assert.Equal(t, 3, fb.count("GET", "/customers"))
}

func TestNonPendingOrderEditRefused(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.json("GET /orders", 200, pendingAndDelivered)
	fb.json("GET /customers", 200, `[]`)
	fb.json("PUT /orders/2", 200, `{"message":"Order updated successfully"}`)
	fb.json("PUT /orders/2/status", 200, `{"message":"Order status updated successfully"}`)

	page := NewOrdersPage(client, validation.DefaultOrderRules)
	ctx := context.Background()
	_, err := page.Load(ctx, models.OrderFilter{})
	require.NoError(t, err)

	err = page.Update(ctx, 1, models.OrderRequest{CustomerID: 2, QuantityKg: 25})
	assert.ErrorIs(t, err, validation.ErrNotPending)
	assert.Equal(t, Flash{Kind: FlashWarning, Message: "Only pending orders can be edited."}, page.TakeFlash())

	err = page.SetStatus(ctx, 1, models.OrderCancelled)
	assert.ErrorIs(t, err, validation.ErrNotPending)
	assert.Zero(t, fb.count("PUT", "/orders/1"))
	assert.Zero(t, fb.count("PUT", "/orders/1/status"))

	require.NoError(t, page.Update(ctx, 2, models.OrderRequest{CustomerID: 3, QuantityKg: 15}))
	require.NoError(t, page.SetStatus(ctx, 2, models.OrderDelivered))
	assert.Equal(t, 1, fb.count("PUT", "/orders/2"))
	assert.Equal(t, 1, fb.count("PUT", "/orders/2/status"))
}

func TestOrderFilterReachesQuery(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.json("GET /orders", 200, `[]`)
	fb.json("GET /customers", 200, `[]`)

	page := NewOrdersPage(client, validation.DefaultOrderRules)
	_, err := page.Load(context.Background(), models.OrderFilter{Status: models.OrderPending, Period: models.PeriodMonth})
	require.NoError(t, err)

	for _, c := range fb.recorded() {
		if c.Path == "/orders" {
			assert.Equal(t, "period=month&status=pending", c.Query)
		}
	}

	// Unknown filter values are dropped rather than forwarded.
	fb.reset()
	_, err = page.Load(context.Background(), models.OrderFilter{Status: "bogus", Period: "year"})
	require.NoError(t, err)
	for _, c := range fb.recorded() {
		if c.Path == "/orders" {
			assert.Empty(t, c.Query)
		}
	}
}

func TestFailedLoadDropsStaleData(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.json("GET /customers", 200, `[{"id":1,"name":"A","customer_type":"individual"}]`)

	page := NewCustomersPage(client)
	res, err := page.Load(context.Background(), "")
	require.NoError(t, err)
	require.True(t, res.IsReady())
	require.Len(t, res.Data.Customers, 1)

	fb.json("GET /customers", 500, `{"error":"database is locked"}`)
	res, err = page.Load(context.Background(), models.CustomerRestaurant)
	require.NoError(t, err)
	assert.Equal(t, Failed, res.State)
	assert.Equal(t, "database is locked", res.Reason)
	assert.Empty(t, res.Data.Customers)
	assert.Equal(t, Failed, page.Snapshot().State)
}

func TestActionFailureShowsBackendMessage(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.json("POST /orders", 400, `{"error":"Insufficient inventory"}`)

	page := NewOrdersPage(client, validation.DefaultOrderRules)
	err := page.Create(context.Background(), models.OrderRequest{CustomerID: 1, QuantityKg: 500})
	require.Error(t, err)
	assert.Equal(t, Flash{Kind: FlashError, Message: "Insufficient inventory"}, page.TakeFlash())
	assert.Zero(t, fb.count("GET", "/orders"))
}

func TestLatestLoadWins(t *testing.T) {
	fb, client := newFakeBackend(t)
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	t.Cleanup(func() { close(release) })

	fb.json("GET /inventory", 200, `{"available_kg":50}`)
	fb.handle("GET /inventory/history", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("period") == "week" {
			started <- struct{}{}
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}
		io.WriteString(w, `[{"id":1,"bags_added":2,"total_kg":120,"cost_per_bag":9000,"date_added":"2025-01-01T10:00:00"}]`)
	})

	page := NewInventoryPage(client)
	ctx := context.Background()

	slowErr := make(chan error, 1)
	go func() {
		_, err := page.Load(ctx, models.PeriodWeek)
		slowErr <- err
	}()
	<-started

	res, err := page.Load(ctx, models.PeriodMonth)
	require.NoError(t, err)
	require.True(t, res.IsReady())
	assert.Equal(t, models.PeriodMonth, res.Data.Period)

	select {
	case err := <-slowErr:
		assert.True(t, errors.Is(err, ErrSuperseded))
	case <-time.After(3 * time.Second):
		t.Fatal("superseded load did not return")
	}

	snap := page.Snapshot()
	require.True(t, snap.IsReady())
	assert.Equal(t, models.PeriodMonth, snap.Data.Period)
	assert.Equal(t, models.PeriodMonth, page.Period())
}

func TestDashboardLoad(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.json("GET /inventory", 200, `{"available_kg":1250}`)
	fb.json("GET /orders", 200, pendingAndDelivered)
	fb.json("GET /customers", 200, `[{"id":2,"name":"Java House","customer_type":"restaurant"}]`)
	fb.json("GET /reports/sales", 200, `{"period":"month","total_revenue":3600,"restaurant_revenue":3600,"individual_revenue":0,"total_orders_amount":5600,"total_pending_payments":2000}`)

	page := NewDashboardPage(client)
	res, err := page.Load(context.Background())
	require.NoError(t, err)
	require.True(t, res.IsReady())

	assert.Equal(t, 1, res.Data.PendingOrders())
	assert.Equal(t, 2, res.Data.RecentOrders()[0].ID)
	assert.True(t, res.Data.HasPaymentOverview())
	restaurant, individual := res.Data.RevenueSplit()
	assert.Equal(t, "KES 3,600", Currency(restaurant))
	assert.Equal(t, "KES 0", Currency(individual))

	for _, c := range fb.recorded() {
		if c.Path == "/reports/sales" {
			assert.Equal(t, "period=month", c.Query)
		}
	}
}

func TestReportsPeriodFallback(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.json("GET /reports/sales", 200, `{"period":"day"}`)
	fb.json("GET /reports/inventory", 200, `{"available_kg":10}`)

	page := NewReportsPage(client)
	res, err := page.Load(context.Background(), models.PeriodDay)
	require.NoError(t, err)
	require.True(t, res.IsReady())
	assert.Equal(t, models.PeriodDay, res.Data.Period)

	_, err = page.Load(context.Background(), "fortnight")
	require.NoError(t, err)
	assert.Equal(t, models.PeriodMonth, page.Period())
	assert.Equal(t, 2, fb.count("GET", "/reports/inventory"))
}

func TestRegistryReusesPages(t *testing.T) {
	built := 0
	reg := NewRegistry(func(string) *api.Client {
		built++
		return api.NewClient("http://backend.invalid/api", time.Second, nil)
	}, DefaultSettings)

	a := reg.For("a")
	assert.Same(t, a, reg.For("a"))
	assert.NotSame(t, a, reg.For("b"))
	assert.Equal(t, 2, built)
	assert.Equal(t, validation.OrderRules{MinKg: 5, StepKg: 5}, a.Orders.Rules())

	reg.Forget("a")
	assert.Equal(t, 1, reg.Len())
	assert.NotSame(t, a, reg.For("a"))
}
