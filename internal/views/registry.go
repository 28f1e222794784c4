package views

import (
	"sync"

	"ricepro-web/internal/api"
)

// Pages is the set of page view-models of one browser profile.
type Pages struct {
	Client    *api.Client
	Dashboard *DashboardPage
	Inventory *InventoryPage
	Orders    *OrdersPage
	Customers *CustomersPage
	Reports   *ReportsPage
}

// ClientFactory returns the backend client bound to a profile's session.
type ClientFactory func(profile string) *api.Client

// Registry hands out one Pages per profile so that loads from the same
// profile share a sequencer.
type Registry struct {
	newClient ClientFactory
	settings  Settings

	mu    sync.Mutex
	pages map[string]*Pages
}

func NewRegistry(newClient ClientFactory, settings Settings) *Registry {
	return &Registry{
		newClient: newClient,
		settings:  settings,
		pages:     make(map[string]*Pages),
	}
}

func (r *Registry) Settings() Settings { return r.settings }

func (r *Registry) For(profile string) *Pages {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.pages[profile]; ok {
		return p
	}
	client := r.newClient(profile)
	p := &Pages{
		Client:    client,
		Dashboard: NewDashboardPage(client),
		Inventory: NewInventoryPage(client),
		Orders:    NewOrdersPage(client, r.settings.OrderRules()),
		Customers: NewCustomersPage(client),
		Reports:   NewReportsPage(client),
	}
	r.pages[profile] = p
	return p
}

// Forget drops a profile's pages, typically on sign-out.
func (r *Registry) Forget(profile string) {
	r.mu.Lock()
	delete(r.pages, profile)
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pages)
}
