package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ricepro-web/internal/api"
	"ricepro-web/internal/auth"
	"ricepro-web/internal/config"
	"ricepro-web/internal/handlers"
	"ricepro-web/internal/health"
	"ricepro-web/internal/middleware"
	"ricepro-web/internal/session"
	"ricepro-web/internal/views"
)

type backendCall struct {
	Method string
	Path   string
	Auth   string
	Body   string
}

// riceBackend is a fake rice API with one account, alice/secret.
type riceBackend struct {
	mu      sync.Mutex
	calls   []backendCall
	expired bool
}

func (b *riceBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	b.mu.Lock()
	b.calls = append(b.calls, backendCall{Method: r.Method, Path: r.URL.Path, Auth: r.Header.Get("Authorization"), Body: string(body)})
	expired := b.expired
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	reply := func(status int, v string) {
		w.WriteHeader(status)
		io.WriteString(w, v)
	}

	switch r.URL.Path {
	case "/auth/signin":
		var p struct {
			UsernameOrEmail string `json:"username_or_email"`
			Password        string `json:"password"`
		}
		json.Unmarshal(body, &p)
		if p.UsernameOrEmail == "alice" && p.Password == "secret" {
			reply(http.StatusOK, `{"token":"tok-1","user":{"id":1,"username":"alice","email":"alice@example.com"}}`)
			return
		}
		reply(http.StatusUnauthorized, `{"error":"Invalid username or password"}`)
		return
	case "/health":
		reply(http.StatusOK, `{"status":"healthy","database":"connected"}`)
		return
	}

	if expired || r.Header.Get("Authorization") != "Bearer tok-1" {
		reply(http.StatusUnauthorized, `{"error":"Token expired"}`)
		return
	}

	switch r.Method + " " + r.URL.Path {
	case "GET /inventory":
		reply(http.StatusOK, `{"available_kg":600,"available_bags":10,"total_bags_added":10,"total_kg_added":600,"total_sold_kg":0}`)
	case "GET /inventory/history":
		reply(http.StatusOK, `[]`)
	case "POST /inventory":
		reply(http.StatusCreated, `{"message":"Stock added"}`)
	case "GET /orders", "GET /customers":
		reply(http.StatusOK, `[]`)
	case "GET /reports/sales":
		reply(http.StatusOK, `{"period":"month","total_orders":0,"total_revenue":0,"profit":0}`)
	case "GET /reports/inventory":
		reply(http.StatusOK, `{"total_bags_purchased":10,"available_kg":600}`)
	default:
		reply(http.StatusNotFound, `{"error":"not found"}`)
	}
}

func (b *riceBackend) expire() {
	b.mu.Lock()
	b.expired = true
	b.mu.Unlock()
}

func (b *riceBackend) find(method, path string) []backendCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []backendCall
	for _, c := range b.calls {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

type testApp struct {
	backend *riceBackend
	server  *httptest.Server
	browser *http.Client
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	backend := &riceBackend{}
	backendSrv := httptest.NewServer(backend)
	t.Cleanup(backendSrv.Close)

	cfg := &config.Config{}
	cfg.Session.Secret = "router-test-secret"

	sessions := session.NewManager(session.NewMemoryStore(), nil)
	client := api.NewClient(backendSrv.URL, 2*time.Second, nil)
	registry := views.NewRegistry(func(profile string) *api.Client {
		return client.WithTokens(sessions.Slot(profile).Token)
	}, views.DefaultSettings)

	pages := handlers.NewPageHandler(registry, true)
	router := NewRouter(Handlers{
		Pages:         pages,
		Auth:          handlers.NewAuthHandler(pages, client),
		Inventory:     handlers.NewInventoryHandler(pages),
		Orders:        handlers.NewOrderHandler(pages),
		Customers:     handlers.NewCustomerHandler(pages),
		Reports:       handlers.NewReportHandler(pages, nil),
		Health:        handlers.NewHealthHandler(health.NewHealthChecker(sessions, client.System().Health)),
		SessionEvents: handlers.NewSessionEventsHandler(sessions),
	}, middleware.NewSessionMiddleware(auth.NewProfileManager(cfg), sessions))

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	browser := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &testApp{backend: backend, server: server, browser: browser}
}

func (a *testApp) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := a.browser.Get(a.server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func (a *testApp) post(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := a.browser.PostForm(a.server.URL+path, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func (a *testApp) signin(t *testing.T) {
	t.Helper()
	resp, _ := a.post(t, "/signin", url.Values{"username": {"alice"}, "password": {"secret"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/dashboard", resp.Header.Get("Location"))
}

func TestProtectedPageRedirectsToSignin(t *testing.T) {
	app := newTestApp(t)

	resp, _ := app.get(t, "/orders?status=pending")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/signin?next="+url.QueryEscape("/orders?status=pending"), resp.Header.Get("Location"))
	assert.Empty(t, app.backend.find(http.MethodGet, "/orders"))
}

func TestSigninStoresSessionAndOpensDashboard(t *testing.T) {
	app := newTestApp(t)

	app.signin(t)

	resp, body := app.get(t, "/dashboard")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "alice")

	for _, c := range app.backend.find(http.MethodGet, "/orders") {
		assert.Equal(t, "Bearer tok-1", c.Auth)
	}
}

func TestSigninReturnsToNext(t *testing.T) {
	app := newTestApp(t)

	resp, _ := app.post(t, "/signin", url.Values{
		"username": {"alice"},
		"password": {"secret"},
		"next":     {"/customers"},
	})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/customers", resp.Header.Get("Location"))

	resp, _ = app.post(t, "/signout", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	// off-site targets are dropped
	resp, _ = app.post(t, "/signin", url.Values{
		"username": {"alice"},
		"password": {"secret"},
		"next":     {"//evil.example.com"},
	})
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
}

func TestSigninFailureShowsBackendMessage(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.post(t, "/signin", url.Values{"username": {"alice"}, "password": {"nope"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "Invalid username or password")
	assert.Contains(t, body, `value="alice"`)

	resp, _ = app.get(t, "/dashboard")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestSigninValidationSkipsBackend(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.post(t, "/signin", url.Values{"username": {"alice"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Username and password are required")
	assert.Empty(t, app.backend.find(http.MethodPost, "/auth/signin"))
}

func TestGuestPagesRedirectSignedInUsers(t *testing.T) {
	app := newTestApp(t)

	resp, _ := app.get(t, "/signin")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	app.signin(t)

	resp, _ = app.get(t, "/signin")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))

	resp, _ = app.get(t, "/signup")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestAddStockPostsAndRefetches(t *testing.T) {
	app := newTestApp(t)
	app.signin(t)

	resp, _ := app.post(t, "/inventory", url.Values{"bags": {"10"}, "cost_per_bag": {"9000"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/inventory", resp.Header.Get("Location"))

	posts := app.backend.find(http.MethodPost, "/inventory")
	require.Len(t, posts, 1)
	assert.JSONEq(t, `{"bags":10,"cost_per_bag":9000}`, posts[0].Body)
	assert.Equal(t, "Bearer tok-1", posts[0].Auth)
	assert.NotEmpty(t, app.backend.find(http.MethodGet, "/inventory/history"))

	resp, body := app.get(t, "/inventory")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Stock added")

	// the flash is shown once
	_, body = app.get(t, "/inventory")
	assert.NotContains(t, body, "Stock added")
}

func TestAddStockGuardRejectsZeroBags(t *testing.T) {
	app := newTestApp(t)
	app.signin(t)

	resp, _ := app.post(t, "/inventory", url.Values{"bags": {"0"}, "cost_per_bag": {"9000"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Empty(t, app.backend.find(http.MethodPost, "/inventory"))

	_, body := app.get(t, "/inventory")
	assert.Contains(t, body, "Number of bags must be positive")
}

func TestUnauthorizedBackendSignsOut(t *testing.T) {
	app := newTestApp(t)
	app.signin(t)
	app.backend.expire()

	resp, _ := app.get(t, "/inventory")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	loc := resp.Header.Get("Location")
	assert.True(t, strings.HasPrefix(loc, "/signin?"), loc)

	q, err := url.ParseQuery(strings.TrimPrefix(loc, "/signin?"))
	require.NoError(t, err)
	assert.Equal(t, "/inventory", q.Get("next"))
	assert.Equal(t, "Token expired", q.Get("error"))

	resp, _ = app.get(t, "/dashboard")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestSignoutClearsSession(t *testing.T) {
	app := newTestApp(t)
	app.signin(t)

	resp, _ := app.post(t, "/signout", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/signin", resp.Header.Get("Location"))

	resp, _ = app.get(t, "/inventory")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestHealthEndpoints(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.get(t, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, body)

	resp, body = app.get(t, "/health/ready")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var status health.HealthStatus
	require.NoError(t, json.Unmarshal([]byte(body), &status))
	assert.Equal(t, "healthy", status.SessionStore.Status)
	assert.Equal(t, "healthy", status.Backend.Status)
}

func TestUnknownPathRendersNotFound(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.get(t, "/granary")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "does not exist")
}

func TestPublicPagesRender(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/", "/signin", "/signup", "/reset-password"} {
		resp, _ := app.get(t, path)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}
