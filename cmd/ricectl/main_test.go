package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	Method string
	Path   string
	Auth   string
	Body   []byte
}

// fakeBackend answers the rice API for a single account, alice/secret.
type fakeBackend struct {
	mu      sync.Mutex
	calls   []call
	expired bool
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	b.mu.Lock()
	b.calls = append(b.calls, call{Method: r.Method, Path: r.URL.Path, Auth: r.Header.Get("Authorization"), Body: body})
	expired := b.expired
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	reply := func(status int, v string) {
		w.WriteHeader(status)
		io.WriteString(w, v)
	}

	if r.URL.Path == "/auth/signin" {
		var p struct {
			UsernameOrEmail string `json:"username_or_email"`
			Password        string `json:"password"`
		}
		json.Unmarshal(body, &p)
		if p.UsernameOrEmail != "alice" || p.Password != "secret" {
			reply(http.StatusUnauthorized, `{"error":"Invalid credentials"}`)
			return
		}
		reply(http.StatusOK, `{"token":"tok-1","user":{"id":1,"username":"alice","email":"alice@example.com"}}`)
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
		reply(http.StatusOK, `[{"id":3,"bags_added":10,"total_kg":600,"cost_per_bag":9000,"date_added":"2026-10-01T08:00:00Z"}]`)
	case "POST /inventory":
		reply(http.StatusCreated, `{"message":"Stock added"}`)
	case "GET /customers":
		reply(http.StatusOK, `[{"id":1,"name":"Hotel Ruchi","phone":"9800000000","customer_type":"restaurant"}]`)
	case "GET /orders":
		reply(http.StatusOK, `[]`)
	case "POST /orders":
		reply(http.StatusCreated, `{"message":"Order created"}`)
	case "GET /reports/sales":
		reply(http.StatusOK, `{"period":"week","total_orders":4,"total_revenue":3600,"total_kg_sold":20,"total_cost":3000,"profit":600}`)
	default:
		reply(http.StatusNotFound, `{"error":"not found"}`)
	}
}

func (b *fakeBackend) find(method, path string) []call {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []call
	for _, c := range b.calls {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

func setup(t *testing.T) *fakeBackend {
	t.Helper()
	backend := &fakeBackend{}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	t.Setenv("API_URL", srv.URL)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("RICECTL_SESSION_FILE", filepath.Join(t.TempDir(), "session.json"))
	t.Setenv("RICECTL_PROFILE", "")
	t.Setenv("RICECTL_PASSWORD", "")
	t.Setenv("SESSION_ENCRYPTION_KEY", "")
	return backend
}

func ricectl(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), args, &out)
	return out.String(), err
}

func signin(t *testing.T) {
	t.Helper()
	out, err := ricectl(t, "signin", "--username", "alice", "--password", "secret")
	require.NoError(t, err)
	require.Contains(t, out, "Signed in as alice")
}

func TestSigninPersistsSession(t *testing.T) {
	setup(t)

	signin(t)

	out, err := ricectl(t, "whoami")
	require.NoError(t, err)
	assert.Equal(t, "alice <alice@example.com>\n", out)

	_, err = ricectl(t, "signout")
	require.NoError(t, err)
	out, err = ricectl(t, "whoami")
	require.NoError(t, err)
	assert.Equal(t, "Not signed in\n", out)
}

func TestSigninFailureStoresNothing(t *testing.T) {
	setup(t)

	_, err := ricectl(t, "signin", "--username", "alice", "--password", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())

	out, err := ricectl(t, "whoami")
	require.NoError(t, err)
	assert.Equal(t, "Not signed in\n", out)
}

func TestSigninRequiresCredentials(t *testing.T) {
	backend := setup(t)

	_, err := ricectl(t, "signin", "--username", "alice")
	require.Error(t, err)
	assert.Empty(t, backend.find(http.MethodPost, "/auth/signin"))
}

func TestCommandsRequireSession(t *testing.T) {
	backend := setup(t)

	_, err := ricectl(t, "inventory")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not signed in")
	assert.Empty(t, backend.find(http.MethodGet, "/inventory"))
}

func TestInventoryListsHistory(t *testing.T) {
	setup(t)
	signin(t)

	out, err := ricectl(t, "inventory", "--period", "month")
	require.NoError(t, err)
	assert.Contains(t, out, "Available: 600")
	assert.Contains(t, out, "BAGS")
	assert.Contains(t, out, "9,000")
}

func TestAddStockSendsBearerAndBody(t *testing.T) {
	backend := setup(t)
	signin(t)

	out, err := ricectl(t, "add-stock", "--bags", "10", "--cost", "9000")
	require.NoError(t, err)
	assert.Equal(t, "Stock added\n", out)

	posts := backend.find(http.MethodPost, "/inventory")
	require.Len(t, posts, 1)
	assert.Equal(t, "Bearer tok-1", posts[0].Auth)
	assert.JSONEq(t, `{"bags":10,"cost_per_bag":9000}`, string(posts[0].Body))

	// the page is refetched after the write
	assert.NotEmpty(t, backend.find(http.MethodGet, "/inventory/history"))
}

func TestCreateOrderGuardStopsBadQuantity(t *testing.T) {
	backend := setup(t)
	signin(t)

	_, err := ricectl(t, "create-order", "--customer", "1", "--kg", "7")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiples of 5kg")
	assert.Empty(t, backend.find(http.MethodPost, "/orders"))

	out, err := ricectl(t, "create-order", "--customer", "1", "--kg", "10")
	require.NoError(t, err)
	assert.Equal(t, "Order created\n", out)
	assert.Len(t, backend.find(http.MethodPost, "/orders"), 1)
}

func TestSalesDefaultsToMonth(t *testing.T) {
	setup(t)
	signin(t)

	out, err := ricectl(t, "sales", "--period", "fortnight")
	require.NoError(t, err)
	assert.Contains(t, out, "Orders")
	assert.Contains(t, out, "3,600")
}

func TestExpiredSessionIsCleared(t *testing.T) {
	backend := setup(t)
	signin(t)

	backend.mu.Lock()
	backend.expired = true
	backend.mu.Unlock()

	_, err := ricectl(t, "customers")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Token expired")
	assert.Contains(t, err.Error(), "session cleared")

	out, err := ricectl(t, "whoami")
	require.NoError(t, err)
	assert.Equal(t, "Not signed in\n", out)
}

func TestUnknownCommand(t *testing.T) {
	setup(t)

	_, err := ricectl(t, "harvest")
	assert.ErrorIs(t, err, errUsage)

	_, err = ricectl(t)
	assert.ErrorIs(t, err, errUsage)
}
