package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ricepro-web/internal/handlers"
	"ricepro-web/internal/middleware"
)

// Handlers bundles everything the router mounts
type Handlers struct {
	Pages         *handlers.PageHandler
	Auth          *handlers.AuthHandler
	Inventory     *handlers.InventoryHandler
	Orders        *handlers.OrderHandler
	Customers     *handlers.CustomerHandler
	Reports       *handlers.ReportHandler
	Health        *handlers.HealthHandler
	SessionEvents *handlers.SessionEventsHandler
}

func NewRouter(h Handlers, sessions *middleware.SessionMiddleware) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)

	// Health endpoints (no auth required - for Kubernetes probes)
	r.HandleFunc("/health", h.Health.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", h.Health.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", h.Health.DetailedHealth).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	// Every page route carries the browser profile; kind decides whether a
	// session is required before the handler runs.
	route := func(kind middleware.RouteKind, path string, fn http.HandlerFunc, methods ...string) {
		r.Handle(path, sessions.Profile(sessions.Guard(kind)(fn))).Methods(methods...)
	}

	// Public pages
	route(middleware.Public, "/", h.Pages.Landing, "GET")
	route(middleware.Public, "/reset-password", h.Auth.ResetPasswordPage, "GET")
	route(middleware.Public, "/reset-password", h.Auth.ResetPassword, "POST")
	route(middleware.Public, "/reset-password/request", h.Auth.ForgotPassword, "POST")
	route(middleware.Public, "/signout", h.Auth.Signout, "POST")
	route(middleware.Public, "/ws/session", h.SessionEvents.ServeHTTP, "GET")

	// Sign-in and sign-up send signed-in users to the dashboard
	route(middleware.GuestOnly, "/signin", h.Auth.SigninPage, "GET")
	route(middleware.GuestOnly, "/signin", h.Auth.Signin, "POST")
	route(middleware.GuestOnly, "/signup", h.Auth.SignupPage, "GET")
	route(middleware.GuestOnly, "/signup", h.Auth.Signup, "POST")

	// Protected pages
	route(middleware.Protected, "/dashboard", h.Pages.DashboardPage, "GET")
	route(middleware.Protected, "/settings", h.Pages.SettingsPage, "GET")

	route(middleware.Protected, "/inventory", h.Inventory.Page, "GET")
	route(middleware.Protected, "/inventory", h.Inventory.Add, "POST")
	route(middleware.Protected, "/inventory/{id:[0-9]+}", h.Inventory.Update, "POST")

	route(middleware.Protected, "/orders", h.Orders.Page, "GET")
	route(middleware.Protected, "/orders", h.Orders.Create, "POST")
	route(middleware.Protected, "/orders/{id:[0-9]+}", h.Orders.Update, "POST")
	route(middleware.Protected, "/orders/{id:[0-9]+}/status", h.Orders.SetStatus, "POST")
	route(middleware.Protected, "/orders/{id:[0-9]+}/payments", h.Orders.Payments, "GET")
	route(middleware.Protected, "/orders/{id:[0-9]+}/payments", h.Orders.AddPayment, "POST")
	route(middleware.Protected, "/orders/{id:[0-9]+}/payments/{paymentId:[0-9]+}/delete", h.Orders.DeletePayment, "POST")

	route(middleware.Protected, "/customers", h.Customers.Page, "GET")
	route(middleware.Protected, "/customers", h.Customers.Create, "POST")
	route(middleware.Protected, "/customers/{id:[0-9]+}", h.Customers.Update, "POST")
	route(middleware.Protected, "/customers/{id:[0-9]+}/delete", h.Customers.Delete, "POST")

	route(middleware.Protected, "/reports", h.Reports.Page, "GET")
	route(middleware.Protected, "/reports/export.pdf", h.Reports.ExportPDF, "GET")
	route(middleware.Protected, "/reports/archive", h.Reports.Archive, "POST")

	r.NotFoundHandler = sessions.Profile(http.HandlerFunc(h.Pages.NotFound))

	return r
}
