package handlers

import (
	"net/http"
	"strings"

	"ricepro-web/internal/cache"
	"ricepro-web/internal/models"
	"ricepro-web/internal/views"
)

var customerTypes = []models.CustomerType{models.CustomerIndividual, models.CustomerRestaurant}

type customersContent struct {
	Result views.Result[views.CustomersData]
	Type   models.CustomerType
	Types  []models.CustomerType
}

type CustomerHandler struct {
	pages *PageHandler
}

func NewCustomerHandler(pages *PageHandler) *CustomerHandler {
	return &CustomerHandler{pages: pages}
}

// Page lists customers, optionally filtered by ?type=
func (h *CustomerHandler) Page(w http.ResponseWriter, r *http.Request) {
	pages, _, ok := h.pages.pages(r)
	if !ok {
		h.pages.renderError(w, r, http.StatusInternalServerError, "No browser profile")
		return
	}

	typ := pages.Customers.Type()
	if q := r.URL.Query(); q.Has("type") {
		typ = models.CustomerType(q.Get("type"))
	}
	result, _ := pages.Customers.Load(r.Context(), typ)
	if result.IsFailed() && h.pages.handleUnauthorized(w, r, result.Err, r.URL.RequestURI()) {
		return
	}

	data := h.pages.pageData(r, "Customers", "customers")
	data.Flash = pages.Customers.TakeFlash()
	data.Content = customersContent{
		Result: result,
		Type:   pages.Customers.Type(),
		Types:  customerTypes,
	}
	h.pages.render(w, "customers.html", http.StatusOK, data)
}

func customerForm(r *http.Request) models.CustomerRequest {
	return models.CustomerRequest{
		Name:         strings.TrimSpace(r.PostFormValue("name")),
		Phone:        strings.TrimSpace(r.PostFormValue("phone")),
		Email:        strings.TrimSpace(r.PostFormValue("email")),
		CustomerType: models.CustomerType(r.PostFormValue("customer_type")),
		Address:      strings.TrimSpace(r.PostFormValue("address")),
	}
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	pages, profile, ok := h.pages.pages(r)
	if !ok || r.ParseForm() != nil {
		h.pages.renderError(w, r, http.StatusBadRequest, "Invalid form")
		return
	}
	err := pages.Customers.Add(r.Context(), customerForm(r))
	if err == nil {
		cache.InvalidateReportCaches(r.Context(), profile)
	}
	h.pages.afterAction(w, r, err, "/customers")
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	pages, profile, ok := h.pages.pages(r)
	id, idOK := pathID(r, "id")
	if !ok || !idOK || r.ParseForm() != nil {
		h.pages.renderError(w, r, http.StatusBadRequest, "Invalid form")
		return
	}
	err := pages.Customers.Update(r.Context(), id, customerForm(r))
	if err == nil {
		cache.InvalidateReportCaches(r.Context(), profile)
	}
	h.pages.afterAction(w, r, err, "/customers")
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	pages, profile, ok := h.pages.pages(r)
	id, idOK := pathID(r, "id")
	if !ok || !idOK {
		h.pages.renderError(w, r, http.StatusBadRequest, "Invalid customer")
		return
	}
	err := pages.Customers.Delete(r.Context(), id)
	if err == nil {
		cache.InvalidateReportCaches(r.Context(), profile)
	}
	h.pages.afterAction(w, r, err, "/customers")
}
