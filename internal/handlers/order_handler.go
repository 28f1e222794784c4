package handlers

import (
	"fmt"
	"net/http"

	"ricepro-web/internal/cache"
	"ricepro-web/internal/models"
	"ricepro-web/internal/validation"
	"ricepro-web/internal/views"
)

var orderStatuses = []models.OrderStatus{models.OrderPending, models.OrderDelivered, models.OrderCancelled}

type ordersContent struct {
	Result   views.Result[views.OrdersData]
	Filter   models.OrderFilter
	Rules    validation.OrderRules
	Statuses []models.OrderStatus
	Periods  []models.Period
}

type paymentsContent struct {
	Order    *models.Order
	Payments views.Result[[]models.Payment]
}

type OrderHandler struct {
	pages *PageHandler
}

func NewOrderHandler(pages *PageHandler) *OrderHandler {
	return &OrderHandler{pages: pages}
}

// Page lists orders. ?status= and ?period= change the filter; "all" or an
// unknown value clears it.
func (h *OrderHandler) Page(w http.ResponseWriter, r *http.Request) {
	pages, _, ok := h.pages.pages(r)
	if !ok {
		h.pages.renderError(w, r, http.StatusInternalServerError, "No browser profile")
		return
	}

	filter := pages.Orders.Filter()
	q := r.URL.Query()
	if q.Has("status") {
		filter.Status = models.OrderStatus(q.Get("status"))
	}
	if q.Has("period") {
		filter.Period = models.Period(q.Get("period"))
	}
	result, _ := pages.Orders.Load(r.Context(), filter)
	if result.IsFailed() && h.pages.handleUnauthorized(w, r, result.Err, r.URL.RequestURI()) {
		return
	}

	data := h.pages.pageData(r, "Orders", "orders")
	data.Flash = pages.Orders.TakeFlash()
	data.Content = ordersContent{
		Result:   result,
		Filter:   pages.Orders.Filter(),
		Rules:    pages.Orders.Rules(),
		Statuses: orderStatuses,
		Periods:  models.HistoryPeriods,
	}
	h.pages.render(w, "orders.html", http.StatusOK, data)
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	pages, profile, ok := h.pages.pages(r)
	if !ok || r.ParseForm() != nil {
		h.pages.renderError(w, r, http.StatusBadRequest, "Invalid form")
		return
	}
	req := models.OrderRequest{
		CustomerID: formInt(r, "customer_id"),
		QuantityKg: formFloat(r, "quantity_kg"),
	}
	err := pages.Orders.Create(r.Context(), req)
	if err == nil {
		cache.InvalidateReportCaches(r.Context(), profile)
	}
	h.pages.afterAction(w, r, err, "/orders")
}

func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	pages, profile, ok := h.pages.pages(r)
	id, idOK := pathID(r, "id")
	if !ok || !idOK || r.ParseForm() != nil {
		h.pages.renderError(w, r, http.StatusBadRequest, "Invalid form")
		return
	}
	req := models.OrderRequest{
		CustomerID: formInt(r, "customer_id"),
		QuantityKg: formFloat(r, "quantity_kg"),
	}
	err := pages.Orders.Update(r.Context(), id, req)
	if err == nil {
		cache.InvalidateReportCaches(r.Context(), profile)
	}
	h.pages.afterAction(w, r, err, "/orders")
}

func (h *OrderHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	pages, profile, ok := h.pages.pages(r)
	id, idOK := pathID(r, "id")
	if !ok || !idOK || r.ParseForm() != nil {
		h.pages.renderError(w, r, http.StatusBadRequest, "Invalid form")
		return
	}
	status := models.OrderStatus(r.PostFormValue("status"))
	err := pages.Orders.SetStatus(r.Context(), id, status)
	if err == nil {
		cache.InvalidateReportCaches(r.Context(), profile)
	}
	h.pages.afterAction(w, r, err, "/orders")
}

// Payments shows one order and the payments recorded against it
func (h *OrderHandler) Payments(w http.ResponseWriter, r *http.Request) {
	pages, _, ok := h.pages.pages(r)
	id, idOK := pathID(r, "id")
	if !ok || !idOK {
		h.pages.NotFound(w, r)
		return
	}

	order, err := pages.Orders.Order(r.Context(), id)
	if err != nil {
		if h.pages.handleUnauthorized(w, r, err, r.URL.RequestURI()) {
			return
		}
		if validation.IsValidation(err) {
			h.pages.NotFound(w, r)
			return
		}
		h.pages.renderError(w, r, http.StatusBadGateway, err.Error())
		return
	}
	payments := pages.Orders.Payments(r.Context(), id)
	if payments.IsFailed() && h.pages.handleUnauthorized(w, r, payments.Err, r.URL.RequestURI()) {
		return
	}

	data := h.pages.pageData(r, fmt.Sprintf("Order #%d payments", id), "orders")
	data.Flash = pages.Orders.TakeFlash()
	data.Content = paymentsContent{Order: order, Payments: payments}
	h.pages.render(w, "order_payments.html", http.StatusOK, data)
}

func (h *OrderHandler) AddPayment(w http.ResponseWriter, r *http.Request) {
	pages, profile, ok := h.pages.pages(r)
	id, idOK := pathID(r, "id")
	if !ok || !idOK || r.ParseForm() != nil {
		h.pages.renderError(w, r, http.StatusBadRequest, "Invalid form")
		return
	}
	req := models.CreatePaymentRequest{
		Amount: formFloat(r, "amount"),
		Notes:  r.PostFormValue("notes"),
	}
	err := pages.Orders.AddPayment(r.Context(), id, req)
	if err == nil {
		cache.InvalidateReportCaches(r.Context(), profile)
	}
	h.pages.afterAction(w, r, err, fmt.Sprintf("/orders/%d/payments", id))
}

func (h *OrderHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	pages, profile, ok := h.pages.pages(r)
	id, idOK := pathID(r, "id")
	paymentID, pidOK := pathID(r, "paymentId")
	if !ok || !idOK || !pidOK {
		h.pages.renderError(w, r, http.StatusBadRequest, "Invalid payment")
		return
	}
	err := pages.Orders.DeletePayment(r.Context(), id, paymentID)
	if err == nil {
		cache.InvalidateReportCaches(r.Context(), profile)
	}
	h.pages.afterAction(w, r, err, fmt.Sprintf("/orders/%d/payments", id))
}
