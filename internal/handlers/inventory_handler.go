package handlers

import (
	"net/http"

	"ricepro-web/internal/cache"
	"ricepro-web/internal/models"
	"ricepro-web/internal/views"
)

type inventoryContent struct {
	Result  views.Result[views.InventoryData]
	Period  models.Period
	Periods []models.Period
}

type InventoryHandler struct {
	pages *PageHandler
}

func NewInventoryHandler(pages *PageHandler) *InventoryHandler {
	return &InventoryHandler{pages: pages}
}

// Page shows stock and history. ?period= changes the history window and
// re-fetches both.
func (h *InventoryHandler) Page(w http.ResponseWriter, r *http.Request) {
	pages, _, ok := h.pages.pages(r)
	if !ok {
		h.pages.renderError(w, r, http.StatusInternalServerError, "No browser profile")
		return
	}

	period := pages.Inventory.Period()
	if p := r.URL.Query().Get("period"); p != "" {
		period = models.Period(p)
	}
	result, _ := pages.Inventory.Load(r.Context(), period)
	if result.IsFailed() && h.pages.handleUnauthorized(w, r, result.Err, r.URL.RequestURI()) {
		return
	}

	data := h.pages.pageData(r, "Inventory", "inventory")
	data.Flash = pages.Inventory.TakeFlash()
	data.Content = inventoryContent{
		Result:  result,
		Period:  pages.Inventory.Period(),
		Periods: models.HistoryPeriods,
	}
	h.pages.render(w, "inventory.html", http.StatusOK, data)
}

func (h *InventoryHandler) Add(w http.ResponseWriter, r *http.Request) {
	pages, profile, ok := h.pages.pages(r)
	if !ok || r.ParseForm() != nil {
		h.pages.renderError(w, r, http.StatusBadRequest, "Invalid form")
		return
	}
	req := models.InventoryRequest{
		Bags:       formInt(r, "bags"),
		CostPerBag: formFloat(r, "cost_per_bag"),
	}
	err := pages.Inventory.AddStock(r.Context(), req)
	if err == nil {
		cache.InvalidateReportCaches(r.Context(), profile)
	}
	h.pages.afterAction(w, r, err, "/inventory")
}

func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	pages, profile, ok := h.pages.pages(r)
	id, idOK := pathID(r, "id")
	if !ok || !idOK || r.ParseForm() != nil {
		h.pages.renderError(w, r, http.StatusBadRequest, "Invalid form")
		return
	}
	req := models.InventoryRequest{
		Bags:       formInt(r, "bags"),
		CostPerBag: formFloat(r, "cost_per_bag"),
	}
	err := pages.Inventory.UpdateStock(r.Context(), id, req)
	if err == nil {
		cache.InvalidateReportCaches(r.Context(), profile)
	}
	h.pages.afterAction(w, r, err, "/inventory")
}
