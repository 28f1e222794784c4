package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"ricepro-web/internal/api"
	"ricepro-web/internal/cache"
	"ricepro-web/internal/models"
	"ricepro-web/internal/reports"
	"ricepro-web/internal/views"
)

// reportPDFTTL bounds how long an exported PDF is served from cache when no
// write happened in between.
const reportPDFTTL = 2 * time.Minute

type reportsContent struct {
	Result         views.Result[views.ReportsData]
	Period         models.Period
	Periods        []models.Period
	ArchiveEnabled bool
}

// ReportArchiver uploads a rendered report, see reports.Archiver
type ReportArchiver interface {
	Upload(ctx context.Context, name string, pdf []byte) (string, error)
}

type ReportHandler struct {
	pages    *PageHandler
	archiver ReportArchiver
}

// NewReportHandler creates the handler. archiver may be nil when archiving
// is not configured.
func NewReportHandler(pages *PageHandler, archiver ReportArchiver) *ReportHandler {
	return &ReportHandler{pages: pages, archiver: archiver}
}

// Page shows the sales report for ?period= (default month) and the inventory report
func (h *ReportHandler) Page(w http.ResponseWriter, r *http.Request) {
	pages, _, ok := h.pages.pages(r)
	if !ok {
		h.pages.renderError(w, r, http.StatusInternalServerError, "No browser profile")
		return
	}

	period := pages.Reports.Period()
	if p := r.URL.Query().Get("period"); p != "" {
		period = models.Period(p)
	}
	result, _ := pages.Reports.Load(r.Context(), period)
	if result.IsFailed() && h.pages.handleUnauthorized(w, r, result.Err, r.URL.RequestURI()) {
		return
	}

	data := h.pages.pageData(r, "Reports", "reports")
	data.Flash = pages.Reports.TakeFlash()
	data.Content = reportsContent{
		Result:         result,
		Period:         pages.Reports.Period(),
		Periods:        models.ReportPeriods,
		ArchiveEnabled: h.archiver != nil,
	}
	h.pages.render(w, "reports.html", http.StatusOK, data)
}

// ExportPDF handles GET /reports/export.pdf?period=
func (h *ReportHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	period := views.ReportPeriod(models.Period(r.URL.Query().Get("period")))

	pdf, err := h.render(r, period)
	if err != nil {
		if h.pages.handleUnauthorized(w, r, err, "/reports") {
			return
		}
		log.Printf("[Reports] Export failed: %v", err)
		h.pages.renderError(w, r, http.StatusBadGateway, api.Message(err, "Failed to generate report."))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", reports.Filename(period)))
	w.Write(pdf)
}

// Archive handles POST /reports/archive, uploading the PDF of the posted period
func (h *ReportHandler) Archive(w http.ResponseWriter, r *http.Request) {
	if h.archiver == nil {
		h.pages.NotFound(w, r)
		return
	}
	pages, _, ok := h.pages.pages(r)
	if !ok || r.ParseForm() != nil {
		h.pages.renderError(w, r, http.StatusBadRequest, "Invalid form")
		return
	}
	period := views.ReportPeriod(models.Period(r.PostFormValue("period")))
	back := "/reports?period=" + string(period)

	pdf, err := h.render(r, period)
	if err != nil {
		if h.pages.handleUnauthorized(w, r, err, back) {
			return
		}
		pages.Reports.SetFlash(views.Flash{Kind: views.FlashError, Message: api.Message(err, "Failed to generate report.")})
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	key, err := h.archiver.Upload(ctx, reports.Filename(period), pdf)
	if err != nil {
		log.Printf("[Reports] Archive failed: %v", err)
		pages.Reports.SetFlash(views.Flash{Kind: views.FlashError, Message: "Failed to archive report."})
	} else {
		pages.Reports.SetFlash(views.Flash{Kind: views.FlashSuccess, Message: "Report archived as " + key})
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// render returns the PDF for period, from cache when a fresh copy exists
func (h *ReportHandler) render(r *http.Request, period models.Period) ([]byte, error) {
	pages, profile, ok := h.pages.pages(r)
	if !ok {
		return nil, fmt.Errorf("no browser profile")
	}

	key := fmt.Sprintf(cache.ReportPDFKeyFmt, profile, period)
	if pdf, ok := cache.GetCached(r.Context(), key); ok {
		return pdf, nil
	}

	data, err := views.FetchReports(r.Context(), pages.Client, period)
	if err != nil {
		return nil, err
	}
	pdf, err := reports.GeneratePDF(data)
	if err != nil {
		return nil, err
	}
	cache.SetCached(r.Context(), key, pdf, reportPDFTTL)
	return pdf, nil
}
