package handlers

import (
	"bytes"
	"html/template"
	"log"
	"net/http"

	"ricepro-web/internal/api"
	"ricepro-web/internal/middleware"
	"ricepro-web/internal/models"
	"ricepro-web/internal/views"
	"ricepro-web/templates"
)

// PageData is what every template receives. Content is page specific.
type PageData struct {
	Title    string
	Nav      string
	User     *models.User
	Flash    views.Flash
	Settings views.Settings
	Content  any
}

type PageHandler struct {
	templates *template.Template
	registry  *views.Registry

	logoutOnUnauthorized bool
}

// TemplateFuncs are the formatting helpers available to every page
var TemplateFuncs = template.FuncMap{
	"currency":   views.Currency,
	"currencyf":  views.CurrencyFloat,
	"kg":         views.Kg,
	"date":       views.Date,
	"recordDate": views.RecordDate,
	"badge":      views.StatusBadge,
	"stock":      views.Stock,
}

func NewPageHandler(registry *views.Registry, logoutOnUnauthorized bool) *PageHandler {
	// Parse all templates from embedded filesystem
	tmpl := template.Must(template.New("pages").Funcs(TemplateFuncs).ParseFS(templates.FS, "*.html"))

	return &PageHandler{
		templates:            tmpl,
		registry:             registry,
		logoutOnUnauthorized: logoutOnUnauthorized,
	}
}

// pageData starts the template data for a page of the signed-in profile.
func (h *PageHandler) pageData(r *http.Request, title, nav string) PageData {
	data := PageData{Title: title, Nav: nav, Settings: h.registry.Settings()}
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		user := sess.User
		data.User = &user
	} else if slot, ok := middleware.GetSlotFromContext(r.Context()); ok {
		if sess, ok := slot.CurrentUser(r.Context()); ok {
			user := sess.User
			data.User = &user
		}
	}
	return data
}

// pages returns the view-models of the requesting profile
func (h *PageHandler) pages(r *http.Request) (*views.Pages, string, bool) {
	profile, ok := middleware.GetProfileFromContext(r.Context())
	if !ok {
		return nil, "", false
	}
	return h.registry.For(profile), profile, true
}

func (h *PageHandler) render(w http.ResponseWriter, name string, status int, data PageData) {
	// Render into a buffer so a template error never leaves half a page
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("[Pages] Failed to render %s: %v", name, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (h *PageHandler) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	data := h.pageData(r, http.StatusText(status), "")
	data.Content = message
	h.render(w, "error.html", status, data)
}

// handleUnauthorized signs the profile out when the backend rejected its
// token and sends the browser to sign-in, returning to next afterwards.
// It reports whether it responded.
func (h *PageHandler) handleUnauthorized(w http.ResponseWriter, r *http.Request, err error, next string) bool {
	if !h.logoutOnUnauthorized || !api.IsUnauthorized(err) {
		return false
	}
	if slot, ok := middleware.GetSlotFromContext(r.Context()); ok {
		if err := slot.Logout(r.Context()); err != nil {
			log.Printf("[Pages] Failed to clear expired session: %v", err)
		}
		h.registry.Forget(slot.Profile())
	}
	msg := api.Message(err, "Your session has expired. Please sign in again.")
	http.Redirect(w, r, middleware.SigninRedirect(next, msg), http.StatusFound)
	return true
}

// afterAction finishes a form post: an expired session goes to sign-in,
// anything else back to the page, where the flash is shown.
func (h *PageHandler) afterAction(w http.ResponseWriter, r *http.Request, err error, back string) {
	if err != nil && h.handleUnauthorized(w, r, err, back) {
		return
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// Landing serves the public home page
func (h *PageHandler) Landing(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		h.NotFound(w, r)
		return
	}
	h.render(w, "landing.html", http.StatusOK, h.pageData(r, "Welcome", ""))
}

// SettingsPage shows the business constants
func (h *PageHandler) SettingsPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "settings.html", http.StatusOK, h.pageData(r, "Settings", "settings"))
}

// DashboardPage serves the dashboard
func (h *PageHandler) DashboardPage(w http.ResponseWriter, r *http.Request) {
	pages, _, ok := h.pages(r)
	if !ok {
		h.renderError(w, r, http.StatusInternalServerError, "No browser profile")
		return
	}

	result, _ := pages.Dashboard.Load(r.Context())
	if result.IsFailed() && h.handleUnauthorized(w, r, result.Err, r.URL.RequestURI()) {
		return
	}

	data := h.pageData(r, "Dashboard", "dashboard")
	data.Flash = pages.Dashboard.TakeFlash()
	data.Content = result
	h.render(w, "dashboard.html", http.StatusOK, data)
}

func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusNotFound, "The page you are looking for does not exist.")
}
