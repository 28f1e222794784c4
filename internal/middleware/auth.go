package middleware

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"

	"ricepro-web/internal/auth"
	"ricepro-web/internal/models"
	"ricepro-web/internal/session"
)

type contextKey string

const ProfileKey contextKey = "profile"
const SlotKey contextKey = "session_slot"
const SessionKey contextKey = "session"

// RouteKind says whether a route needs a signed-in session.
type RouteKind int

const (
	Public RouteKind = iota
	Protected
	// GuestOnly routes (sign-in, sign-up) send signed-in users to the dashboard.
	GuestOnly
)

const (
	SigninPath    = "/signin"
	DashboardPath = "/dashboard"
)

type SessionMiddleware struct {
	profiles *auth.ProfileManager
	sessions *session.Manager
}

func NewSessionMiddleware(profiles *auth.ProfileManager, sessions *session.Manager) *SessionMiddleware {
	return &SessionMiddleware{
		profiles: profiles,
		sessions: sessions,
	}
}

// Profile attaches the browser profile and its session slot to the request,
// issuing a profile cookie on first visit.
func (m *SessionMiddleware) Profile(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profile, err := m.profiles.Ensure(w, r)
		if err != nil {
			log.Printf("[Session] Failed to issue profile cookie: %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		ctx := context.WithValue(r.Context(), ProfileKey, profile)
		ctx = context.WithValue(ctx, SlotKey, m.sessions.Slot(profile))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Guard returns the check a route of the given kind runs before its handler.
func (m *SessionMiddleware) Guard(kind RouteKind) func(http.Handler) http.Handler {
	switch kind {
	case Protected:
		return m.requireSession
	case GuestOnly:
		return m.redirectSignedIn
	default:
		return func(next http.Handler) http.Handler { return next }
	}
}

func (m *SessionMiddleware) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slot, ok := GetSlotFromContext(r.Context())
		if !ok {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		sess, ok := slot.CurrentUser(r.Context())
		if !ok {
			// For HTML pages, redirect to sign-in
			if wantsHTML(r) {
				http.Redirect(w, r, SigninRedirect(r.URL.RequestURI(), ""), http.StatusFound)
				return
			}
			http.Error(w, "Sign in required", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), SessionKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *SessionMiddleware) redirectSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if slot, ok := GetSlotFromContext(r.Context()); ok && r.Method == http.MethodGet && slot.IsAuthenticated(r.Context()) {
			http.Redirect(w, r, DashboardPath, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SigninRedirect builds /signin?next=...&error=... . next is dropped unless
// it is a local path.
func SigninRedirect(next, message string) string {
	q := url.Values{}
	if SafeNext(next) != "" {
		q.Set("next", next)
	}
	if message != "" {
		q.Set("error", message)
	}
	if len(q) == 0 {
		return SigninPath
	}
	return SigninPath + "?" + q.Encode()
}

// SafeNext returns next if it is a local absolute path, otherwise "".
func SafeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}

func wantsHTML(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return accept == "" || strings.Contains(accept, "text/html") || strings.Contains(accept, "*/*")
}

// GetProfileFromContext extracts the profile id from request context
func GetProfileFromContext(ctx context.Context) (string, bool) {
	profile, ok := ctx.Value(ProfileKey).(string)
	return profile, ok
}

// GetSlotFromContext extracts the profile's session slot from request context
func GetSlotFromContext(ctx context.Context) (*session.Slot, bool) {
	slot, ok := ctx.Value(SlotKey).(*session.Slot)
	return slot, ok
}

// GetSessionFromContext returns the session a protected route was admitted with
func GetSessionFromContext(ctx context.Context) (*models.Session, bool) {
	sess, ok := ctx.Value(SessionKey).(*models.Session)
	return sess, ok
}
