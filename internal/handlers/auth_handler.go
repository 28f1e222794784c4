package handlers

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"ricepro-web/internal/api"
	"ricepro-web/internal/middleware"
	"ricepro-web/internal/models"
	"ricepro-web/internal/validation"
	"ricepro-web/internal/views"
)

type signinForm struct {
	Next     string
	Username string
}

type signupForm struct {
	Username string
	Email    string
	Phone    string
}

type resetForm struct {
	Email string
	Token string
}

// AuthHandler serves sign-in, sign-up, password reset and sign-out. The
// auth endpoints need no token, so it talks to the backend with a client
// that carries none.
type AuthHandler struct {
	pages  *PageHandler
	client *api.Client
}

func NewAuthHandler(pages *PageHandler, client *api.Client) *AuthHandler {
	return &AuthHandler{pages: pages, client: client.WithTokens(nil)}
}

// SigninPage renders the sign-in form. ?error= and ?message= come from
// redirects (expired session, finished sign-up or reset).
func (h *AuthHandler) SigninPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := h.pages.pageData(r, "Sign in", "")
	data.Flash = queryFlash(r)
	data.Content = signinForm{Next: middleware.SafeNext(q.Get("next"))}
	h.pages.render(w, "signin.html", http.StatusOK, data)
}

// Signin checks the credentials against the backend. On success the session
// is stored in the profile's slot; on failure nothing is stored and the
// backend's message is shown as is.
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.pages.renderError(w, r, http.StatusBadRequest, "Invalid form")
		return
	}
	req := models.SigninRequest{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}
	form := signinForm{Next: middleware.SafeNext(r.PostFormValue("next")), Username: req.Username}

	fail := func(status int, flash views.Flash) {
		data := h.pages.pageData(r, "Sign in", "")
		data.Flash = flash
		data.Content = form
		h.pages.render(w, "signin.html", status, data)
	}

	if err := validation.Signin(req); err != nil {
		fail(http.StatusBadRequest, views.Flash{Kind: views.FlashWarning, Message: err.Error()})
		return
	}

	sess, err := h.client.Auth().Signin(r.Context(), req)
	if err != nil {
		log.Printf("[Auth] Sign in failed for %q: %v", req.Username, err)
		fail(failureStatus(err), views.Flash{Kind: views.FlashError, Message: api.Message(err, "Sign in failed. Please try again.")})
		return
	}

	slot, ok := middleware.GetSlotFromContext(r.Context())
	if !ok {
		h.pages.renderError(w, r, http.StatusInternalServerError, "No browser profile")
		return
	}
	if err := slot.SetCurrentUser(r.Context(), *sess); err != nil {
		log.Printf("[Auth] Failed to store session: %v", err)
		fail(http.StatusInternalServerError, views.Flash{Kind: views.FlashError, Message: "Could not save your session. Please try again."})
		return
	}
	// Start the new session with fresh view state
	h.pages.registry.Forget(slot.Profile())

	next := form.Next
	if next == "" {
		next = middleware.DashboardPath
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (h *AuthHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	data := h.pages.pageData(r, "Sign up", "")
	data.Flash = queryFlash(r)
	data.Content = signupForm{}
	h.pages.render(w, "signup.html", http.StatusOK, data)
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.pages.renderError(w, r, http.StatusBadRequest, "Invalid form")
		return
	}
	req := models.SignupRequest{
		Username:        strings.TrimSpace(r.PostFormValue("username")),
		Email:           strings.TrimSpace(r.PostFormValue("email")),
		Phone:           strings.TrimSpace(r.PostFormValue("phone")),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	}

	fail := func(status int, flash views.Flash) {
		data := h.pages.pageData(r, "Sign up", "")
		data.Flash = flash
		data.Content = signupForm{Username: req.Username, Email: req.Email, Phone: req.Phone}
		h.pages.render(w, "signup.html", status, data)
	}

	if err := validation.Signup(req); err != nil {
		fail(http.StatusBadRequest, views.Flash{Kind: views.FlashWarning, Message: err.Error()})
		return
	}
	resp, err := h.client.Auth().Signup(r.Context(), req)
	if err != nil {
		fail(failureStatus(err), views.Flash{Kind: views.FlashError, Message: api.Message(err, "Sign up failed. Please try again.")})
		return
	}

	msg := "Account created. Please sign in."
	if resp != nil && resp.Message != "" {
		msg = resp.Message
	}
	http.Redirect(w, r, middleware.SigninPath+"?message="+url.QueryEscape(msg), http.StatusSeeOther)
}

func (h *AuthHandler) ResetPasswordPage(w http.ResponseWriter, r *http.Request) {
	data := h.pages.pageData(r, "Reset password", "")
	data.Flash = queryFlash(r)
	data.Content = resetForm{Token: r.URL.Query().Get("token")}
	h.pages.render(w, "reset_password.html", http.StatusOK, data)
}

// ForgotPassword asks the backend for a reset token. Backends without an
// email sender return the token, which is then filled into the reset form.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.pages.renderError(w, r, http.StatusBadRequest, "Invalid form")
		return
	}
	req := models.ForgotPasswordRequest{Email: strings.TrimSpace(r.PostFormValue("email"))}
	data := h.pages.pageData(r, "Reset password", "")
	form := resetForm{Email: req.Email}

	status := http.StatusOK
	if err := validation.ForgotPassword(req); err != nil {
		status = http.StatusBadRequest
		data.Flash = views.Flash{Kind: views.FlashWarning, Message: err.Error()}
	} else if resp, err := h.client.Auth().ForgotPassword(r.Context(), req); err != nil {
		status = failureStatus(err)
		data.Flash = views.Flash{Kind: views.FlashError, Message: api.Message(err, "Could not start password reset.")}
	} else {
		form.Token = resp.ResetToken
		msg := resp.Message
		if msg == "" {
			msg = "If the email is registered, a reset token has been sent."
		}
		data.Flash = views.Flash{Kind: views.FlashSuccess, Message: msg}
	}

	data.Content = form
	h.pages.render(w, "reset_password.html", status, data)
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.pages.renderError(w, r, http.StatusBadRequest, "Invalid form")
		return
	}
	req := models.ResetPasswordRequest{
		Token:           strings.TrimSpace(r.PostFormValue("token")),
		NewPassword:     r.PostFormValue("new_password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	}

	fail := func(status int, flash views.Flash) {
		data := h.pages.pageData(r, "Reset password", "")
		data.Flash = flash
		data.Content = resetForm{Token: req.Token}
		h.pages.render(w, "reset_password.html", status, data)
	}

	if err := validation.ResetPassword(req); err != nil {
		fail(http.StatusBadRequest, views.Flash{Kind: views.FlashWarning, Message: err.Error()})
		return
	}
	resp, err := h.client.Auth().ResetPassword(r.Context(), req)
	if err != nil {
		fail(failureStatus(err), views.Flash{Kind: views.FlashError, Message: api.Message(err, "Password reset failed.")})
		return
	}

	msg := "Password reset. Please sign in."
	if resp != nil && resp.Message != "" {
		msg = resp.Message
	}
	http.Redirect(w, r, middleware.SigninPath+"?message="+url.QueryEscape(msg), http.StatusSeeOther)
}

// Signout clears the profile's session and its view state
func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	if slot, ok := middleware.GetSlotFromContext(r.Context()); ok {
		if err := slot.Logout(r.Context()); err != nil {
			log.Printf("[Auth] Failed to clear session: %v", err)
		}
		h.pages.registry.Forget(slot.Profile())
	}
	http.Redirect(w, r, middleware.SigninPath, http.StatusSeeOther)
}

// failureStatus maps a backend failure to the status of the re-rendered form
func failureStatus(err error) int {
	var f *api.RequestFailure
	if errors.As(err, &f) && f.StatusCode >= 400 && f.StatusCode < 500 {
		return f.StatusCode
	}
	return http.StatusBadGateway
}
