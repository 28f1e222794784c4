package api

import (
	"context"
	"errors"
	"net/http"

	"ricepro-web/internal/models"
)

type AuthClient struct{ c *Client }

func (ac *AuthClient) Signup(ctx context.Context, req models.SignupRequest) (*models.MessageResponse, error) {
	var out models.MessageResponse
	if err := ac.c.do(ctx, "auth", http.MethodPost, "/auth/signup", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Signin exchanges credentials for a session. The form's username is sent
// as username_or_email.
func (ac *AuthClient) Signin(ctx context.Context, req models.SigninRequest) (*models.Session, error) {
	payload := models.SigninPayload{UsernameOrEmail: req.Username, Password: req.Password}

	var out models.AuthResponse
	if err := ac.c.do(ctx, "auth", http.MethodPost, "/auth/signin", nil, payload, &out); err != nil {
		return nil, err
	}
	if out.Token == "" || out.User == nil {
		return nil, &RequestFailure{StatusCode: http.StatusOK, Message: "Sign-in response is missing the token", Err: errors.New("empty token")}
	}
	return &models.Session{User: *out.User, Token: out.Token}, nil
}

func (ac *AuthClient) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) (*models.ForgotPasswordResponse, error) {
	var out models.ForgotPasswordResponse
	if err := ac.c.do(ctx, "auth", http.MethodPost, "/auth/forgot-password", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (ac *AuthClient) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (*models.MessageResponse, error) {
	var out models.MessageResponse
	if err := ac.c.do(ctx, "auth", http.MethodPost, "/auth/reset-password", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
