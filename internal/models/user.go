package models

// User is the signed-in account as returned by the backend's signin endpoint.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// SignupRequest represents the request body for signup
type SignupRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// SigninRequest is what the sign-in form collects. The backend expects the
// identifier under username_or_email, see SigninPayload.
type SigninRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SigninPayload is the wire shape of POST /auth/signin
type SigninPayload struct {
	UsernameOrEmail string `json:"username_or_email"`
	Password        string `json:"password"`
}

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    *User  `json:"user"`
}

// ForgotPasswordRequest represents the request body for forgot-password
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest represents the request body for reset-password
type ResetPasswordRequest struct {
	Token           string `json:"token"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ForgotPasswordResponse carries the reset token only while the backend runs
// without an email sender.
type ForgotPasswordResponse struct {
	Message    string `json:"message"`
	ResetToken string `json:"reset_token,omitempty"`
}

// MessageResponse is the generic acknowledgement body the backend returns.
type MessageResponse struct {
	Message string `json:"message"`
	ID      int    `json:"id,omitempty"`
}
