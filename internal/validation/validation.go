// Package validation holds the checks run before a request is sent to the
// backend. They mirror backend rules for faster feedback; the backend
// re-validates everything.
package validation

import (
	"errors"
	"fmt"
	"math"
	"net/mail"
	"strings"

	"ricepro-web/internal/models"
)

// Error is a guard failure. Message is shown to the user as is.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string { return e.Message }

func fail(field, msg string) *Error { return &Error{Field: field, Message: msg} }

// IsValidation reports whether err is a guard failure rather than a request failure.
func IsValidation(err error) bool {
	var v *Error
	return errors.As(err, &v)
}

var ErrNotPending = fail("delivery_status", "Only pending orders can be edited.")

// OrderRules are the minimum quantity and step, both in kg.
type OrderRules struct {
	MinKg  float64
	StepKg float64
}

var DefaultOrderRules = OrderRules{MinKg: 5, StepKg: 5}

// Quantity accepts kg >= MinKg that is a whole multiple of StepKg.
func (r OrderRules) Quantity(kg float64) error {
	msg := fmt.Sprintf("Quantity must be at least %gkg and in multiples of %gkg", r.MinKg, r.StepKg)
	if math.IsNaN(kg) || math.IsInf(kg, 0) || kg < r.MinKg {
		return fail("quantity_kg", msg)
	}
	if r.StepKg > 0 {
		rem := math.Mod(kg, r.StepKg)
		if rem > 1e-9 && r.StepKg-rem > 1e-9 {
			return fail("quantity_kg", msg)
		}
	}
	return nil
}

func (r OrderRules) Order(req models.OrderRequest) error {
	if req.CustomerID <= 0 {
		return fail("customer_id", "Please select a customer")
	}
	return r.Quantity(req.QuantityKg)
}

// Editable refuses edit, deliver and cancel on anything but a pending order.
func Editable(o *models.Order) error {
	if o == nil || !o.IsPending() {
		return ErrNotPending
	}
	return nil
}

func Status(s models.OrderStatus) error {
	if !s.Valid() {
		return fail("status", "Invalid status")
	}
	return nil
}

func Inventory(req models.InventoryRequest) error {
	if req.Bags < 1 {
		return fail("bags", "Number of bags must be positive")
	}
	if math.IsNaN(req.CostPerBag) || req.CostPerBag < 0 {
		return fail("cost_per_bag", "Cost per bag cannot be negative")
	}
	return nil
}

func Customer(req models.CustomerRequest) error {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Phone) == "" {
		return fail("name", "Name and phone are required")
	}
	if !req.CustomerType.Valid() {
		return fail("customer_type", "Customer type must be restaurant or individual")
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return fail("email", "Please enter a valid email address")
		}
	}
	return nil
}

func Signin(req models.SigninRequest) error {
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return fail("username", "Username and password are required")
	}
	return nil
}

func Signup(req models.SignupRequest) error {
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" ||
		strings.TrimSpace(req.Phone) == "" || req.Password == "" || req.ConfirmPassword == "" {
		return fail("username", "All fields are required")
	}
	if req.Password != req.ConfirmPassword {
		return fail("confirm_password", "Passwords do not match")
	}
	return nil
}

func ForgotPassword(req models.ForgotPasswordRequest) error {
	if strings.TrimSpace(req.Email) == "" {
		return fail("email", "Email is required")
	}
	return nil
}

func ResetPassword(req models.ResetPasswordRequest) error {
	if strings.TrimSpace(req.Token) == "" || req.NewPassword == "" || req.ConfirmPassword == "" {
		return fail("new_password", "All fields are required")
	}
	if req.NewPassword != req.ConfirmPassword {
		return fail("confirm_password", "Passwords do not match")
	}
	return nil
}

func Payment(req models.CreatePaymentRequest) error {
	if math.IsNaN(req.Amount) || req.Amount <= 0 {
		return fail("amount", "Payment amount must be greater than zero")
	}
	return nil
}
