package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// RequestFailure is returned by every resource call that did not succeed.
// StatusCode is 0 when the backend could not be reached.
type RequestFailure struct {
	StatusCode int
	Message    string
	Err        error
}

func (f *RequestFailure) Error() string {
	if f.StatusCode == 0 {
		if f.Err != nil {
			return fmt.Sprintf("%s: %v", f.Message, f.Err)
		}
		return f.Message
	}
	return fmt.Sprintf("%d: %s", f.StatusCode, f.Message)
}

func (f *RequestFailure) Unwrap() error { return f.Err }

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func newRequestFailure(status int, body []byte) *RequestFailure {
	msg := http.StatusText(status)
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		switch {
		case strings.TrimSpace(eb.Error) != "":
			msg = eb.Error
		case strings.TrimSpace(eb.Message) != "":
			msg = eb.Message
		}
	}
	if msg == "" {
		msg = fmt.Sprintf("Request failed with status %d", status)
	}
	return &RequestFailure{StatusCode: status, Message: msg}
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	var f *RequestFailure
	return errors.As(err, &f) && f.StatusCode == http.StatusUnauthorized
}

// Message returns the text to show the user for err, or fallback when err
// did not come from the backend.
func Message(err error, fallback string) string {
	var f *RequestFailure
	if errors.As(err, &f) && f.Message != "" {
		return f.Message
	}
	return fallback
}
