package views

import (
	"ricepro-web/internal/api"
	"ricepro-web/internal/validation"
)

type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashWarning FlashKind = "warning"
	FlashError   FlashKind = "error"
)

// Flash is the one-line message shown above a page after an action.
type Flash struct {
	Kind    FlashKind
	Message string
}

func (f Flash) Empty() bool { return f.Message == "" }

// flashFor turns an action error into the message shown to the user.
// Guard failures are warnings; backend failures carry the backend's text.
func flashFor(err error, fallback string) Flash {
	if validation.IsValidation(err) {
		return Flash{Kind: FlashWarning, Message: err.Error()}
	}
	return Flash{Kind: FlashError, Message: api.Message(err, fallback)}
}
