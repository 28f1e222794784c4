package views

import (
	"errors"

	"ricepro-web/internal/models"
)

func messageOr(resp *models.MessageResponse, fallback string) string {
	if resp != nil && resp.Message != "" {
		return resp.Message
	}
	return fallback
}

// ignoreSuperseded treats a reload that lost to a newer reload as done.
func ignoreSuperseded(err error) error {
	if errors.Is(err, ErrSuperseded) {
		return nil
	}
	return err
}
