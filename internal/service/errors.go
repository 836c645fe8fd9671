package service

import (
	"errors"
	"fmt"

	"paperdesk/internal/storage"
)

// ErrNotFound marks a referenced paper/translation/summary/highlight/preset
// that does not exist. Never retried, surfaced as a user-visible condition.
var ErrNotFound = errors.New("not found")

// ValidationError marks a malformed request rejected before any side effect.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Msg
}

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func mapNotFound(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
