package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Exception is a recoverable request-level failure carrying the HTTP status
// it maps to. All authorization and validation failures in the module are
// Exceptions; anything else surfaces as a 500.
type Exception struct {
	Message    string
	StatusCode int
}

func (e *Exception) Error() string {
	return e.Message
}

func StatusCode(err error) int {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// Forbidden wraps ErrForbidden with the concrete deny reason so callers can
// still match the sentinel with errors.Is while users see why.
func Forbidden(reason string) error {
	return fmt.Errorf("%w: %s", ErrForbidden, reason)
}
