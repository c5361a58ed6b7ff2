package client

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrUnavailable    = errors.New("server unavailable")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrRateLimited    = errors.New("rate limited")
	ErrBadRequest     = errors.New("bad request")
	ErrActionRejected = errors.New("action rejected by server")
	ErrNotLoggedIn    = errors.New("not logged in")
)

// APIError is a non-2xx answer from the API. It unwraps to one of the
// sentinel errors above.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	kind       error
}

// NewAPIError builds an APIError for an HTTP status.
func NewAPIError(statusCode int, code, message string) *APIError {
	return &APIError{StatusCode: statusCode, Code: code, Message: message, kind: kindForStatus(statusCode)}
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("http %d (code %s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return e.kind }

func kindForStatus(code int) error {
	switch {
	case code == 401 || code == 403:
		return ErrUnauthorized
	case code == 429:
		return ErrRateLimited
	case code >= 500:
		return ErrUnavailable
	default:
		return ErrBadRequest
	}
}

// IsTransient reports whether err is worth retrying later without user action.
func IsTransient(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrRateLimited) ||
		errors.Is(err, context.DeadlineExceeded)
}
