package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is the single failure shape the API client hands to stores.
// Message is always safe to render to a user.
type APIError struct {
	Kind       error
	StatusCode int
	Message    string
}

// New builds an APIError of the given kind.
func New(kind error, status int, msg string) *APIError {
	return &APIError{Kind: kind, StatusCode: status, Message: msg}
}

func (e *APIError) Error() string { return e.Message }

// Unwrap exposes the kind so callers can use errors.Is(err, errs.ErrUnauthorized).
func (e *APIError) Unwrap() error { return e.Kind }

// KindForStatus maps an HTTP status code onto an error kind.
func KindForStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrUnauthorized
	case status >= 400 && status < 500:
		return ErrValidation
	default:
		return ErrServer
	}
}

// StatusMessage is the fallback text for a non-2xx response without a usable body.
func StatusMessage(status int) string {
	return fmt.Sprintf("HTTP error! status: %d", status)
}

// KindOf returns the kind sentinel carried by err, or nil.
func KindOf(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	for _, k := range []error{ErrUnauthorized, ErrNetwork, ErrValidation, ErrServer} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// Transient reports whether err is worth retrying (transport failure or 5xx).
func Transient(err error) bool {
	k := KindOf(err)
	return k == ErrNetwork || k == ErrServer
}

// Message returns the user-facing text of any error.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if s := err.Error(); s != "" {
		return s
	}
	return "unexpected error"
}
