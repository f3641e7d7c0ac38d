// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Error kinds. Every failure surfaced by the API client unwraps to one of the first four.
var (
	// ErrUnauthorized indicates bad credentials or an expired/invalid token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNetwork indicates a transport failure (connection refused, timeout, reset).
	ErrNetwork = errors.New("network error")

	// ErrValidation indicates a 4xx rejection of the request payload or state.
	ErrValidation = errors.New("validation error")

	// ErrServer indicates a 5xx or otherwise unexpected server response.
	ErrServer = errors.New("server error")
)

// Backend-side sentinels, mapped to HTTP statuses by the dev backend.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness or state conflict.
	ErrConflict = errors.New("conflict")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., email taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrRateLimited indicates temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")

	// ErrInvalidTransition indicates a status transition not allowed from the current state.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidInput indicates a malformed request.
	ErrInvalidInput = errors.New("invalid input")
)
