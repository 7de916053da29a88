// Package apperr defines the typed error taxonomy shared across the
// identifier-allocation core, replacing message-sniffing with errors.Is/As.
package apperr

import "errors"

// Sentinel kinds. Every package in this module wraps one of these with
// fmt.Errorf("%w: ...") instead of inventing its own error values.
var (
	// ErrInvalidURL is returned when a raw or normalized URL fails validation.
	ErrInvalidURL = errors.New("invalid url")
	// ErrNotFound is returned when a hash has no known URL.
	ErrNotFound = errors.New("not found")
	// ErrConflictHash is returned when an insert collides on the hash primary key.
	ErrConflictHash = errors.New("hash collision")
	// ErrNoAvailableHash is returned when no identifier could be allocated.
	ErrNoAvailableHash = errors.New("no available hash")
	// ErrRateLimited is returned when a principal's token bucket is empty.
	ErrRateLimited = errors.New("rate limited")
	// ErrIntegrity is returned for store integrity violations other than
	// the URL-conflict case, which is reported as a boolean, not an error.
	ErrIntegrity = errors.New("integrity error")
)
