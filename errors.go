package relay

import "errors"

var (
	// ErrInvalidInput is returned when request validation fails
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized is returned when authentication fails
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConfiguration is returned when key material or bucket bindings are missing or malformed.
	// It always indicates a deployment defect, never a client one.
	ErrConfiguration = errors.New("configuration error")
	// ErrUpstream is returned when the outbound fetch or a bucket call fails
	ErrUpstream = errors.New("upstream failure")
)
