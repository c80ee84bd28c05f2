package session

import "errors"

var (
	// ErrTripNotFound indicates the selected trip doesn't exist.
	ErrTripNotFound = errors.New("trip not found")
	// ErrInvalidInput indicates invalid session input.
	ErrInvalidInput = errors.New("invalid session input")
)
